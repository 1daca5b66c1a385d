package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/config"
	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/http/validation"
	"github.com/sinahmd/ecommerce/internal/modules/users"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

type AuthHandler struct {
	Users *users.Repo
	Cfg   config.AuthConfig
	// Secure marks the auth cookies; off only in local development.
	Secure bool
}

func NewAuthHandler(repo *users.Repo, cfg config.AuthConfig, secure bool) *AuthHandler {
	return &AuthHandler{Users: repo, Cfg: cfg, Secure: secure}
}

type registerInput struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in registerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Registration data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	u, err := h.Users.Register(c.Request.Context(), users.RegisterInput{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			middleware.Fail(c, apperr.ConflictErr("This email is already registered."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	if err := h.issueCookies(c, u); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": dto.FromUser(u)})
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Login data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	u, err := h.Users.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			middleware.Fail(c, apperr.UnauthorizedErr("Email or password is incorrect."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	if err := h.issueCookies(c, u); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.FromUser(u)})
}

// Refresh rotates the token pair from a valid refresh cookie. The user
// is reloaded so revoked accounts lose access at the refresh boundary.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(middleware.RefreshCookie)
	if err != nil || raw == "" {
		middleware.Fail(c, apperr.UnauthorizedErr("Session has expired."))
		return
	}

	claims, err := users.ParseToken([]byte(h.Cfg.JWTSecret), raw, users.TokenRefresh)
	if err != nil {
		h.clearCookies(c)
		middleware.Fail(c, apperr.UnauthorizedErr("Session has expired."))
		return
	}

	u, err := h.Users.GetByID(c.Request.Context(), claims.Subject)
	if err != nil || !u.IsActive {
		h.clearCookies(c)
		middleware.Fail(c, apperr.UnauthorizedErr("Session has expired."))
		return
	}

	if err := h.issueCookies(c, u); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.FromUser(u)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearCookies(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	cu, _ := middleware.CurrentUser(c)
	u, err := h.Users.GetByID(c.Request.Context(), cu.ID)
	if err != nil {
		middleware.Fail(c, orNotFound(err, "User not found."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.FromUser(u)})
}

func (h *AuthHandler) issueCookies(c *gin.Context, u users.User) error {
	secret := []byte(h.Cfg.JWTSecret)

	access, err := users.MintToken(secret, u, users.TokenAccess, h.Cfg.AccessTokenTTL)
	if err != nil {
		return err
	}
	refresh, err := users.MintToken(secret, u, users.TokenRefresh, h.Cfg.RefreshTokenTTL)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, access, int(h.Cfg.AccessTokenTTL.Seconds()), "/", "", h.Secure, true)
	c.SetCookie(middleware.RefreshCookie, refresh, int(h.Cfg.RefreshTokenTTL.Seconds()), "/", "", h.Secure, true)
	return nil
}

func (h *AuthHandler) clearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, "", -1, "/", "", h.Secure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", "", h.Secure, true)
}
