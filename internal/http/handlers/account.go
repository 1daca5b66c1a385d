package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/http/validation"
	"github.com/sinahmd/ecommerce/internal/modules/users"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

type AccountHandler struct {
	Users *users.Repo
}

func NewAccountHandler(repo *users.Repo) *AccountHandler {
	return &AccountHandler{Users: repo}
}

type profileInput struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var in profileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Profile data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cu, _ := middleware.CurrentUser(c)
	if err := h.Users.UpdateProfile(c.Request.Context(), cu.ID, in.FirstName, in.LastName); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	u, err := h.Users.GetByID(c.Request.Context(), cu.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.FromUser(u)})
}

type passwordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var in passwordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Password data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cu, _ := middleware.CurrentUser(c)
	if err := h.Users.ChangePassword(c.Request.Context(), cu.ID, in.CurrentPassword, in.NewPassword); err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			middleware.Fail(c, apperr.UnauthorizedErr("Current password is incorrect."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AccountHandler) ListAddresses(c *gin.Context) {
	cu, _ := middleware.CurrentUser(c)
	out, err := h.Users.ListAddresses(c.Request.Context(), cu.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": dto.FromAddresses(out)})
}

type addressInput struct {
	AddressType string `json:"address_type" binding:"required,oneof=shipping billing"`
	Street      string `json:"street" binding:"required,max=255"`
	City        string `json:"city" binding:"required,max=100"`
	State       string `json:"state" binding:"required,max=100"`
	ZipCode     string `json:"zip_code" binding:"required,max=20"`
	Country     string `json:"country" binding:"required,max=100"`
	IsDefault   bool   `json:"is_default"`
}

func (in addressInput) toModel() users.AddressInput {
	return users.AddressInput{
		AddressType: in.AddressType,
		Street:      in.Street,
		City:        in.City,
		State:       in.State,
		ZipCode:     in.ZipCode,
		Country:     in.Country,
		IsDefault:   in.IsDefault,
	}
}

func (h *AccountHandler) CreateAddress(c *gin.Context) {
	var in addressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Address data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cu, _ := middleware.CurrentUser(c)
	a, err := h.Users.CreateAddress(c.Request.Context(), cu.ID, in.toModel())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": dto.FromAddress(a)})
}

func (h *AccountHandler) UpdateAddress(c *gin.Context) {
	var in addressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Address data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cu, _ := middleware.CurrentUser(c)
	id := c.Param("id")
	if err := h.Users.UpdateAddress(c.Request.Context(), cu.ID, id, in.toModel()); err != nil {
		middleware.Fail(c, orNotFound(err, "Address not found."))
		return
	}

	a, err := h.Users.GetAddress(c.Request.Context(), cu.ID, id)
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Address not found."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": dto.FromAddress(a)})
}

func (h *AccountHandler) DeleteAddress(c *gin.Context) {
	cu, _ := middleware.CurrentUser(c)
	if err := h.Users.DeleteAddress(c.Request.Context(), cu.ID, c.Param("id")); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
