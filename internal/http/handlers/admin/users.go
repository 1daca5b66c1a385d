package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/modules/users"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

type UsersHandler struct {
	Users *users.Repo
}

func NewUsersHandler(repo *users.Repo) *UsersHandler {
	return &UsersHandler{Users: repo}
}

func (h *UsersHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.Users.AdminList(c.Request.Context(), users.AdminListParams{
		Q:        c.Query("q"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	out := make([]dto.User, len(res.Items))
	for i, u := range res.Items {
		out[i] = dto.FromUser(u)
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "total": res.Total})
}
