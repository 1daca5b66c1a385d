package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/internal/storage"
)

const maxUploadBytes = 5 << 20

type UploadsHandler struct {
	Storage storage.Storage
}

func NewUploadsHandler(s storage.Storage) *UploadsHandler {
	return &UploadsHandler{Storage: s}
}

// Create accepts a single multipart image under the "file" field and
// returns its public URL for use as a product image or blog cover.
func (h *UploadsHandler) Create(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("A file is required.", nil))
		return
	}
	if fh.Size > maxUploadBytes {
		middleware.Fail(c, apperr.InvalidErr("File is too large (max 5 MB).", nil))
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		middleware.Fail(c, apperr.InvalidErr("Only image uploads are allowed.", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	res, err := h.Storage.Put(c.Request.Context(), f, storage.PutInput{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": res.Key, "url": res.URL})
}
