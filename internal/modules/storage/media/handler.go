package media

import (
	"errors"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler accepts standalone media uploads. Uploaded files are not linked to
// any initiative until a client sends the returned URL in a create request.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	stored, err := h.svc.Save(c.Request.Context(), fileHeader)
	if err != nil {
		if errors.Is(err, ErrInvalidFile) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, stored)
}
