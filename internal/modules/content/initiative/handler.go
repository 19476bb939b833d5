package initiative

import (
	"context"
	"errors"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/modules/storage/media"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// Repository is the storage contract the handlers depend on.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Initiative, error)
	Get(ctx context.Context, id int64) (*Initiative, error)
	Create(ctx context.Context, in Input) (*Initiative, error)
	Update(ctx context.Context, id int64, in Input) (*Initiative, error)
	Delete(ctx context.Context, id int64) error
	GeoJSON(ctx context.Context, f Filter) (*geojson.FeatureCollection, error)
}

// MediaUploader stores files attached to a multipart create request.
type MediaUploader interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (*media.StoredFile, error)
	Remove(ctx context.Context, filename string) error
}

type Handler struct {
	repo     Repository
	uploader MediaUploader
	log      *zap.Logger
}

// NewHandler wires the routes to repo. uploader may be nil, in which case
// multipart creates are refused.
func NewHandler(repo Repository, uploader MediaUploader, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{repo: repo, uploader: uploader, log: log}
}

func (h *Handler) RegisterRoutes(rg gin.IRouter) {
	g := rg.Group("/initiatives")
	g.GET("", h.list)
	g.GET("/geojson", h.geojson)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func filterFrom(c *gin.Context) Filter {
	return Filter{
		Status:   strings.TrimSpace(c.Query("status")),
		Category: strings.TrimSpace(c.Query("category")),
	}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), filterFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) geojson(c *gin.Context) {
	fc, err := h.repo.GeoJSON(c.Request.Context(), filterFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, fc)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) create(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		h.createMultipart(c)
		return
	}

	var dto InitiativeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.repo.Create(c.Request.Context(), dto.ToInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, item)
}

// createMultipart handles the mobile client's form: the initiative JSON in
// the "initiative" field and any number of image or video file parts.
func (h *Handler) createMultipart(c *gin.Context) {
	if h.uploader == nil {
		response.BadRequest(c, "multipart uploads are not enabled")
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	raw := firstValue(form.Value["initiative"])
	if raw == "" {
		response.BadRequest(c, "initiative field is required")
		return
	}

	var dto InitiativeDTO
	if err := binding.JSON.BindBody([]byte(raw), &dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	var stored []*media.StoredFile
	cleanup := func() {
		for _, f := range stored {
			if err := h.uploader.Remove(ctx, f.Filename); err != nil {
				h.log.Warn("failed to remove orphaned upload", zap.String("file", f.Filename), zap.Error(err))
			}
		}
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		for _, fh := range form.File[field] {
			f, err := h.uploader.Save(ctx, fh)
			if err != nil {
				cleanup()
				if errors.Is(err, media.ErrInvalidFile) {
					response.BadRequest(c, err.Error())
					return
				}
				h.fail(c, err)
				return
			}
			stored = append(stored, f)
			dto.Media = append(dto.Media, MediaDTO{URL: f.URL, MediaType: f.MediaType})
		}
	}

	item, err := h.repo.Create(ctx, dto.ToInput())
	if err != nil {
		cleanup()
		h.fail(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto InitiativeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.repo.Update(c.Request.Context(), id, dto.ToInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, "Initiative deleted successfully")
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.BadRequest(c, validationMessage(err))
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Initiative not found")
	default:
		h.log.Error("initiative request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		response.InternalError(c, err)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid initiative id")
		return 0, false
	}
	return id, true
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
