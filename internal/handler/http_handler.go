package handler

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-dashboard/internal/domain"
	"github.com/weiawesome/wes-dashboard/internal/service"
	"github.com/weiawesome/wes-dashboard/pkg/log"
	"github.com/weiawesome/wes-dashboard/pkg/response"
	"github.com/weiawesome/wes-dashboard/pkg/storage"
)

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	itemService   service.ItemService
	searchService service.SearchService
	images        storage.Storage
	imagePrefix   string
}

// NewHandler creates a new HTTP handler. Stored images are served under
// "/<imagePrefix>/".
func NewHandler(itemService service.ItemService, searchService service.SearchService, images storage.Storage, imagePrefix string) *Handler {
	return &Handler{
		itemService:   itemService,
		searchService: searchService,
		images:        images,
		imagePrefix:   strings.Trim(imagePrefix, "/"),
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/items", h.CreateItem)
	r.GET("/search", h.Search)
	r.GET("/health", h.Health)
	if h.imagePrefix != "" {
		r.GET("/"+h.imagePrefix+"/*name", h.ServeImage)
	}
}

// CreateItem accepts a multipart form with title, optional description and
// optional image file.
func (h *Handler) CreateItem(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	if _, err := c.MultipartForm(); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		l.Warn().Err(err).Msg("invalid multipart form")
		response.BadRequest(c, "invalid multipart form")
		return
	}

	title, ok := c.GetPostForm("title")
	if !ok {
		response.Unprocessable(c, "title is required")
		return
	}

	input := &domain.CreateItemInput{Title: title}
	if desc, ok := c.GetPostForm("description"); ok {
		input.Description = &desc
	}

	fh, err := c.FormFile("image")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			l.Warn().Err(err).Msg("failed to open uploaded image")
			response.BadRequest(c, "invalid image upload")
			return
		}
		defer f.Close()
		input.Image = imageUpload(fh, f)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		l.Warn().Err(err).Msg("invalid multipart form")
		response.BadRequest(c, "invalid multipart form")
		return
	}

	item, err := h.itemService.CreateItem(ctx, input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			response.Unprocessable(c, err.Error())
			return
		}
		l.Error().Err(err).Msg("create item failed")
		response.InternalError(c, "failed to create item")
		return
	}

	response.OK(c, item)
}

// Search handles GET /search?q=. An empty q is a valid query; only a
// missing one is rejected.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	q, ok := c.GetQuery("q")
	if !ok {
		l.Warn().Msg("search request without q")
		response.Unprocessable(c, "query parameter q is required")
		return
	}

	hits, err := h.searchService.Search(ctx, q)
	if err != nil {
		l.Error().Err(err).Str(log.FieldQuery, q).Msg("search failed")
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, domain.SearchResponse{Results: hits})
}

// ServeImage streams a stored image.
func (h *Handler) ServeImage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	name := strings.TrimPrefix(c.Param("name"), "/")
	if name == "" {
		response.NotFound(c, "Not Found")
		return
	}
	key := h.imagePrefix + "/" + name

	obj, err := h.images.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(c, "Not Found")
			return
		}
		l.Error().Err(err).Str(log.FieldImagePath, key).Msg("failed to read image")
		response.InternalError(c, "failed to read image")
		return
	}
	defer obj.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj, nil)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func imageUpload(fh *multipart.FileHeader, f multipart.File) *domain.ImageUpload {
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(fh.Filename))
	}
	return &domain.ImageUpload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Content:     f,
	}
}
