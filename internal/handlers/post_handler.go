package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/foro-app/backend/internal/models"
	"github.com/foro-app/backend/internal/repositories"
	"github.com/foro-app/backend/internal/uploader"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// allowedImageTypes is the accepted-type policy enforced before the remote
// store is ever contacted.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// PostHandler handles HTTP requests related to forum posts
type PostHandler struct {
	resolver repositories.ForumResolver
	uploader uploader.ImageUploader
	logger   *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(resolver repositories.ForumResolver, up uploader.ImageUploader, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		resolver: resolver,
		uploader: up,
		logger:   logger,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts/:forum", h.ListPosts)
	g.POST("/posts/:forum", h.CreatePost)
	g.POST("/posts/:forum/:postId/comment", h.AddComment)
}

// ListPosts returns every post in a forum, newest first
func (h *PostHandler) ListPosts(c echo.Context) error {
	repo, err := h.resolver.Resolve(c.Param("forum"))
	if err != nil {
		return h.httpError(c, err)
	}

	posts, err := repo.ListPosts(c.Request().Context())
	if err != nil {
		return h.httpError(c, err)
	}

	return c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post in a forum, uploading an attached image first
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	req.Content = strings.TrimSpace(req.Content)
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	repo, err := h.resolver.Resolve(c.Param("forum"))
	if err != nil {
		return h.httpError(c, err)
	}

	post := &models.Post{
		Content: req.Content,
		Author:  req.Author,
	}
	if post.Author == "" {
		post.Author = models.AnonymousAuthor
	}

	// The image must be uploaded before anything is written to the store:
	// a failed upload aborts the whole creation.
	if file, err := c.FormFile("image"); err == nil {
		imageURL, err := h.uploadImage(c, file)
		if err != nil {
			return h.httpError(c, err)
		}
		post.ImageURL = imageURL
	}

	if err := repo.CreatePost(c.Request().Context(), post); err != nil {
		return h.httpError(c, err)
	}

	return c.JSON(http.StatusCreated, post)
}

// AddComment appends a comment to an existing post and returns the updated post
func (h *PostHandler) AddComment(c echo.Context) error {
	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	req.Text = strings.TrimSpace(req.Text)
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	repo, err := h.resolver.Resolve(c.Param("forum"))
	if err != nil {
		return h.httpError(c, err)
	}

	comment := models.Comment{
		Author: req.Author,
		Text:   req.Text,
	}
	post, err := repo.AddComment(c.Request().Context(), c.Param("postId"), comment)
	if err != nil {
		return h.httpError(c, err)
	}

	return c.JSON(http.StatusOK, post)
}

// uploadImage reads the multipart file into memory and forwards it to the
// remote image store.
func (h *PostHandler) uploadImage(c echo.Context, file *multipart.FileHeader) (string, error) {
	mimeType := file.Header.Get("Content-Type")
	if !allowedImageTypes[mimeType] {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Unsupported image type")
	}

	src, err := file.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded file")
	}

	return h.uploader.Upload(c.Request().Context(), data, mimeType)
}

// httpError maps internal errors onto HTTP status codes. Only the message
// string crosses the boundary.
func (h *PostHandler) httpError(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, repositories.ErrInvalidForumName):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid forum name")
	case errors.Is(err, repositories.ErrPostNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	case errors.Is(err, uploader.ErrUploadFailed):
		h.logger.Error("image upload failed", zap.String("path", c.Path()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Image upload failed")
	default:
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
