package post

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rfcarvalho/go-blog-backend/app/observability/metrics"
	"github.com/rfcarvalho/go-blog-backend/internal/api"
	"github.com/rfcarvalho/go-blog-backend/internal/api/auth"
	"github.com/rfcarvalho/go-blog-backend/internal/types"
)

type PostHandler struct {
	postService PostService
	logger      *slog.Logger
}

func NewPostHandler(postService PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		logger:      logger,
		postService: postService,
	}
}

// CreatePost handles POST /posts. The owning identity comes from the
// verified token, never from the request body.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreatePost"))

	authorID, ok := auth.GetUserIDFromContext(ctx)
	if !ok || authorID == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if fieldErrors := api.ValidateStruct(&req); fieldErrors != nil {
		api.ValidationErrorsResponse(w, r, fieldErrors)
		return
	}

	post, err := h.postService.Create(ctx, authorID, PostParams{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to create post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create post")
		return
	}
	recordPostWrite(r, "create")

	api.WriteJSONResponse(w, r, http.StatusCreated, post)
}

// GetPosts handles GET /posts.
func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPosts"))

	posts, err := h.postService.List(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list posts", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve posts")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, posts)
}

// GetPost handles GET /posts/{id}.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPost"))

	postID := chi.URLParam(r, "id")
	post, err := h.postService.Get(ctx, postID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve post")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

// UpdatePost handles PUT /posts/{id}. Only the post's author may update it.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdatePost"))

	requesterID, ok := auth.GetUserIDFromContext(ctx)
	if !ok || requesterID == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdatePostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if fieldErrors := api.ValidateStruct(&req); fieldErrors != nil {
		api.ValidationErrorsResponse(w, r, fieldErrors)
		return
	}

	postID := chi.URLParam(r, "id")
	post, err := h.postService.Update(ctx, requesterID, postID, PostParams{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	})
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "You can only edit your own posts")
		default:
			l.ErrorContext(ctx, "Failed to update post", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update post")
		}
		return
	}
	recordPostWrite(r, "update")

	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

// DeletePost handles DELETE /posts/{id}. Only the post's author may delete it.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeletePost"))

	requesterID, ok := auth.GetUserIDFromContext(ctx)
	if !ok || requesterID == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")
	post, err := h.postService.Delete(ctx, requesterID, postID)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "You can only delete your own posts")
		default:
			l.ErrorContext(ctx, "Failed to delete post", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete post")
		}
		return
	}
	recordPostWrite(r, "delete")

	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

func recordPostWrite(r *http.Request, operation string) {
	metrics.Get().PostWritesTotal.Add(r.Context(), 1,
		metric.WithAttributes(attribute.String("operation", operation)))
}
