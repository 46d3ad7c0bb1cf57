package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rfcarvalho/go-blog-backend/app/observability/metrics"
	"github.com/rfcarvalho/go-blog-backend/internal/api"
	"github.com/rfcarvalho/go-blog-backend/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authService: authService,
	}
}

// Register handles POST /auth/register. Invalid field shapes produce an
// itemized 400; a duplicate email produces a 400 with a flat message.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if fieldErrors := api.ValidateStruct(&req); fieldErrors != nil {
		api.ValidationErrorsResponse(w, r, fieldErrors)
		return
	}

	user, err := h.authService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			l.WarnContext(ctx, "Registration rejected, email already exists")
			api.ErrorResponse(w, r, http.StatusBadRequest, "User already exists")
			recordRegister(r, "conflict")
			return
		}
		l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		recordRegister(r, "error")
		return
	}
	recordRegister(r, "success")

	api.WriteJSONResponse(w, r, http.StatusCreated, RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login handles POST /auth/login. A lookup miss is a 404 and a password
// mismatch a 401, matching what the browser client distinguishes on.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if fieldErrors := api.ValidateStruct(&req); fieldErrors != nil {
		api.ValidationErrorsResponse(w, r, fieldErrors)
		return
	}

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			recordLogin(r, "not_found")
		case errors.Is(err, types.ErrUnauthenticated):
			l.WarnContext(ctx, "Login rejected, invalid password")
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid password")
			recordLogin(r, "unauthorized")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log in")
			recordLogin(r, "error")
		}
		return
	}
	recordLogin(r, "success")

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	})
}

// DeleteAccount handles DELETE /auth/{id}. The route is gated by the token
// verifier and the token subject must match the id being deleted.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteAccount"))

	requesterID, ok := GetUserIDFromContext(ctx)
	if !ok || requesterID == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	targetID := chi.URLParam(r, "id")
	if targetID != requesterID {
		l.WarnContext(ctx, "Account deletion rejected, identity mismatch",
			slog.String("target", targetID))
		api.ErrorResponse(w, r, http.StatusForbidden, "You can only delete your own account")
		return
	}

	user, err := h.authService.DeleteAccount(ctx, targetID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete account", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

func recordRegister(r *http.Request, outcome string) {
	metrics.Get().RegisterRequestsTotal.Add(r.Context(), 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
}

func recordLogin(r *http.Request, outcome string) {
	metrics.Get().LoginRequestsTotal.Add(r.Context(), 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
}
