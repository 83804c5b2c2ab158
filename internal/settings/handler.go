package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inventox/inventox/internal/platform/httpx"
	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/shared"
)

// Handler wires the session timeout endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers settings routes. Only SUPER_ADMIN may read or change
// the session timeout.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Authenticate)
		r.Use(h.guard.RequireAny(rbac.RoleSuperAdmin))
		r.Get("/session-timeout", h.getSessionTimeout)
		r.Post("/session-timeout", h.updateSessionTimeout)
	})
}

type timeoutResponse struct {
	Timeout int `json:"timeout"`
}

func (h *Handler) getSessionTimeout(w http.ResponseWriter, r *http.Request) {
	minutes, err := h.service.SessionTimeout(r.Context())
	if err != nil {
		h.logger.Error("get session timeout", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch session timeout")
		return
	}
	httpx.JSON(w, http.StatusOK, timeoutResponse{Timeout: minutes})
}

type updateTimeoutRequest struct {
	Timeout int `json:"timeout"`
}

func (h *Handler) updateSessionTimeout(w http.ResponseWriter, r *http.Request) {
	var req updateTimeoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid timeout value")
		return
	}
	minutes, err := h.service.SetSessionTimeout(r.Context(), req.Timeout)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			httpx.Error(w, http.StatusBadRequest, "Invalid timeout value")
			return
		}
		h.logger.Error("update session timeout", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to update session timeout")
		return
	}
	httpx.JSON(w, http.StatusOK, timeoutResponse{Timeout: minutes})
}
