package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inventox/inventox/internal/platform/httpx"
	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/shared"
)

// Handler manages account directory endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers user routes. The whole surface is SUPER_ADMIN only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Authenticate)
		r.Use(h.guard.RequireAny(rbac.RoleSuperAdmin))
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Patch("/{id}", h.update)
		r.Patch("/{id}/enable", h.enable)
		r.Patch("/{id}/disable", h.disable)
		r.Delete("/{id}", h.remove)
	})
}

// userResponse is the outward account shape; the credential hash never rides
// along.
type userResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Role        rbac.Role `json:"role"`
	IsActive    bool      `json:"isActive"`
	Name        string    `json:"name,omitempty"`
	EmployeeID  string    `json:"employeeId,omitempty"`
	Designation string    `json:"designation,omitempty"`
	Department  string    `json:"department,omitempty"`
	Photo       string    `json:"photo,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		IsActive:    u.IsActive,
		Name:        u.Name,
		EmployeeID:  u.EmployeeID,
		Designation: u.Designation,
		Department:  u.Department,
		Photo:       u.Photo,
		Phone:       u.Phone,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type createUserRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Role        string `json:"role" validate:"required"`
	Name        string `json:"name"`
	EmployeeID  string `json:"employeeId"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
	Photo       string `json:"photo"`
	Phone       string `json:"phone"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "All fields required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "All fields required")
		return
	}
	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.service.Create(r.Context(), CreateInput{
		Username:    req.Username,
		Password:    req.Password,
		Role:        role,
		Name:        req.Name,
		EmployeeID:  req.EmployeeID,
		Designation: req.Designation,
		Department:  req.Department,
		Photo:       req.Photo,
		Phone:       req.Phone,
	})
	if err != nil {
		h.respondErr(w, "create user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*user))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.respondErr(w, "list users", err)
		return
	}
	responses := make([]userResponse, 0, len(list))
	for _, u := range list {
		responses = append(responses, toResponse(u))
	}
	httpx.JSON(w, http.StatusOK, responses)
}

type updateUserRequest struct {
	Password    *string `json:"password"`
	Role        *string `json:"role"`
	Name        *string `json:"name"`
	EmployeeID  *string `json:"employeeId"`
	Designation *string `json:"designation"`
	Department  *string `json:"department"`
	Photo       *string `json:"photo"`
	Phone       *string `json:"phone"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrInvalidInput)
		return
	}

	in := UpdateInput{
		Password:    req.Password,
		Name:        req.Name,
		EmployeeID:  req.EmployeeID,
		Designation: req.Designation,
		Department:  req.Department,
		Photo:       req.Photo,
		Phone:       req.Phone,
	}
	if req.Role != nil {
		role, err := rbac.ParseRole(*req.Role)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "Invalid role")
			return
		}
		in.Role = &role
	}

	user, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.respondErr(w, "update user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*user))
}

func (h *Handler) enable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Enable(r.Context(), id); err != nil {
		h.respondErr(w, "enable user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Msg: "User enabled"})
}

func (h *Handler) disable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Disable(r.Context(), id); err != nil {
		h.respondErr(w, "disable user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Msg: "User disabled"})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondErr(w, "delete user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Msg: "User deleted"})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrDuplicate) && !errors.Is(err, shared.ErrInvalidInput) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
