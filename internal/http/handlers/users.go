package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/http/respond"
	"github.com/apiseclab/backend/internal/models/dto"
	"github.com/apiseclab/backend/internal/service"
)

// UserHandler owns the user resource endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs the handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register attaches the user routes to the protected router.
func (h *UserHandler) Register(r *mux.Router) {
	r.HandleFunc("/users/search", h.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/users", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/users", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/users/{id:[0-9]+}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", h.handleDelete).Methods(http.MethodDelete)
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.users.Get(r.Context(), id, p)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	created, err := h.users.Create(r.Context(), req, p)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *UserHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	matches, err := h.users.Search(r.Context(), r.URL.Query().Get("q"), p)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, matches)
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	users, err := h.users.List(r.Context(), p)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	resp, err := h.users.Delete(r.Context(), id, p)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}
