package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/http/respond"
	"github.com/apiseclab/backend/internal/service"
)

// AdminHandler owns the restricted operational endpoints.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Register attaches the admin routes to the protected router.
func (h *AdminHandler) Register(r *mux.Router) {
	r.HandleFunc("/admin/metrics", h.handleMetrics).Methods(http.MethodGet)
}

func (h *AdminHandler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	resp, err := h.admin.Metrics(p)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}
