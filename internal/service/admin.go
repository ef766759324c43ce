package service

import (
	"time"

	"github.com/apiseclab/backend/internal/apperr"
	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/authz"
	"github.com/apiseclab/backend/internal/models/dto"
)

// AdminService exposes the restricted operational surface. Output is
// limited to uptime and a status flag; runtime details stay internal.
type AdminService struct {
	startedAt time.Time
}

// NewAdminService constructs the service with the process start time.
func NewAdminService(startedAt time.Time) *AdminService {
	return &AdminService{startedAt: startedAt}
}

// Metrics returns minimal process metrics, admin-only.
func (s *AdminService) Metrics(p auth.Principal) (dto.MetricsResponse, error) {
	if !authz.RequireAdmin(p) {
		return dto.MetricsResponse{}, apperr.ErrAccessDenied
	}
	return dto.MetricsResponse{
		UptimeMs:  time.Since(s.startedAt).Milliseconds(),
		AppStatus: "running",
	}, nil
}
