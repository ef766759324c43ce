package dto

import "github.com/apiseclab/backend/internal/models"

// CreateUserRequest deliberately includes the privileged fields a client
// might try to inject; the user service discards them unconditionally and
// assigns role/admin by server policy.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserSummary is the allow-list projection of a user: id, username, and
// email only. Password hashes and role flags never pass through it.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserSummaryOf projects a user through the allow-list.
func UserSummaryOf(u models.AppUser) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// UserSummariesOf projects a slice of users, returning an empty slice
// rather than nil so callers serialize [] instead of null.
func UserSummariesOf(users []models.AppUser) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummaryOf(u))
	}
	return out
}

type DeleteResponse struct {
	Status string `json:"status"`
}

type MetricsResponse struct {
	UptimeMs  int64  `json:"uptimeMs"`
	AppStatus string `json:"appStatus"`
}
