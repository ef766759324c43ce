package models

// Roles understood by the authorization guard. Elevation to ADMIN is an
// out-of-band administrative action; request input never sets it.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
