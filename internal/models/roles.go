package models

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role is one the accounts table accepts.
func ValidRole(role string) bool {
	return role == RoleClient || role == RoleAdmin
}
