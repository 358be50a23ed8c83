package domain

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the request-scoped snapshot of the authenticated caller.
// It is rebuilt from the live user record on every request, so Role and
// Balance never go stale over a token's lifetime. Treat it as read-only.
type Identity struct {
	ID       uint
	Username string
	Role     string
	Balance  uint
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
