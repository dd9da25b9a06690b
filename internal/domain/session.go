package domain

import "time"

// Role determines which route groups a session may reach.
type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
	RoleStock Role = "stock"
)

// Session is the identity attached to every authenticated request.
// Sessions are stored in Redis with a TTL; there is no process-wide
// login state.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
