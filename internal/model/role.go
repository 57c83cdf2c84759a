package model

import "github.com/google/uuid"

// Role is the principal role carried in the identity token.
type Role string

const (
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
	RoleAdmin   Role = "Admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether r may read every student's submissions.
func (r Role) Staff() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// Principal is the verified caller of a request.
type Principal struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}
