package model

import "time"

// Roles understood by the clinic system.  Any other value is unknown and
// carries no permissions.
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RoleStaff   = "staff"
	RolePatient = "patient"
)

// roleRank fixes the role hierarchy.  Unknown roles resolve to -1 so the
// permission check denies by default.
var roleRank = map[string]int{
	RoleAdmin:   3,
	RoleDoctor:  2,
	RoleStaff:   1,
	RolePatient: 0,
}

// ValidRole reports whether the role is one the system accepts at
// registration time.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// HasPermission reports whether a user holding role may act at the level
// required.  Both sides resolve through the fixed ranking; an unknown role
// on either side denies.
func HasPermission(role, required string) bool {
	userLevel, ok := roleRank[role]
	if !ok {
		return false
	}
	requiredLevel, ok := roleRank[required]
	if !ok {
		return false
	}
	return userLevel >= requiredLevel
}

// User mirrors the `users` table.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	FullName     string
	Role         string
	IsActive     bool
	Phone        string
	Avatar       string
	LastLogin    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the caller-facing projection of a user: everything except
// the password credential, which never leaves the service.
type PublicUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// PatientProfile mirrors the `patients` satellite table.  Exactly one row
// exists per user with role patient; it is created and deleted in the same
// transaction as the user row.
type PatientProfile struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DoctorProfile mirrors the `doctors` satellite table.
type DoctorProfile struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Specialty string `json:"specialty,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
