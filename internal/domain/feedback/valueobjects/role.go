package valueobjects

import "fmt"

// Role is the campus role of a user acting on feedback.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

var validRoles = map[Role]bool{
	RoleStudent: true,
	RoleFaculty: true,
	RoleAdmin:   true,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanAuthorThreads reports whether the role may open new threads.
func (r Role) CanAuthorThreads() bool {
	return r == RoleStudent || r == RoleFaculty
}

func NewRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return r, nil
}

// TargetRole is the audience a thread is addressed to.
type TargetRole string

const (
	TargetAdmin   TargetRole = "admin"
	TargetFaculty TargetRole = "faculty"
)

func (t TargetRole) String() string {
	return string(t)
}

func (t TargetRole) IsValid() bool {
	return t == TargetAdmin || t == TargetFaculty
}

// RequiresUser reports whether a target user id must accompany the role.
func (t TargetRole) RequiresUser() bool {
	return t == TargetFaculty
}

func NewTargetRole(s string) (TargetRole, error) {
	t := TargetRole(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid target role: %s", s)
	}
	return t, nil
}
