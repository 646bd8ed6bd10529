package feedback

import (
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
)

// Requester is the authenticated caller of a feedback operation.
type Requester struct {
	UserID string
	Role   vo.Role
}

func NewRequester(userID string, role vo.Role) (Requester, error) {
	if userID == "" {
		return Requester{}, invalid("user_id", "is required")
	}
	if !role.IsValid() {
		return Requester{}, invalid("role", "invalid role %q", role)
	}
	return Requester{UserID: userID, Role: role}, nil
}

func (r Requester) IsAdmin() bool {
	return r.Role.IsAdmin()
}
