package usecases

import (
	"strings"

	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/shared/errors"
	"github.com/campushub/campushub/internal/shared/logger"
)

// Actions on the feedback_thread policy object.
const (
	ActionList           = "list"
	ActionRead           = "read"
	ActionCreate         = "create"
	ActionReply          = "reply"
	ActionUpdateStatus   = "update_status"
	ActionUpdatePriority = "update_priority"
	ActionDelete         = "delete"
	ActionRestore        = "restore"
	ActionMigrate        = "migrate"
)

// authorize checks the requester's role against the policy. The result never
// depends on any particular thread, so a denial leaks nothing about existence.
func authorize(checker PermissionChecker, log logger.Interface, r feedback.Requester, action string) error {
	if r.UserID == "" || !r.Role.IsValid() {
		return errors.NewUnauthorizedError("authentication required")
	}
	allowed, err := checker.Enforce(r.Role.String(), action)
	if err != nil {
		log.Errorw("failed to evaluate permission", "role", r.Role, "action", action, "error", err)
		return errors.FromInfra(err, "failed to evaluate permission")
	}
	if !allowed {
		log.Warnw("permission denied", "user_id", r.UserID, "role", r.Role, "action", action)
		return errors.NewForbiddenError("permission denied", action)
	}
	return nil
}

// StaticPermissionChecker encodes the default role policy in memory.
type StaticPermissionChecker struct{}

var defaultPolicy = map[vo.Role][]string{
	vo.RoleStudent: {ActionList, ActionRead, ActionCreate, ActionReply},
	vo.RoleFaculty: {ActionList, ActionRead, ActionCreate, ActionReply},
	vo.RoleAdmin: {
		ActionList, ActionRead, ActionReply, ActionUpdateStatus, ActionUpdatePriority,
		ActionDelete, ActionRestore, ActionMigrate,
	},
}

// DefaultPolicy returns (role, action) pairs of the built-in policy.
func DefaultPolicy() [][2]string {
	var out [][2]string
	for _, role := range []vo.Role{vo.RoleStudent, vo.RoleFaculty, vo.RoleAdmin} {
		for _, action := range defaultPolicy[role] {
			out = append(out, [2]string{role.String(), action})
		}
	}
	return out
}

func (StaticPermissionChecker) Enforce(role, action string) (bool, error) {
	for _, a := range defaultPolicy[vo.Role(strings.ToLower(role))] {
		if a == action {
			return true, nil
		}
	}
	return false, nil
}
