package permission

import (
	"fmt"

	"github.com/campushub/campushub/internal/shared/logger"
)

// InitFeedbackPermissions seeds the given (role, action) pairs. Pairs already
// present are left alone, so operators may extend the table between restarts.
func InitFeedbackPermissions(e *Enforcer, policies [][2]string, log logger.Interface) error {
	rules := make([][]string, 0, len(policies))
	for _, p := range policies {
		rules = append(rules, []string{p[0], ResourceFeedbackThread, p[1]})
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, rule := range rules {
		ok, err := e.enforcer.AddPolicy(rule)
		if err != nil {
			log.Errorw("failed to add feedback permission policy",
				"error", err,
				"role", rule[0],
				"action", rule[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				rule[0], rule[1], rule[2], err)
		}
		if ok {
			added++
		}
	}

	log.Infow("feedback permissions initialized successfully", "added", added, "total", len(rules))
	return nil
}
