package http

import (
	feedbackhandlers "github.com/campushub/campushub/internal/interfaces/http/handlers/feedback"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	feedbackHandler *feedbackhandlers.Handler
}

func (c *Container) newHandlers() *allHandlers {
	u := c.ucs
	return &allHandlers{
		feedbackHandler: feedbackhandlers.NewHandler(
			u.listThreadsUC,
			u.getThreadUC,
			u.createThreadUC,
			u.replyThreadUC,
			u.changeStatusUC,
			u.changePriorityUC,
			u.deleteThreadUC,
			u.restoreThreadUC,
			u.migrateLegacyUC,
			c.log.Named("feedback-handler"),
		),
	}
}
