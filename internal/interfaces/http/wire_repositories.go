package http

import (
	"gorm.io/gorm"

	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	threadRepo  feedback.ThreadRepository
	messageRepo feedback.MessageRepository
	auditRepo   feedback.AuditRepository
	legacyRepo  feedback.LegacyFeedbackRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		threadRepo:  repository.NewFeedbackThreadRepository(db),
		messageRepo: repository.NewFeedbackMessageRepository(db),
		auditRepo:   repository.NewFeedbackAuditRepository(db),
		legacyRepo:  repository.NewLegacyFeedbackRepository(db),
	}
}
