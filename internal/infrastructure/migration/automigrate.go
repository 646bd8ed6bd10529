package migration

import (
	"github.com/campushub/campushub/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the tables owned by the feedback service.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.FeedbackThreadModel{},
		&models.FeedbackMessageModel{},
		&models.FeedbackAuditEntryModel{},
		&models.LegacyFeedbackModel{},
	}
}
