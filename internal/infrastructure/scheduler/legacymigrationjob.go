package scheduler

import (
	"context"

	"github.com/campushub/campushub/internal/application/feedback/usecases"
	"github.com/campushub/campushub/internal/domain/feedback"
)

// LegacyMigrationJob adapts the legacy migration use case to BatchJob. It
// reports the number of records migrated in the run.
type LegacyMigrationJob struct {
	uc        usecases.MigrateLegacyExecutor
	actor     feedback.Requester
	batchSize int
}

func NewLegacyMigrationJob(uc usecases.MigrateLegacyExecutor, actor feedback.Requester, batchSize int) *LegacyMigrationJob {
	return &LegacyMigrationJob{uc: uc, actor: actor, batchSize: batchSize}
}

func (j *LegacyMigrationJob) Execute(ctx context.Context) (int, error) {
	summary, err := j.uc.Execute(ctx, usecases.MigrateLegacyCommand{
		Requester: j.actor,
		BatchSize: j.batchSize,
	})
	if err != nil {
		return 0, err
	}
	return summary.Migrated, nil
}
