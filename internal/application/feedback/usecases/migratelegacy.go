package usecases

import (
	"context"
	stderrors "errors"

	"github.com/campushub/campushub/internal/application/feedback/dto"
	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/biztime"
	"github.com/campushub/campushub/internal/shared/db"
	"github.com/campushub/campushub/internal/shared/logger"
)

// DefaultMigrationBatchSize is used when the command does not set one.
const DefaultMigrationBatchSize = 100

var errAlreadyClaimed = stderrors.New("legacy record already migrated")

type MigrateLegacyCommand struct {
	Requester feedback.Requester
	BatchSize int
}

type MigrateLegacyUseCase struct {
	legacyRepo  feedback.LegacyFeedbackRepository
	threadRepo  feedback.ThreadRepository
	messageRepo feedback.MessageRepository
	auditRepo   feedback.AuditRepository
	txMgr       db.Transactor
	permissions PermissionChecker
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewMigrateLegacyUseCase(
	legacyRepo feedback.LegacyFeedbackRepository,
	threadRepo feedback.ThreadRepository,
	messageRepo feedback.MessageRepository,
	auditRepo feedback.AuditRepository,
	txMgr db.Transactor,
	permissions PermissionChecker,
	publisher events.EventPublisher,
	logger logger.Interface,
) *MigrateLegacyUseCase {
	return &MigrateLegacyUseCase{
		legacyRepo:  legacyRepo,
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		auditRepo:   auditRepo,
		txMgr:       txMgr,
		permissions: permissions,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute converts every pending legacy record into a thread. Each record is
// claimed and converted in its own transaction, so one failure never aborts
// the run and a concurrent run skips what this one claimed. Cancelling ctx
// stops the run between records; the summary covers what was processed.
func (uc *MigrateLegacyUseCase) Execute(ctx context.Context, cmd MigrateLegacyCommand) (*dto.MigrationSummaryDTO, error) {
	uc.logger.Infow("executing migrate legacy feedback use case", "user_id", cmd.Requester.UserID, "batch_size", cmd.BatchSize)

	if err := authorize(uc.permissions, uc.logger, cmd.Requester, ActionMigrate); err != nil {
		return nil, err
	}

	batchSize := cmd.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultMigrationBatchSize
	}

	summary := &dto.MigrationSummaryDTO{Outcomes: []dto.MigrationOutcome{}}
	var afterID uint

	for {
		if ctx.Err() != nil {
			uc.logger.Warnw("legacy migration cancelled", "after_id", afterID, "error", ctx.Err())
			break
		}

		batch, err := uc.legacyRepo.ListPending(ctx, afterID, batchSize)
		if err != nil {
			uc.logger.Errorw("failed to list legacy feedback", "after_id", afterID, "error", err)
			if summary.Migrated+summary.Skipped+summary.Failed == 0 {
				return nil, toAppError(err, "failed to read legacy feedback")
			}
			break
		}

		for _, record := range batch {
			if ctx.Err() != nil {
				break
			}
			outcome := uc.migrateOne(ctx, cmd.Requester, record)
			summary.Outcomes = append(summary.Outcomes, outcome)
			switch outcome.Result {
			case dto.OutcomeMigrated:
				summary.Migrated++
			case dto.OutcomeSkipped:
				summary.Skipped++
			default:
				summary.Failed++
			}
			afterID = record.ID
		}

		if len(batch) < batchSize {
			break
		}
	}

	uc.logger.Infow("legacy migration finished",
		"migrated", summary.Migrated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (uc *MigrateLegacyUseCase) migrateOne(ctx context.Context, actor feedback.Requester, record *feedback.LegacyFeedback) dto.MigrationOutcome {
	outcome := dto.MigrationOutcome{LegacyID: record.ID}

	if record.Migrated {
		outcome.Result = dto.OutcomeSkipped
		return outcome
	}

	thread, msg, entry, err := record.Convert(actor)
	if err != nil {
		uc.logger.Warnw("legacy record cannot be converted", "legacy_id", record.ID, "error", err)
		outcome.Result = dto.OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		claimed, err := uc.legacyRepo.Claim(txCtx, record.ID, thread.ID(), biztime.NowUTC())
		if err != nil {
			return err
		}
		if !claimed {
			return errAlreadyClaimed
		}
		if err := uc.threadRepo.Create(txCtx, thread); err != nil {
			return err
		}
		if err := uc.messageRepo.Create(txCtx, msg); err != nil {
			return err
		}
		return uc.auditRepo.Append(txCtx, entry)
	})

	switch {
	case txErr == nil:
		outcome.Result = dto.OutcomeMigrated
		outcome.ThreadID = thread.ID()
		publishEvents(uc.publisher, uc.logger, feedback.NewThreadMigratedEvent(thread, actor))
	case stderrors.Is(txErr, errAlreadyClaimed):
		outcome.Result = dto.OutcomeSkipped
	default:
		uc.logger.Errorw("failed to migrate legacy record", "legacy_id", record.ID, "error", txErr)
		outcome.Result = dto.OutcomeFailed
		outcome.Reason = "failed to store migrated thread"
	}
	return outcome
}
