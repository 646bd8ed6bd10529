package usecases

import (
	"context"

	"github.com/campushub/campushub/internal/application/feedback/dto"
)

type ListThreadsExecutor interface {
	Execute(ctx context.Context, query ListThreadsQuery) (*dto.ThreadListDTO, error)
}

type GetThreadExecutor interface {
	Execute(ctx context.Context, query GetThreadQuery) (*dto.ThreadDetailDTO, error)
}

type CreateThreadExecutor interface {
	Execute(ctx context.Context, cmd CreateThreadCommand) (*dto.ThreadDetailDTO, error)
}

type ReplyThreadExecutor interface {
	Execute(ctx context.Context, cmd ReplyThreadCommand) (*ReplyThreadResult, error)
}

type ChangeStatusExecutor interface {
	Execute(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error)
}

type ChangePriorityExecutor interface {
	Execute(ctx context.Context, cmd ChangePriorityCommand) (*ChangePriorityResult, error)
}

type DeleteThreadExecutor interface {
	Execute(ctx context.Context, cmd DeleteThreadCommand) error
}

type RestoreThreadExecutor interface {
	Execute(ctx context.Context, cmd RestoreThreadCommand) (*dto.ThreadDTO, error)
}

type MigrateLegacyExecutor interface {
	Execute(ctx context.Context, cmd MigrateLegacyCommand) (*dto.MigrationSummaryDTO, error)
}

// PermissionChecker decides whether a role may perform an action on feedback threads.
type PermissionChecker interface {
	Enforce(role, action string) (bool, error)
}

// MessageRenderer turns a stored message body into sanitized HTML.
type MessageRenderer interface {
	ToHTMLSanitized(markdown string) (string, error)
}

// ThreadSearcher resolves a free-text query to candidate thread ids.
type ThreadSearcher interface {
	SearchThreadIDs(ctx context.Context, query string, limit int) ([]string, error)
}
