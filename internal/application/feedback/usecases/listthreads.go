package usecases

import (
	"context"

	"github.com/campushub/campushub/internal/application/feedback/dto"
	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/shared/constants"
	"github.com/campushub/campushub/internal/shared/errors"
	"github.com/campushub/campushub/internal/shared/logger"
)

// maxSearchCandidates bounds the ids taken from the search index per query.
const maxSearchCandidates = 1000

type ListThreadsQuery struct {
	Requester      feedback.Requester
	Status         string
	Priority       string
	Type           string
	CreatedByRole  string
	Search         string
	IncludeDeleted bool
	Page           int
	PageSize       int
}

type ListThreadsUseCase struct {
	threadRepo  feedback.ThreadRepository
	searcher    ThreadSearcher
	permissions PermissionChecker
	logger      logger.Interface
}

// NewListThreadsUseCase wires the listing. searcher may be nil, in which case
// search falls back to a title match in the database.
func NewListThreadsUseCase(
	threadRepo feedback.ThreadRepository,
	searcher ThreadSearcher,
	permissions PermissionChecker,
	logger logger.Interface,
) *ListThreadsUseCase {
	return &ListThreadsUseCase{
		threadRepo:  threadRepo,
		searcher:    searcher,
		permissions: permissions,
		logger:      logger,
	}
}

func (uc *ListThreadsUseCase) Execute(ctx context.Context, query ListThreadsQuery) (*dto.ThreadListDTO, error) {
	uc.logger.Infow("executing list threads use case",
		"user_id", query.Requester.UserID,
		"role", query.Requester.Role,
		"page", query.Page,
	)

	if err := authorize(uc.permissions, uc.logger, query.Requester, ActionList); err != nil {
		return nil, err
	}

	filter, err := uc.buildFilter(query)
	if err != nil {
		return nil, err
	}

	if uc.canUseIndex(filter) {
		ids, err := uc.searcher.SearchThreadIDs(ctx, filter.Search, maxSearchCandidates)
		switch {
		case err != nil:
			uc.logger.Warnw("search index unavailable, falling back to title match", "error", err)
		case len(ids) >= maxSearchCandidates:
			uc.logger.Infow("search index hit candidate cap, falling back to title match",
				"query", filter.Search,
				"cap", maxSearchCandidates,
			)
		default:
			filter.IDs = ids
			if filter.IDs == nil {
				filter.IDs = []string{}
			}
			filter.Search = ""
		}
	}

	threads, total, err := uc.threadRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list threads", "error", err)
		return nil, toAppError(err, "failed to list threads")
	}

	stats, err := uc.threadRepo.CountByStatus(ctx, filter.Visibility)
	if err != nil {
		uc.logger.Errorw("failed to count threads by status", "error", err)
		return nil, toAppError(err, "failed to list threads")
	}

	return &dto.ThreadListDTO{
		Items:    dto.ToThreadDTOList(threads),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Stats:    stats,
	}, nil
}

// canUseIndex reports whether the index can answer the search exactly. The
// index holds live threads only and knows nothing of per-user visibility, so
// scoped listings and include_deleted go to the database title match.
func (uc *ListThreadsUseCase) canUseIndex(filter feedback.ThreadFilter) bool {
	return filter.Search != "" &&
		uc.searcher != nil &&
		filter.Visibility.All &&
		!filter.IncludeDeleted
}

func (uc *ListThreadsUseCase) buildFilter(query ListThreadsQuery) (feedback.ThreadFilter, error) {
	filter := feedback.ThreadFilter{
		Visibility: feedback.VisibilityFor(query.Requester),
		Search:     query.Search,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}

	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}

	if query.IncludeDeleted {
		if !query.Requester.IsAdmin() {
			return filter, errors.NewForbiddenError("only admins may list deleted threads")
		}
		filter.IncludeDeleted = true
	}

	if query.Status != "" {
		s, err := vo.NewThreadStatus(query.Status)
		if err != nil {
			return filter, errors.NewValidationError(err.Error(), "status")
		}
		filter.Status = &s
	}
	if query.Priority != "" {
		p, err := vo.NewPriority(query.Priority)
		if err != nil {
			return filter, errors.NewValidationError(err.Error(), "priority")
		}
		filter.Priority = &p
	}
	if query.Type != "" {
		t, err := vo.NewThreadType(query.Type)
		if err != nil {
			return filter, errors.NewValidationError(err.Error(), "type")
		}
		filter.Type = &t
	}
	if query.CreatedByRole != "" {
		r, err := vo.NewRole(query.CreatedByRole)
		if err != nil {
			return filter, errors.NewValidationError(err.Error(), "createdByRole")
		}
		filter.CreatedByRole = &r
	}

	return filter, nil
}
