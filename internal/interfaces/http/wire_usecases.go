package http

import (
	"github.com/campushub/campushub/internal/application/feedback/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	listThreadsUC    *usecases.ListThreadsUseCase
	getThreadUC      *usecases.GetThreadUseCase
	createThreadUC   *usecases.CreateThreadUseCase
	replyThreadUC    *usecases.ReplyThreadUseCase
	changeStatusUC   *usecases.ChangeStatusUseCase
	changePriorityUC *usecases.ChangePriorityUseCase
	deleteThreadUC   *usecases.DeleteThreadUseCase
	restoreThreadUC  *usecases.RestoreThreadUseCase
	migrateLegacyUC  *usecases.MigrateLegacyUseCase
}

func (c *Container) newUseCases() *allUseCases {
	r := c.repos
	log := c.log.Named("feedback")

	// a nil *ThreadIndex must not become a non-nil interface
	var searcher usecases.ThreadSearcher
	if c.searchIndex != nil {
		searcher = c.searchIndex
	}

	return &allUseCases{
		listThreadsUC:    usecases.NewListThreadsUseCase(r.threadRepo, searcher, c.permissions, log),
		getThreadUC:      usecases.NewGetThreadUseCase(r.threadRepo, r.messageRepo, r.auditRepo, c.renderer, c.permissions, log),
		createThreadUC:   usecases.NewCreateThreadUseCase(r.threadRepo, r.messageRepo, c.txMgr, c.renderer, c.permissions, c.dispatcher, log),
		replyThreadUC:    usecases.NewReplyThreadUseCase(r.threadRepo, r.messageRepo, c.txMgr, c.renderer, c.permissions, c.dispatcher, log),
		changeStatusUC:   usecases.NewChangeStatusUseCase(r.threadRepo, r.auditRepo, c.txMgr, c.permissions, c.dispatcher, log),
		changePriorityUC: usecases.NewChangePriorityUseCase(r.threadRepo, r.auditRepo, c.txMgr, c.permissions, c.dispatcher, log),
		deleteThreadUC:   usecases.NewDeleteThreadUseCase(r.threadRepo, r.auditRepo, c.txMgr, c.permissions, c.dispatcher, log),
		restoreThreadUC:  usecases.NewRestoreThreadUseCase(r.threadRepo, r.auditRepo, c.txMgr, c.permissions, c.dispatcher, log),
		migrateLegacyUC: usecases.NewMigrateLegacyUseCase(
			r.legacyRepo, r.threadRepo, r.messageRepo, r.auditRepo, c.txMgr, c.permissions, c.dispatcher, log,
		),
	}
}
