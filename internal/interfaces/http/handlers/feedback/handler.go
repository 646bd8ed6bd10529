package feedback

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campushub/internal/application/feedback/usecases"
	fbdomain "github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/shared/constants"
	"github.com/campushub/campushub/internal/shared/errors"
	"github.com/campushub/campushub/internal/shared/logger"
	"github.com/campushub/campushub/internal/shared/utils"
)

type Handler struct {
	listThreadsUC    usecases.ListThreadsExecutor
	getThreadUC      usecases.GetThreadExecutor
	createThreadUC   usecases.CreateThreadExecutor
	replyThreadUC    usecases.ReplyThreadExecutor
	changeStatusUC   usecases.ChangeStatusExecutor
	changePriorityUC usecases.ChangePriorityExecutor
	deleteThreadUC   usecases.DeleteThreadExecutor
	restoreThreadUC  usecases.RestoreThreadExecutor
	migrateLegacyUC  usecases.MigrateLegacyExecutor
	logger           logger.Interface
}

func NewHandler(
	listThreadsUC usecases.ListThreadsExecutor,
	getThreadUC usecases.GetThreadExecutor,
	createThreadUC usecases.CreateThreadExecutor,
	replyThreadUC usecases.ReplyThreadExecutor,
	changeStatusUC usecases.ChangeStatusExecutor,
	changePriorityUC usecases.ChangePriorityExecutor,
	deleteThreadUC usecases.DeleteThreadExecutor,
	restoreThreadUC usecases.RestoreThreadExecutor,
	migrateLegacyUC usecases.MigrateLegacyExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		listThreadsUC:    listThreadsUC,
		getThreadUC:      getThreadUC,
		createThreadUC:   createThreadUC,
		replyThreadUC:    replyThreadUC,
		changeStatusUC:   changeStatusUC,
		changePriorityUC: changePriorityUC,
		deleteThreadUC:   deleteThreadUC,
		restoreThreadUC:  restoreThreadUC,
		migrateLegacyUC:  migrateLegacyUC,
		logger:           logger,
	}
}

// requesterFromContext reads the identity placed in the context by the auth
// middleware.
func requesterFromContext(c *gin.Context) (fbdomain.Requester, error) {
	userID := c.GetString(constants.ContextKeyUserID)
	role := c.GetString(constants.ContextKeyUserRole)
	r, err := fbdomain.NewRequester(userID, vo.Role(role))
	if err != nil {
		return fbdomain.Requester{}, errors.NewUnauthorizedError("authentication required")
	}
	return r, nil
}

func threadIDParam(c *gin.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", errors.NewValidationError("thread id is required", "id")
	}
	return id, nil
}

// ListThreads handles GET /feedback/threads
// @Summary List feedback threads
// @Description List threads visible to the caller, most recently active first
// @Tags feedback
// @Produce json
// @Security Bearer
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param type query string false "Type filter"
// @Param created_by_role query string false "Creator role filter"
// @Param search query string false "Title search"
// @Param include_deleted query bool false "Include soft-deleted threads (admin)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /feedback/threads [get]
func (h *Handler) ListThreads(c *gin.Context) {
	requester, err := requesterFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	query := parseListThreadsQuery(c, requester)
	result, err := h.listThreadsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize, result.Stats)
}

// GetThread handles GET /feedback/threads/:id
// @Summary Get a feedback thread
// @Description Get a thread with its messages and audit trail
// @Tags feedback
// @Produce json
// @Security Bearer
// @Param id path string true "Thread ID"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /feedback/threads/{id} [get]
func (h *Handler) GetThread(c *gin.Context) {
	requester, err := requesterFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	threadID, err := threadIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getThreadUC.Execute(c.Request.Context(), usecases.GetThreadQuery{
		Requester: requester,
		ThreadID:  threadID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateThread handles POST /feedback/threads
// @Summary Create a feedback thread
// @Description Open a new thread addressed to admins or a faculty member
// @Tags feedback
// @Accept json
// @Produce json
// @Security Bearer
// @Param thread body CreateThreadRequest true "Thread data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /feedback/threads [post]
func (h *Handler) CreateThread(c *gin.Context) {
	requester, err := requesterFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create thread", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createThreadUC.Execute(c.Request.Context(), req.ToCommand(requester))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Thread created successfully")
}

// ReplyThread handles POST /feedback/threads/:id/reply
// @Summary Reply to a feedback thread
// @Tags feedback
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Thread ID"
// @Param reply body ReplyRequest true "Reply"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /feedback/threads/{id}/reply [post]
func (h *Handler) ReplyThread(c *gin.Context) {
	requester, err := requesterFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	threadID, err := threadIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.replyThreadUC.Execute(c.Request.Context(), usecases.ReplyThreadCommand{
		Requester: requester,
		ThreadID:  threadID,
		Message:   req.Message,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Reply added successfully")
}

// UpdateStatus handles PUT /feedback/threads/:id/status
// @Summary Change thread status
// @Description Any status may follow any other; setting the current status is a no-op
// @Tags feedback
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Thread ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /feedback/threads/{id}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	requester, err := requesterFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	threadID, err := threadIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.changeStatusUC.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		Requester: requester,
		ThreadID:  threadID,
		Status:    req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Thread status updated", result)
}

// UpdatePriority handles PUT /feedback/threads/:id/priority
// @Summary Change thread priority
// @Tags feedback
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Thread ID"
// @Param priority body UpdatePriorityRequest true "New priority"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /feedback/threads/{id}/priority [put]
func (h *Handler) UpdatePriority(c *gin.Context) {
	requester, err := requesterFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	threadID, err := threadIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.changePriorityUC.Execute(c.Request.Context(), usecases.ChangePriorityCommand{
		Requester: requester,
		ThreadID:  threadID,
		Priority:  req.Priority,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Thread priority updated", result)
}

// DeleteThread handles DELETE /feedback/threads/:id
// @Summary Soft-delete a thread
// @Tags feedback
// @Produce json
// @Security Bearer
// @Param id path string true "Thread ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /feedback/threads/{id} [delete]
func (h *Handler) DeleteThread(c *gin.Context) {
	requester, err := requesterFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	threadID, err := threadIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteThreadUC.Execute(c.Request.Context(), usecases.DeleteThreadCommand{
		Requester: requester,
		ThreadID:  threadID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Thread deleted successfully", gin.H{"id": threadID})
}

// RestoreThread handles POST /feedback/threads/:id/restore
// @Summary Restore a soft-deleted thread
// @Tags feedback
// @Produce json
// @Security Bearer
// @Param id path string true "Thread ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /feedback/threads/{id}/restore [post]
func (h *Handler) RestoreThread(c *gin.Context) {
	requester, err := requesterFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	threadID, err := threadIDParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.restoreThreadUC.Execute(c.Request.Context(), usecases.RestoreThreadCommand{
		Requester: requester,
		ThreadID:  threadID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Thread restored successfully", result)
}

// MigrateV1 handles POST /feedback/migrate-v1
// @Summary Migrate legacy feedback
// @Description Convert every pending V1 feedback record into a thread
// @Tags feedback
// @Accept json
// @Produce json
// @Security Bearer
// @Param options body MigrateV1Request false "Migration options"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /feedback/migrate-v1 [post]
func (h *Handler) MigrateV1(c *gin.Context) {
	requester, err := requesterFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req MigrateV1Request
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, utils.BindingError(err))
			return
		}
	}

	result, err := h.migrateLegacyUC.Execute(c.Request.Context(), usecases.MigrateLegacyCommand{
		Requester: requester,
		BatchSize: req.BatchSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("legacy migration finished",
		"migrated", result.Migrated,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	utils.SuccessResponse(c, http.StatusOK, "Legacy feedback migrated", result)
}
