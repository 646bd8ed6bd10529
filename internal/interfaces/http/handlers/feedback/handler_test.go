package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub/internal/application/feedback/dto"
	"github.com/campushub/campushub/internal/application/feedback/usecases"
	"github.com/campushub/campushub/internal/interfaces/http/handlers/testutil"
	"github.com/campushub/campushub/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockListThreadsUC struct {
	result *dto.ThreadListDTO
	err    error
	got    usecases.ListThreadsQuery
}

func (m *mockListThreadsUC) Execute(_ context.Context, q usecases.ListThreadsQuery) (*dto.ThreadListDTO, error) {
	m.got = q
	return m.result, m.err
}

type mockGetThreadUC struct {
	result *dto.ThreadDetailDTO
	err    error
	got    usecases.GetThreadQuery
}

func (m *mockGetThreadUC) Execute(_ context.Context, q usecases.GetThreadQuery) (*dto.ThreadDetailDTO, error) {
	m.got = q
	return m.result, m.err
}

type mockCreateThreadUC struct {
	result *dto.ThreadDetailDTO
	err    error
	got    usecases.CreateThreadCommand
}

func (m *mockCreateThreadUC) Execute(_ context.Context, cmd usecases.CreateThreadCommand) (*dto.ThreadDetailDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockReplyThreadUC struct {
	result *usecases.ReplyThreadResult
	err    error
}

func (m *mockReplyThreadUC) Execute(_ context.Context, _ usecases.ReplyThreadCommand) (*usecases.ReplyThreadResult, error) {
	return m.result, m.err
}

type mockChangeStatusUC struct {
	result *usecases.ChangeStatusResult
	err    error
	got    usecases.ChangeStatusCommand
}

func (m *mockChangeStatusUC) Execute(_ context.Context, cmd usecases.ChangeStatusCommand) (*usecases.ChangeStatusResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockChangePriorityUC struct {
	result *usecases.ChangePriorityResult
	err    error
}

func (m *mockChangePriorityUC) Execute(_ context.Context, _ usecases.ChangePriorityCommand) (*usecases.ChangePriorityResult, error) {
	return m.result, m.err
}

type mockDeleteThreadUC struct {
	err error
	got usecases.DeleteThreadCommand
}

func (m *mockDeleteThreadUC) Execute(_ context.Context, cmd usecases.DeleteThreadCommand) error {
	m.got = cmd
	return m.err
}

type mockRestoreThreadUC struct {
	result *dto.ThreadDTO
	err    error
}

func (m *mockRestoreThreadUC) Execute(_ context.Context, _ usecases.RestoreThreadCommand) (*dto.ThreadDTO, error) {
	return m.result, m.err
}

type mockMigrateLegacyUC struct {
	result *dto.MigrationSummaryDTO
	err    error
	got    usecases.MigrateLegacyCommand
}

func (m *mockMigrateLegacyUC) Execute(_ context.Context, cmd usecases.MigrateLegacyCommand) (*dto.MigrationSummaryDTO, error) {
	m.got = cmd
	return m.result, m.err
}

// =====================================================================
// Test helper
// =====================================================================

type testDeps struct {
	list     usecases.ListThreadsExecutor
	get      usecases.GetThreadExecutor
	create   usecases.CreateThreadExecutor
	reply    usecases.ReplyThreadExecutor
	status   usecases.ChangeStatusExecutor
	priority usecases.ChangePriorityExecutor
	del      usecases.DeleteThreadExecutor
	restore  usecases.RestoreThreadExecutor
	migrate  usecases.MigrateLegacyExecutor
}

func newTestHandler(deps testDeps) *Handler {
	return NewHandler(
		deps.list,
		deps.get,
		deps.create,
		deps.reply,
		deps.status,
		deps.priority,
		deps.del,
		deps.restore,
		deps.migrate,
		testutil.NewMockLogger(),
	)
}

func sampleThread() dto.ThreadDTO {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return dto.ThreadDTO{
		ID:            "fbt_1",
		Title:         "Wifi issue",
		Type:          "complaint",
		Priority:      "medium",
		Status:        "open",
		CreatedBy:     "stu-1",
		CreatedByRole: "student",
		TargetRole:    "admin",
		MessageCount:  1,
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// =====================================================================
// Authentication
// =====================================================================

func TestHandler_RequiresIdentity(t *testing.T) {
	handler := newTestHandler(testDeps{list: &mockListThreadsUC{}})
	c, w := testutil.NewTestContext(http.MethodGet, "/feedback/threads", nil)

	handler.ListThreads(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "unauthorized", resp.Error.Type)
}

// =====================================================================
// ListThreads
// =====================================================================

func TestHandler_ListThreads_Success(t *testing.T) {
	mockUC := &mockListThreadsUC{
		result: &dto.ThreadListDTO{
			Items:    []dto.ThreadDTO{sampleThread()},
			Total:    1,
			Page:     2,
			PageSize: 10,
			Stats:    dto.StatusCountsDTO{Open: 1, Total: 1},
		},
	}
	handler := newTestHandler(testDeps{list: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/feedback/threads", nil)
	testutil.SetAuthContext(c, "adm-1", "admin")
	testutil.SetQueryParams(c, map[string]string{
		"status":          "open",
		"createdByRole":   "student",
		"search":          "wifi",
		"include_deleted": "true",
		"page":            "2",
		"page_size":       "10",
	})

	handler.ListThreads(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "open", mockUC.got.Status)
	assert.Equal(t, "student", mockUC.got.CreatedByRole)
	assert.Equal(t, "wifi", mockUC.got.Search)
	assert.True(t, mockUC.got.IncludeDeleted)
	assert.Equal(t, 2, mockUC.got.Page)
	assert.Equal(t, 10, mockUC.got.PageSize)
	assert.Equal(t, "adm-1", mockUC.got.Requester.UserID)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var data struct {
		Items      []dto.ThreadDTO `json:"items"`
		Total      int64           `json:"total"`
		TotalPages int             `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Len(t, data.Items, 1)
	assert.Equal(t, 1, data.TotalPages)

	var stats map[string]int64
	require.NoError(t, json.Unmarshal(resp.Stats, &stats))
	assert.Equal(t, int64(1), stats["open"])
	assert.Equal(t, int64(1), stats["total"])
}

func TestHandler_ListThreads_Forbidden(t *testing.T) {
	handler := newTestHandler(testDeps{list: &mockListThreadsUC{err: errors.NewForbiddenError("permission denied")}})

	c, w := testutil.NewTestContext(http.MethodGet, "/feedback/threads?include_deleted=true", nil)
	testutil.SetAuthContext(c, "stu-1", "student")

	handler.ListThreads(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// =====================================================================
// GetThread
// =====================================================================

func TestHandler_GetThread(t *testing.T) {
	tests := []struct {
		name       string
		uc         *mockGetThreadUC
		wantStatus int
	}{
		{
			name:       "success",
			uc:         &mockGetThreadUC{result: &dto.ThreadDetailDTO{ThreadDTO: sampleThread()}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not visible",
			uc:         &mockGetThreadUC{err: errors.NewNotFoundError("thread not found")},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "database unavailable",
			uc:         &mockGetThreadUC{err: errors.NewUnavailableError("try again")},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(testDeps{get: tt.uc})
			c, w := testutil.NewTestContext(http.MethodGet, "/feedback/threads/fbt_1", nil)
			testutil.SetAuthContext(c, "stu-1", "student")
			testutil.SetURLParam(c, "id", "fbt_1")

			handler.GetThread(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "fbt_1", tt.uc.got.ThreadID)
		})
	}
}

// =====================================================================
// CreateThread
// =====================================================================

func TestHandler_CreateThread_Success(t *testing.T) {
	mockUC := &mockCreateThreadUC{result: &dto.ThreadDetailDTO{ThreadDTO: sampleThread()}}
	handler := newTestHandler(testDeps{create: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/feedback/threads", map[string]interface{}{
		"title":       "Wifi issue",
		"target_role": "admin",
		"type":        "complaint",
		"message":     "No signal in lab 3",
	})
	testutil.SetAuthContext(c, "stu-1", "student")

	handler.CreateThread(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Wifi issue", mockUC.got.Title)
	assert.Equal(t, "admin", mockUC.got.TargetRole)
	assert.Nil(t, mockUC.got.TargetUserID)
	assert.Equal(t, "stu-1", mockUC.got.Requester.UserID)
}

func TestHandler_CreateThread_InvalidBody(t *testing.T) {
	mockUC := &mockCreateThreadUC{}
	handler := newTestHandler(testDeps{create: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/feedback/threads", map[string]interface{}{
		"target_role": "admin",
	})
	testutil.SetAuthContext(c, "stu-1", "student")

	handler.CreateThread(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	assert.Empty(t, mockUC.got.Title)
}

// =====================================================================
// ReplyThread
// =====================================================================

func TestHandler_ReplyThread(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := newTestHandler(testDeps{reply: &mockReplyThreadUC{
			result: &usecases.ReplyThreadResult{Thread: sampleThread(), Message: dto.MessageDTO{ID: 2, Message: "thanks"}},
		}})
		c, w := testutil.NewTestContext(http.MethodPost, "/feedback/threads/fbt_1/reply", map[string]string{"message": "thanks"})
		testutil.SetAuthContext(c, "adm-1", "admin")
		testutil.SetURLParam(c, "id", "fbt_1")

		handler.ReplyThread(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("deleted thread conflicts", func(t *testing.T) {
		handler := newTestHandler(testDeps{reply: &mockReplyThreadUC{err: errors.NewConflictError("thread is deleted")}})
		c, w := testutil.NewTestContext(http.MethodPost, "/feedback/threads/fbt_1/reply", map[string]string{"message": "hello"})
		testutil.SetAuthContext(c, "stu-1", "student")
		testutil.SetURLParam(c, "id", "fbt_1")

		handler.ReplyThread(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("empty message rejected", func(t *testing.T) {
		handler := newTestHandler(testDeps{reply: &mockReplyThreadUC{}})
		c, w := testutil.NewTestContext(http.MethodPost, "/feedback/threads/fbt_1/reply", map[string]string{})
		testutil.SetAuthContext(c, "stu-1", "student")
		testutil.SetURLParam(c, "id", "fbt_1")

		handler.ReplyThread(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =====================================================================
// UpdateStatus / UpdatePriority
// =====================================================================

func TestHandler_UpdateStatus(t *testing.T) {
	mockUC := &mockChangeStatusUC{result: &usecases.ChangeStatusResult{
		Thread:         sampleThread(),
		PreviousStatus: "open",
		Status:         "closed",
		Changed:        true,
	}}
	handler := newTestHandler(testDeps{status: mockUC})

	c, w := testutil.NewTestContext(http.MethodPut, "/feedback/threads/fbt_1/status", map[string]string{"status": "closed"})
	testutil.SetAuthContext(c, "adm-1", "admin")
	testutil.SetURLParam(c, "id", "fbt_1")

	handler.UpdateStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "closed", mockUC.got.Status)
	assert.Equal(t, "fbt_1", mockUC.got.ThreadID)
}

func TestHandler_UpdatePriority_Forbidden(t *testing.T) {
	handler := newTestHandler(testDeps{priority: &mockChangePriorityUC{err: errors.NewForbiddenError("permission denied")}})

	c, w := testutil.NewTestContext(http.MethodPut, "/feedback/threads/fbt_1/priority", map[string]string{"priority": "high"})
	testutil.SetAuthContext(c, "stu-1", "student")
	testutil.SetURLParam(c, "id", "fbt_1")

	handler.UpdatePriority(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// =====================================================================
// DeleteThread / RestoreThread
// =====================================================================

func TestHandler_DeleteThread(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"already deleted", errors.NewConflictError("thread already deleted"), http.StatusConflict},
		{"missing", errors.NewNotFoundError("thread not found"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockDeleteThreadUC{err: tt.err}
			handler := newTestHandler(testDeps{del: mockUC})
			c, w := testutil.NewTestContext(http.MethodDelete, "/feedback/threads/fbt_1", nil)
			testutil.SetAuthContext(c, "adm-1", "admin")
			testutil.SetURLParam(c, "id", "fbt_1")

			handler.DeleteThread(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "fbt_1", mockUC.got.ThreadID)
		})
	}
}

func TestHandler_RestoreThread(t *testing.T) {
	restored := sampleThread()
	handler := newTestHandler(testDeps{restore: &mockRestoreThreadUC{result: &restored}})

	c, w := testutil.NewTestContext(http.MethodPost, "/feedback/threads/fbt_1/restore", nil)
	testutil.SetAuthContext(c, "adm-1", "admin")
	testutil.SetURLParam(c, "id", "fbt_1")

	handler.RestoreThread(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// =====================================================================
// MigrateV1
// =====================================================================

func TestHandler_MigrateV1(t *testing.T) {
	t.Run("without body", func(t *testing.T) {
		mockUC := &mockMigrateLegacyUC{result: &dto.MigrationSummaryDTO{Migrated: 2, Outcomes: []dto.MigrationOutcome{}}}
		handler := newTestHandler(testDeps{migrate: mockUC})
		c, w := testutil.NewTestContext(http.MethodPost, "/feedback/migrate-v1", nil)
		testutil.SetAuthContext(c, "adm-1", "admin")

		handler.MigrateV1(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, mockUC.got.BatchSize)

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var summary dto.MigrationSummaryDTO
		require.NoError(t, json.Unmarshal(resp.Data, &summary))
		assert.Equal(t, 2, summary.Migrated)
	})

	t.Run("with batch size", func(t *testing.T) {
		mockUC := &mockMigrateLegacyUC{result: &dto.MigrationSummaryDTO{}}
		handler := newTestHandler(testDeps{migrate: mockUC})
		c, w := testutil.NewTestContext(http.MethodPost, "/feedback/migrate-v1", map[string]int{"batch_size": 25})
		testutil.SetAuthContext(c, "adm-1", "admin")

		handler.MigrateV1(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 25, mockUC.got.BatchSize)
	})
}
