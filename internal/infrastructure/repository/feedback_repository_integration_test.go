package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/infrastructure/persistence/models"
	db "github.com/campushub/campushub/internal/shared/db"
)

var (
	student = feedback.Requester{UserID: "stu-1", Role: vo.RoleStudent}
	faculty = feedback.Requester{UserID: "fac-1", Role: vo.RoleFaculty}
	admin   = feedback.Requester{UserID: "adm-1", Role: vo.RoleAdmin}
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(
		&models.FeedbackThreadModel{},
		&models.FeedbackMessageModel{},
		&models.FeedbackAuditEntryModel{},
		&models.LegacyFeedbackModel{},
	))
	return database
}

type threadSeed struct {
	id           string
	title        string
	status       vo.ThreadStatus
	priority     vo.Priority
	createdBy    feedback.Requester
	targetUser   *string
	lastActivity time.Time
	deleted      bool
}

func seedThread(t *testing.T, repo *FeedbackThreadRepository, s threadSeed) *feedback.Thread {
	t.Helper()
	if s.status == "" {
		s.status = vo.StatusOpen
	}
	if s.priority == "" {
		s.priority = vo.PriorityMedium
	}
	if s.title == "" {
		s.title = "Thread " + s.id
	}
	target := vo.TargetAdmin
	if s.targetUser != nil {
		target = vo.TargetFaculty
	}
	p := feedback.ReconstructThreadParams{
		ID:            s.id,
		Title:         s.title,
		Type:          vo.TypeGeneral,
		Priority:      s.priority,
		Status:        s.status,
		CreatedBy:     s.createdBy.UserID,
		CreatedByRole: s.createdBy.Role,
		TargetRole:    target,
		TargetUserID:  s.targetUser,
		MessageCount:  1,
		LastMessageAt: s.lastActivity,
		CreatedAt:     s.lastActivity,
		UpdatedAt:     s.lastActivity,
	}
	if s.deleted {
		at := s.lastActivity
		by := admin.UserID
		p.Deleted, p.DeletedAt, p.DeletedBy = true, &at, &by
	}
	th, err := feedback.ReconstructThread(p)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), th))
	return th
}

func ptr(s string) *string { return &s }

func TestFeedbackThreadRepository_CreateAndGet(t *testing.T) {
	database := setupTestDB(t)
	repo := NewFeedbackThreadRepository(database)
	ctx := context.Background()

	th, err := feedback.NewThread(feedback.NewThreadParams{
		Title:        "Lab projector broken",
		Type:         vo.TypeTechnical,
		Priority:     vo.PriorityHigh,
		CreatedBy:    student.UserID,
		CreatorRole:  student.Role,
		TargetRole:   vo.TargetFaculty,
		TargetUserID: ptr(faculty.UserID),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, th))

	t.Run("round trips every field", func(t *testing.T) {
		found, err := repo.GetByID(ctx, th.ID())
		require.NoError(t, err)
		assert.Equal(t, th.Title(), found.Title())
		assert.Equal(t, vo.TypeTechnical, found.Type())
		assert.Equal(t, vo.PriorityHigh, found.Priority())
		assert.Equal(t, vo.StatusOpen, found.Status())
		assert.Equal(t, faculty.UserID, *found.TargetUserID())
		assert.Equal(t, th.CreatedAt().UnixMilli(), found.CreatedAt().UnixMilli())
		assert.False(t, found.IsDeleted())
	})

	t.Run("missing thread returns sentinel", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "fbt_missing")
		assert.ErrorIs(t, err, feedback.ErrThreadNotFound)
	})

	t.Run("locked read inside a transaction", func(t *testing.T) {
		tm := db.NewTransactionManager(database)
		err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
			found, err := repo.GetByIDForUpdate(txCtx, th.ID())
			if err != nil {
				return err
			}
			assert.Equal(t, th.ID(), found.ID())
			return nil
		})
		require.NoError(t, err)
	})
}

func TestFeedbackThreadRepository_Update(t *testing.T) {
	database := setupTestDB(t)
	repo := NewFeedbackThreadRepository(database)
	ctx := context.Background()
	th := seedThread(t, repo, threadSeed{id: "fbt_upd", createdBy: student, lastActivity: time.Now().UTC()})

	_, _, err := th.ChangeStatus(vo.StatusInReview)
	require.NoError(t, err)
	require.NoError(t, th.SoftDelete(admin.UserID))
	require.NoError(t, repo.Update(ctx, th))

	found, err := repo.GetByID(ctx, th.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusInReview, found.Status())
	assert.True(t, found.IsDeleted())
	require.NotNil(t, found.DeletedBy())
	assert.Equal(t, admin.UserID, *found.DeletedBy())

	require.NoError(t, found.Restore())
	require.NoError(t, repo.Update(ctx, found))

	restored, err := repo.GetByID(ctx, th.ID())
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
	assert.Nil(t, restored.DeletedAt())
	assert.Nil(t, restored.DeletedBy())
}

func TestFeedbackThreadRepository_IncrementMessageCount(t *testing.T) {
	database := setupTestDB(t)
	repo := NewFeedbackThreadRepository(database)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	th := seedThread(t, repo, threadSeed{id: "fbt_inc", createdBy: student, lastActivity: start})

	later := start.Add(time.Hour)
	require.NoError(t, repo.IncrementMessageCount(ctx, th.ID(), later))
	require.NoError(t, repo.IncrementMessageCount(ctx, th.ID(), later.Add(time.Minute)))

	found, err := repo.GetByID(ctx, th.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, found.MessageCount())
	assert.True(t, found.LastMessageAt().Equal(later.Add(time.Minute)))

	err = repo.IncrementMessageCount(ctx, "fbt_missing", later)
	assert.ErrorIs(t, err, feedback.ErrThreadNotFound)
}

func TestFeedbackThreadRepository_List(t *testing.T) {
	database := setupTestDB(t)
	repo := NewFeedbackThreadRepository(database)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	seedThread(t, repo, threadSeed{id: "fbt_a", title: "Wifi drops in library", createdBy: student, lastActivity: base})
	seedThread(t, repo, threadSeed{id: "fbt_b", title: "Grading rubric question", createdBy: student, targetUser: ptr(faculty.UserID), status: vo.StatusResolved, lastActivity: base.Add(2 * time.Hour)})
	seedThread(t, repo, threadSeed{id: "fbt_c", title: "100% attendance_policy", createdBy: faculty, priority: vo.PriorityHigh, lastActivity: base.Add(time.Hour)})
	seedThread(t, repo, threadSeed{id: "fbt_d", title: "Old complaint", createdBy: student, deleted: true, lastActivity: base.Add(3 * time.Hour)})

	ids := func(threads []*feedback.Thread) []string {
		out := make([]string, 0, len(threads))
		for _, th := range threads {
			out = append(out, th.ID())
		}
		return out
	}
	status := func(s vo.ThreadStatus) *vo.ThreadStatus { return &s }
	priority := func(p vo.Priority) *vo.Priority { return &p }
	role := func(r vo.Role) *vo.Role { return &r }

	tests := []struct {
		name      string
		filter    feedback.ThreadFilter
		wantIDs   []string
		wantTotal int64
	}{
		{
			name:      "admin sees every live thread by recent activity",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin)},
			wantIDs:   []string{"fbt_b", "fbt_c", "fbt_a"},
			wantTotal: 3,
		},
		{
			name:      "admin may include deleted",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin), IncludeDeleted: true},
			wantIDs:   []string{"fbt_d", "fbt_b", "fbt_c", "fbt_a"},
			wantTotal: 4,
		},
		{
			name:      "student sees own threads",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(student)},
			wantIDs:   []string{"fbt_b", "fbt_a"},
			wantTotal: 2,
		},
		{
			name:      "faculty sees created and targeted threads",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(faculty)},
			wantIDs:   []string{"fbt_b", "fbt_c"},
			wantTotal: 2,
		},
		{
			name:      "status filter",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin), Status: status(vo.StatusResolved)},
			wantIDs:   []string{"fbt_b"},
			wantTotal: 1,
		},
		{
			name:      "priority filter",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin), Priority: priority(vo.PriorityHigh)},
			wantIDs:   []string{"fbt_c"},
			wantTotal: 1,
		},
		{
			name:      "creator role filter",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin), CreatedByRole: role(vo.RoleStudent)},
			wantIDs:   []string{"fbt_b", "fbt_a"},
			wantTotal: 2,
		},
		{
			name:      "search is case insensitive",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin), Search: "WIFI"},
			wantIDs:   []string{"fbt_a"},
			wantTotal: 1,
		},
		{
			name:      "search treats wildcards literally",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin), Search: "0% attendance_"},
			wantIDs:   []string{"fbt_c"},
			wantTotal: 1,
		},
		{
			name:      "underscore does not match any character",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin), Search: "wifi_drops"},
			wantIDs:   []string{},
			wantTotal: 0,
		},
		{
			name:      "id restriction from search index",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(student), IDs: []string{"fbt_a", "fbt_c"}},
			wantIDs:   []string{"fbt_a"},
			wantTotal: 1,
		},
		{
			name:      "empty id restriction matches nothing",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin), IDs: []string{}},
			wantIDs:   []string{},
			wantTotal: 0,
		},
		{
			name:      "pagination keeps total",
			filter:    feedback.ThreadFilter{Visibility: feedback.VisibilityFor(admin), Page: 2, PageSize: 2},
			wantIDs:   []string{"fbt_a"},
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			threads, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantIDs, ids(threads))
		})
	}
}

func TestFeedbackThreadRepository_CountByStatus(t *testing.T) {
	database := setupTestDB(t)
	repo := NewFeedbackThreadRepository(database)
	ctx := context.Background()
	now := time.Now().UTC()

	seedThread(t, repo, threadSeed{id: "fbt_1", createdBy: student, lastActivity: now})
	seedThread(t, repo, threadSeed{id: "fbt_2", createdBy: student, status: vo.StatusClosed, lastActivity: now})
	seedThread(t, repo, threadSeed{id: "fbt_3", createdBy: faculty, status: vo.StatusClosed, lastActivity: now})
	seedThread(t, repo, threadSeed{id: "fbt_4", createdBy: student, deleted: true, lastActivity: now})

	all, err := repo.CountByStatus(ctx, feedback.VisibilityFor(admin))
	require.NoError(t, err)
	assert.Equal(t, feedback.StatusCounts{Open: 1, Closed: 2, Total: 3}, all)

	own, err := repo.CountByStatus(ctx, feedback.VisibilityFor(student))
	require.NoError(t, err)
	assert.Equal(t, feedback.StatusCounts{Open: 1, Closed: 1, Total: 2}, own)

	none, err := repo.CountByStatus(ctx, feedback.Visibility{UserID: "nobody"})
	require.NoError(t, err)
	assert.Equal(t, feedback.StatusCounts{}, none)
}

func TestFeedbackMessageRepository(t *testing.T) {
	database := setupTestDB(t)
	repo := NewFeedbackMessageRepository(database)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		m, err := feedback.NewMessage("fbt_msgs", student.UserID, student.Role, fmt.Sprintf("  message %d  ", i))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, m))
		assert.NotZero(t, m.ID())
	}
	other, err := feedback.NewMessage("fbt_other", faculty.UserID, faculty.Role, "elsewhere")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	messages, err := repo.ListByThreadID(ctx, "fbt_msgs")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for i, m := range messages {
		assert.Equal(t, fmt.Sprintf("message %d", i+1), m.Body())
		assert.Equal(t, vo.RoleStudent, m.SenderRole())
	}

	empty, err := repo.ListByThreadID(ctx, "fbt_none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFeedbackAuditRepository(t *testing.T) {
	database := setupTestDB(t)
	repo := NewFeedbackAuditRepository(database)
	ctx := context.Background()

	changed := feedback.NewStatusChangedEntry("fbt_audit", admin, vo.StatusOpen, vo.StatusResolved)
	migrated := feedback.NewMigratedEntry("fbt_audit", admin, 42)
	require.NoError(t, repo.Append(ctx, changed))
	require.NoError(t, repo.Append(ctx, migrated))
	assert.NotZero(t, changed.ID())

	entries, err := repo.ListByThreadID(ctx, "fbt_audit")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, vo.ActionStatusChanged, entries[0].Action())
	require.NotNil(t, entries[0].PreviousValue())
	assert.Equal(t, "open", *entries[0].PreviousValue())
	assert.Equal(t, "resolved", *entries[0].NewValue())
	assert.Empty(t, entries[0].Metadata())

	assert.Equal(t, vo.ActionMigrated, entries[1].Action())
	assert.Nil(t, entries[1].PreviousValue())
	assert.EqualValues(t, 42, entries[1].Metadata()["legacy_id"])
}

func TestLegacyFeedbackRepository(t *testing.T) {
	database := setupTestDB(t)
	repo := NewLegacyFeedbackRepository(database)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := &feedback.LegacyFeedback{
			UserID:        "stu-legacy",
			UserRole:      "student",
			RecipientRole: "admin",
			Body:          fmt.Sprintf("legacy %d", i),
			CreatedAt:     time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.Create(ctx, rec))
		assert.NotZero(t, rec.ID)
	}

	t.Run("pending in id order after cursor", func(t *testing.T) {
		batch, err := repo.ListPending(ctx, 0, 2)
		require.NoError(t, err)
		require.Len(t, batch, 2)
		assert.Less(t, batch[0].ID, batch[1].ID)

		next, err := repo.ListPending(ctx, batch[1].ID, 10)
		require.NoError(t, err)
		assert.Len(t, next, 3)
	})

	t.Run("claim is compare and set", func(t *testing.T) {
		batch, err := repo.ListPending(ctx, 0, 1)
		require.NoError(t, err)
		require.Len(t, batch, 1)
		id := batch[0].ID

		ok, err := repo.Claim(ctx, id, "fbt_claimed", time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Claim(ctx, id, "fbt_second", time.Now())
		require.NoError(t, err)
		assert.False(t, ok)

		var model models.LegacyFeedbackModel
		require.NoError(t, database.First(&model, id).Error)
		assert.True(t, model.Migrated)
		require.NotNil(t, model.MigratedTo)
		assert.Equal(t, "fbt_claimed", *model.MigratedTo)

		pending, err := repo.ListPending(ctx, 0, 10)
		require.NoError(t, err)
		assert.Len(t, pending, 4)
	})

	t.Run("claim of an unknown record", func(t *testing.T) {
		ok, err := repo.Claim(ctx, 9999, "fbt_x", time.Now())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rolled back claim releases the record", func(t *testing.T) {
		tm := db.NewTransactionManager(database)
		pending, err := repo.ListPending(ctx, 0, 1)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		id := pending[0].ID

		err = tm.RunInTransaction(ctx, func(txCtx context.Context) error {
			ok, err := repo.Claim(txCtx, id, "fbt_rollback", time.Now())
			require.NoError(t, err)
			require.True(t, ok)
			return fmt.Errorf("thread insert failed")
		})
		require.Error(t, err)

		again, err := repo.ListPending(ctx, 0, 1)
		require.NoError(t, err)
		require.Len(t, again, 1)
		assert.Equal(t, id, again[0].ID)
	})
}
