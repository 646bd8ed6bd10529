package feedback

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/campushub/campushub/internal/application/feedback/dto"
	fbdomain "github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/infrastructure/pubsub"
)

func sampleSummary() *dto.MigrationSummaryDTO {
	return &dto.MigrationSummaryDTO{
		Migrated: 2,
		Skipped:  1,
		Failed:   0,
		Outcomes: []dto.MigrationOutcome{
			{LegacyID: 1, Result: dto.OutcomeMigrated, ThreadID: "fbt_a"},
			{LegacyID: 2, Result: dto.OutcomeMigrated, ThreadID: "fbt_b"},
			{LegacyID: 3, Result: dto.OutcomeSkipped, Reason: "already migrated"},
		},
	}
}

func TestWriteSummary(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSummary(&buf, sampleSummary(), outputJSON))

		var decoded dto.MigrationSummaryDTO
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 2, decoded.Migrated)
		assert.Len(t, decoded.Outcomes, 3)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSummary(&buf, sampleSummary(), outputYAML))

		var decoded map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 1, decoded["skipped"])
		assert.Contains(t, buf.String(), "legacy_id: 3")
		assert.Contains(t, buf.String(), "reason: already migrated")
	})
}

func TestPrintEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	msg := pubsub.FeedbackEventMessage{
		ThreadEvent: fbdomain.ThreadEvent{
			BaseEvent:     events.NewBaseEvent("fbt_a", fbdomain.EventThreadStatusChanged, at),
			ActorID:       "fac-1",
			ActorRole:     "faculty",
			Thread:        fbdomain.ThreadSnapshot{ID: "fbt_a"},
			PreviousValue: "open",
			NewValue:      "in_review",
		},
	}

	var buf bytes.Buffer
	printEvent(&buf, msg)

	line := buf.String()
	assert.Contains(t, line, "2026-03-01T09:30:00Z")
	assert.Contains(t, line, "feedback.thread.status_changed")
	assert.Contains(t, line, "thread=fbt_a actor=fac-1(faculty)")
	assert.Contains(t, line, "open -> in_review")
}

func TestPrintEvent_OmitsTransitionWhenAbsent(t *testing.T) {
	msg := pubsub.FeedbackEventMessage{
		ThreadEvent: fbdomain.ThreadEvent{
			BaseEvent: events.NewBaseEvent("fbt_a", fbdomain.EventThreadReplied, time.Now().UTC()),
			ActorID:   "stu-1",
			ActorRole: "student",
			Thread:    fbdomain.ThreadSnapshot{ID: "fbt_a"},
		},
	}

	var buf bytes.Buffer
	printEvent(&buf, msg)
	assert.NotContains(t, buf.String(), "->")
}
