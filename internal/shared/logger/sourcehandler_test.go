package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHandler_Threshold(t *testing.T) {
	tests := []struct {
		name       string
		minLevel   slog.Level
		level      slog.Level
		wantSource bool
	}{
		{"info below warn threshold", slog.LevelWarn, slog.LevelInfo, false},
		{"warn at threshold", slog.LevelWarn, slog.LevelWarn, true},
		{"error above threshold", slog.LevelWarn, slog.LevelError, true},
		{"debug threshold covers info", slog.LevelDebug, slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(newSourceHandler(base, tt.minLevel))

			log.Log(context.Background(), tt.level, "thread updated")

			if tt.wantSource {
				assert.Contains(t, buf.String(), "source=")
				assert.Contains(t, buf.String(), "sourcehandler_test.go")
			} else {
				assert.NotContains(t, buf.String(), "source=")
			}
		})
	}
}

func TestSourceHandler_SkipsInterfaceWrapper(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := NewLoggerWithSlog(slog.New(newSourceHandler(base, slog.LevelWarn)))

	log.Warnw("lock wait exceeded", "thread_id", "fbt_1")

	assert.Contains(t, buf.String(), "sourcehandler_test.go")
	assert.NotContains(t, buf.String(), "interface.go")
}

func TestSourceHandler_PreservesAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(newSourceHandler(base, slog.LevelError)).With("user_id", "stu-1").WithGroup("request")

	log.Info("listed", "path", "/feedback/threads")

	out := buf.String()
	assert.Contains(t, out, "user_id=stu-1")
	assert.Contains(t, out, "request.path=/feedback/threads")
	assert.NotContains(t, out, "source=")
}

func TestSourceHandler_EnabledFollowsWrappedHandler(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := newSourceHandler(base, slog.LevelError)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}
