package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub/internal/shared/logger"
)

type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func TestInMemoryEventDispatcher_DeliversToTypedAndWildcardHandlers(t *testing.T) {
	d := NewInMemoryEventDispatcher(10, logger.NewNopLogger())
	rec := &recorder{}

	require.NoError(t, d.Subscribe("thread.created", NewSimpleEventHandler("thread.created", func(_ context.Context, e DomainEvent) error {
		rec.add("typed:" + e.GetAggregateID())
		return nil
	})))
	require.NoError(t, d.Subscribe(AllEvents, NewSimpleEventHandler(AllEvents, func(_ context.Context, e DomainEvent) error {
		rec.add("all:" + e.GetEventType())
		return errors.New("handler failures are only logged")
	})))

	require.NoError(t, d.Start())
	require.NoError(t, d.PublishAll([]DomainEvent{
		NewBaseEvent("fbt_1", "thread.created", time.Now()),
		NewBaseEvent("fbt_1", "thread.replied", time.Now()),
	}))
	require.NoError(t, d.Stop())

	assert.ElementsMatch(t, []string{"typed:fbt_1", "all:thread.created", "all:thread.replied"}, rec.list())
}

func TestInMemoryEventDispatcher_Lifecycle(t *testing.T) {
	d := NewInMemoryEventDispatcher(1, logger.NewNopLogger())

	assert.Error(t, d.Publish(NewBaseEvent("x", "y", time.Now())), "publish before start")
	assert.Error(t, d.Stop(), "stop before start")

	require.NoError(t, d.Start())
	assert.Error(t, d.Start(), "double start")
	require.NoError(t, d.Stop())
}

func TestInMemoryEventDispatcher_Unsubscribe(t *testing.T) {
	d := NewInMemoryEventDispatcher(10, logger.NewNopLogger())
	rec := &recorder{}
	h := NewSimpleEventHandler("e", func(_ context.Context, _ DomainEvent) error {
		rec.add("called")
		return nil
	})

	require.NoError(t, d.Subscribe("e", h))
	require.NoError(t, d.Unsubscribe("e", h))
	assert.Error(t, d.Subscribe("", h))
	assert.Error(t, d.Subscribe("e", nil))

	require.NoError(t, d.Start())
	require.NoError(t, d.Publish(NewBaseEvent("a", "e", time.Now())))
	require.NoError(t, d.Stop())

	assert.Empty(t, rec.list())
}
