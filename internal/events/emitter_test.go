package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures the events it receives and returns a scripted error.
type recordingHandler struct {
	mu     sync.Mutex
	events []*TaskRequestEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *TaskRequestEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func newTestEmitter() *InMemoryEventEmitter {
	return NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	t.Run("delivers event to all handlers", func(t *testing.T) {
		t.Parallel()
		emitter := newTestEmitter()
		first := &recordingHandler{}
		second := &recordingHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		event, err := NewTaskRequestEvent("article_generation", map[string]string{"article_id": "a"})
		require.NoError(t, err)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, 1, first.count())
		assert.Equal(t, 1, second.count())
	})

	t.Run("no handlers registered", func(t *testing.T) {
		t.Parallel()
		emitter := newTestEmitter()

		event, err := NewTaskRequestEvent("article_generation", nil)
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("handler error does not stop delivery", func(t *testing.T) {
		t.Parallel()
		emitter := newTestEmitter()
		failErr := errors.New("handler broken")
		failing := &recordingHandler{err: failErr}
		healthy := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(healthy)

		event, err := NewTaskRequestEvent("article_generation", nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, failErr)
		assert.Equal(t, 1, healthy.count(), "healthy handler still receives the event")
	})

	t.Run("first error wins", func(t *testing.T) {
		t.Parallel()
		emitter := newTestEmitter()
		firstErr := errors.New("first")
		secondErr := errors.New("second")
		emitter.RegisterHandler(&recordingHandler{err: firstErr})
		emitter.RegisterHandler(&recordingHandler{err: secondErr})

		event, err := NewTaskRequestEvent("article_generation", nil)
		require.NoError(t, err)

		assert.ErrorIs(t, emitter.EmitEvent(context.Background(), event), firstErr)
	})
}
