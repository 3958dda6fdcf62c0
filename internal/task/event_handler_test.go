package task

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftsmith/draftsmith-api/internal/events"
)

// mockTaskFactory returns a scripted task or error.
type mockTaskFactory struct {
	task   Task
	err    error
	calls  int
	lastID uuid.UUID
}

func (f *mockTaskFactory) CreateTask(articleID uuid.UUID) (Task, error) {
	f.calls++
	f.lastID = articleID
	return f.task, f.err
}

// mockSubmitter records submitted tasks.
type mockSubmitter struct {
	err       error
	submitted []Task
}

func (s *mockSubmitter) Submit(_ context.Context, task Task) error {
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, task)
	return nil
}

func articleEvent(t *testing.T, articleID string) *events.TaskRequestEvent {
	t.Helper()
	event, err := events.NewTaskRequestEvent(TaskTypeArticleGeneration, map[string]string{
		"article_id": articleID,
	})
	require.NoError(t, err)
	return event
}

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTaskFactoryEventHandler_HandleEvent(t *testing.T) {
	t.Parallel()

	t.Run("creates and submits task", func(t *testing.T) {
		t.Parallel()
		articleID := uuid.New()
		factory := &mockTaskFactory{task: NewMockTask(uuid.New(), TaskTypeArticleGeneration, nil)}
		submitter := &mockSubmitter{}
		handler := NewTaskFactoryEventHandler(factory, submitter, handlerTestLogger())

		err := handler.HandleEvent(context.Background(), articleEvent(t, articleID.String()))
		require.NoError(t, err)

		assert.Equal(t, 1, factory.calls)
		assert.Equal(t, articleID, factory.lastID)
		require.Len(t, submitter.submitted, 1)
	})

	t.Run("ignores unrelated event types", func(t *testing.T) {
		t.Parallel()
		factory := &mockTaskFactory{}
		submitter := &mockSubmitter{}
		handler := NewTaskFactoryEventHandler(factory, submitter, handlerTestLogger())

		event, err := events.NewTaskRequestEvent("something_else", nil)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.Zero(t, factory.calls)
		assert.Empty(t, submitter.submitted)
	})

	t.Run("invalid article ID", func(t *testing.T) {
		t.Parallel()
		factory := &mockTaskFactory{}
		handler := NewTaskFactoryEventHandler(factory, &mockSubmitter{}, handlerTestLogger())

		err := handler.HandleEvent(context.Background(), articleEvent(t, "not-a-uuid"))
		assert.Error(t, err)
		assert.Zero(t, factory.calls)
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()
		handler := NewTaskFactoryEventHandler(&mockTaskFactory{}, &mockSubmitter{}, handlerTestLogger())

		event := &events.TaskRequestEvent{
			ID:      uuid.New(),
			Type:    TaskTypeArticleGeneration,
			Payload: json.RawMessage(`"just a string"`),
		}
		assert.Error(t, handler.HandleEvent(context.Background(), event))
	})

	t.Run("factory error", func(t *testing.T) {
		t.Parallel()
		factoryErr := errors.New("bad dependencies")
		handler := NewTaskFactoryEventHandler(
			&mockTaskFactory{err: factoryErr},
			&mockSubmitter{},
			handlerTestLogger(),
		)

		err := handler.HandleEvent(context.Background(), articleEvent(t, uuid.New().String()))
		assert.ErrorIs(t, err, factoryErr)
	})

	t.Run("submit error", func(t *testing.T) {
		t.Parallel()
		submitErr := errors.New("queue full")
		handler := NewTaskFactoryEventHandler(
			&mockTaskFactory{task: NewMockTask(uuid.New(), TaskTypeArticleGeneration, nil)},
			&mockSubmitter{err: submitErr},
			handlerTestLogger(),
		)

		err := handler.HandleEvent(context.Background(), articleEvent(t, uuid.New().String()))
		assert.ErrorIs(t, err, submitErr)
	})
}
