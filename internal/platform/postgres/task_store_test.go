package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftsmith/draftsmith-api/internal/task"
)

func newTaskStoreWithMock(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresTaskStore(db), mock
}

func taskRows(id uuid.UUID, taskType string, payload []byte, status task.TaskStatus) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "type", "payload", "status", "error_message", "created_at", "updated_at",
	}).AddRow(id.String(), taskType, payload, string(status), nil, now, now)
}

func TestPostgresTaskStore_SaveTask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		taskStore, mock := newTaskStoreWithMock(t)
		mockTask := task.NewMockTask(uuid.New(), task.TaskTypeArticleGeneration, []byte(`{"article_id":"abc"}`))

		mock.ExpectExec("INSERT INTO tasks").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, taskStore.SaveTask(context.Background(), mockTask))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		taskStore, mock := newTaskStoreWithMock(t)
		mockTask := task.NewMockTask(uuid.New(), task.TaskTypeArticleGeneration, nil)

		mock.ExpectExec("INSERT INTO tasks").
			WillReturnError(errors.New("connection reset"))

		err := taskStore.SaveTask(context.Background(), mockTask)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save task")
	})
}

func TestPostgresTaskStore_UpdateTaskStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		taskStore, mock := newTaskStoreWithMock(t)

		mock.ExpectExec("UPDATE tasks").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := taskStore.UpdateTaskStatus(context.Background(), uuid.New(), task.TaskStatusCompleted, "")
		assert.NoError(t, err)
	})

	t.Run("missing task is a no-op", func(t *testing.T) {
		taskStore, mock := newTaskStoreWithMock(t)

		mock.ExpectExec("UPDATE tasks").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := taskStore.UpdateTaskStatus(context.Background(), uuid.New(), task.TaskStatusFailed, "boom")
		assert.NoError(t, err)
	})
}

func TestPostgresTaskStore_GetPendingTasks(t *testing.T) {
	t.Run("hydrated task can execute", func(t *testing.T) {
		taskStore, mock := newTaskStoreWithMock(t)

		executed := false
		taskStore.SetHydrator(func(taskType string, payload []byte) (func(ctx context.Context) error, error) {
			assert.Equal(t, task.TaskTypeArticleGeneration, taskType)
			assert.JSONEq(t, `{"article_id":"abc"}`, string(payload))
			return func(ctx context.Context) error {
				executed = true
				return nil
			}, nil
		})

		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM tasks").
			WillReturnRows(taskRows(id, task.TaskTypeArticleGeneration, []byte(`{"article_id":"abc"}`), task.TaskStatusPending))

		tasks, err := taskStore.GetPendingTasks(context.Background())
		require.NoError(t, err)
		require.Len(t, tasks, 1)

		assert.Equal(t, id, tasks[0].ID())
		assert.Equal(t, task.TaskStatusPending, tasks[0].Status())
		require.NoError(t, tasks[0].Execute(context.Background()))
		assert.True(t, executed)
	})

	t.Run("without hydrator execute fails", func(t *testing.T) {
		taskStore, mock := newTaskStoreWithMock(t)

		mock.ExpectQuery("SELECT (.+) FROM tasks").
			WillReturnRows(taskRows(uuid.New(), task.TaskTypeArticleGeneration, nil, task.TaskStatusPending))

		tasks, err := taskStore.GetPendingTasks(context.Background())
		require.NoError(t, err)
		require.Len(t, tasks, 1)

		err = tasks[0].Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no execution function")
	})

	t.Run("hydrator failure keeps the task unexecutable", func(t *testing.T) {
		taskStore, mock := newTaskStoreWithMock(t)
		taskStore.SetHydrator(func(taskType string, payload []byte) (func(ctx context.Context) error, error) {
			return nil, errors.New("unknown task type")
		})

		mock.ExpectQuery("SELECT (.+) FROM tasks").
			WillReturnRows(taskRows(uuid.New(), "unknown", nil, task.TaskStatusPending))

		tasks, err := taskStore.GetPendingTasks(context.Background())
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Error(t, tasks[0].Execute(context.Background()))
	})
}

func TestPostgresTaskStore_GetProcessingTasks(t *testing.T) {
	taskStore, mock := newTaskStoreWithMock(t)

	mock.ExpectQuery("SELECT (.+) FROM tasks").
		WithArgs(string(task.TaskStatusProcessing), sqlmock.AnyArg()).
		WillReturnRows(taskRows(uuid.New(), task.TaskTypeArticleGeneration, nil, task.TaskStatusProcessing))

	tasks, err := taskStore.GetProcessingTasks(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestPostgresTaskStore_WithTx(t *testing.T) {
	taskStore, _ := newTaskStoreWithMock(t)
	taskStore.SetHydrator(func(string, []byte) (func(ctx context.Context) error, error) {
		return nil, nil
	})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.ExpectBegin()

	tx, err := db.Begin()
	require.NoError(t, err)

	txStore := taskStore.WithTx(tx)
	pgStore, ok := txStore.(*PostgresTaskStore)
	require.True(t, ok)
	assert.NotNil(t, pgStore.hydrator, "transaction-scoped store keeps the hydrator")
}
