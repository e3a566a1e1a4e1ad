// internal/service/task_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GuilhermeKulkamp/tasklist/internal/logging"
	"github.com/GuilhermeKulkamp/tasklist/internal/models"
	"github.com/GuilhermeKulkamp/tasklist/internal/repository"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, input *repository.TaskInput) (int64, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) List(ctx context.Context, filter repository.ListFilter) ([]*models.Task, error) {
	args := m.Called(ctx, filter)
	tasks, _ := args.Get(0).([]*models.Task)
	return tasks, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id int64, input *repository.TaskInput) error {
	args := m.Called(ctx, id, input)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) DeleteByStatus(ctx context.Context, status models.TaskStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(store TaskStore) *TaskService {
	return NewTaskService(store, NewValidator(nil), logging.Discard())
}

func withStatus(want models.TaskStatus) any {
	return mock.MatchedBy(func(in *repository.TaskInput) bool {
		return in.Status == want
	})
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  models.TaskStatus
	}{
		{"no dates", "", "", models.TaskStatusPending},
		{"start only", "2024-01-01", "", models.TaskStatusInProgress},
		{"both dates", "2024-01-01", "2024-01-05", models.TaskStatusCompleted},
		{"end only", "", "2024-01-05", models.TaskStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.start, tt.end))
		})
	}
}

func TestTaskService_Add_DerivesStatus(t *testing.T) {
	tests := []struct {
		name string
		req  TaskRequest
		want models.TaskStatus
	}{
		{"pending", TaskRequest{Description: "Buy milk"}, models.TaskStatusPending},
		{"in progress", TaskRequest{Description: "Buy milk", StartDate: "2024-01-01"}, models.TaskStatusInProgress},
		{"completed", TaskRequest{Description: "Buy milk", StartDate: "2024-01-01", EndDate: "2024-01-05"}, models.TaskStatusCompleted},
		{"end without start", TaskRequest{Description: "Buy milk", EndDate: "2024-01-05"}, models.TaskStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			store.On("Create", mock.Anything, withStatus(tt.want)).Return(int64(42), nil).Once()

			id, err := newTestService(store).Add(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, int64(42), id)
			store.AssertExpectations(t)
		})
	}
}

func TestTaskService_Add_PassesFieldsThrough(t *testing.T) {
	store := new(mockStore)
	store.On("Create", mock.Anything, &repository.TaskInput{
		Description: "Plan trip",
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-10",
		Status:      models.TaskStatusCompleted,
	}).Return(int64(1), nil).Once()

	_, err := newTestService(store).Add(context.Background(), TaskRequest{
		Description: "Plan trip",
		StartDate:   " 2024-03-01 ",
		EndDate:     "2024-03-10",
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTaskService_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		req      TaskRequest
		sentinel error
		message  string
	}{
		{
			name:     "empty description",
			req:      TaskRequest{},
			sentinel: ErrDescriptionRequired,
			message:  "description required",
		},
		{
			name:     "blank description",
			req:      TaskRequest{Description: "   ", StartDate: "2024-01-01"},
			sentinel: ErrDescriptionRequired,
			message:  "description required",
		},
		{
			name:     "end before start",
			req:      TaskRequest{Description: "Bad task", StartDate: "2024-02-01", EndDate: "2024-01-01"},
			sentinel: ErrEndBeforeStart,
			message:  "end before start",
		},
		{
			name:     "end equals start",
			req:      TaskRequest{Description: "Same day", StartDate: "2024-02-01", EndDate: "2024-02-01"},
			sentinel: ErrEndBeforeStart,
			message:  "end before start",
		},
		{
			name:     "unparseable start",
			req:      TaskRequest{Description: "Typo", StartDate: "01/02/2024"},
			sentinel: ErrInvalidDate,
			message:  `invalid start date "01/02/2024" (expected 2006-01-02)`,
		},
		{
			name:     "impossible end",
			req:      TaskRequest{Description: "Typo", StartDate: "2024-02-01", EndDate: "2024-02-30"},
			sentinel: ErrInvalidDate,
			message:  `invalid end date "2024-02-30" (expected 2006-01-02)`,
		},
		{
			name:     "description checked before dates",
			req:      TaskRequest{StartDate: "nope"},
			sentinel: ErrDescriptionRequired,
			message:  "description required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/add", func(t *testing.T) {
			store := new(mockStore)
			_, err := newTestService(store).Add(context.Background(), tt.req)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			res := ToResult(err, MsgTaskAdded)
			assert.False(t, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, ValidationError, res.Kind)

			store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})

		t.Run(tt.name+"/update", func(t *testing.T) {
			store := new(mockStore)
			err := newTestService(store).Update(context.Background(), 7, tt.req)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTaskService_Update_DelegatesWithoutExistenceCheck(t *testing.T) {
	store := new(mockStore)
	store.On("Update", mock.Anything, int64(999), withStatus(models.TaskStatusInProgress)).Return(nil).Once()

	err := newTestService(store).Update(context.Background(), 999, TaskRequest{
		Description: "Buy milk",
		StartDate:   "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: MsgTaskUpdated}, ToResult(err, MsgTaskUpdated))

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTaskService_Delete_AlwaysSucceeds(t *testing.T) {
	store := new(mockStore)
	store.On("Delete", mock.Anything, int64(3)).Return(nil).Twice()

	svc := newTestService(store)
	require.NoError(t, svc.Delete(context.Background(), 3))
	require.NoError(t, svc.Delete(context.Background(), 3))

	store.AssertExpectations(t)
}

func TestTaskService_StorageFailure(t *testing.T) {
	diskErr := errors.New("disk I/O error")

	store := new(mockStore)
	store.On("Create", mock.Anything, mock.Anything).Return(int64(0), diskErr)
	store.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(diskErr)
	store.On("Delete", mock.Anything, mock.Anything).Return(diskErr)
	store.On("List", mock.Anything, mock.Anything).Return(nil, diskErr)
	store.On("DeleteByStatus", mock.Anything, mock.Anything).Return(int64(0), diskErr)

	svc := newTestService(store)
	ctx := context.Background()
	req := TaskRequest{Description: "Buy milk"}

	_, addErr := svc.Add(ctx, req)
	updateErr := svc.Update(ctx, 1, req)
	deleteErr := svc.Delete(ctx, 1)
	_, listErr := svc.List(ctx)
	_, countErr := svc.ActiveCount(ctx)
	_, clearErr := svc.ClearCompleted(ctx)

	for _, err := range []error{addErr, updateErr, deleteErr, listErr, countErr, clearErr} {
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.ErrorIs(t, err, diskErr)

		taskErr, ok := IsTaskError(err)
		require.True(t, ok)
		assert.Equal(t, StorageError, taskErr.Type)
	}

	res := ToResult(deleteErr, MsgTaskDeleted)
	assert.False(t, res.Success)
	assert.Equal(t, "storage unavailable", res.Message)
	assert.Equal(t, StorageError, res.Kind)
}

func TestTaskService_ListView(t *testing.T) {
	completed := models.TaskStatusCompleted
	tasks := []*models.Task{{ID: 1, Description: "a", Status: models.TaskStatusPending}}

	tests := []struct {
		view   View
		filter repository.ListFilter
	}{
		{ViewAll, repository.ListFilter{}},
		{ViewActive, repository.ListFilter{ExcludeStatus: &completed}},
		{ViewCompleted, repository.ListFilter{Status: &completed}},
	}

	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			store := new(mockStore)
			store.On("List", mock.Anything, tt.filter).Return(tasks, nil).Once()

			got, err := newTestService(store).ListView(context.Background(), tt.view)
			require.NoError(t, err)
			assert.Equal(t, tasks, got)
			store.AssertExpectations(t)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		store := new(mockStore)
		_, err := newTestService(store).ListView(context.Background(), View("archived"))
		assert.Error(t, err)
		store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestTaskService_ClearCompleted(t *testing.T) {
	store := new(mockStore)
	store.On("DeleteByStatus", mock.Anything, models.TaskStatusCompleted).Return(int64(2), nil).Once()

	removed, err := newTestService(store).ClearCompleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	store.AssertExpectations(t)
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]View{
		"":           ViewAll,
		"all":        ViewAll,
		"Active":     ViewActive,
		" completed": ViewCompleted,
	} {
		got, err := ParseView(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}

	_, err := ParseView("done")
	assert.Error(t, err)
}

func TestToResult(t *testing.T) {
	assert.Equal(t, Result{Success: true, Message: MsgTaskAdded}, ToResult(nil, MsgTaskAdded))

	plain := ToResult(errors.New("boom"), MsgTaskAdded)
	assert.False(t, plain.Success)
	assert.Equal(t, "boom", plain.Message)
	assert.Empty(t, plain.Kind)
}

func TestValidator_CustomLayout(t *testing.T) {
	v := NewValidator(&ValidationConfig{DateLayout: "02/01/2006"})

	got, err := v.Validate(TaskRequest{Description: "x", StartDate: "31/12/2023", EndDate: "02/01/2024"})
	require.NoError(t, err)
	assert.Equal(t, "31/12/2023", got.StartDate)
	assert.Equal(t, "02/01/2024", got.EndDate)

	_, err = v.Validate(TaskRequest{Description: "x", StartDate: "02/01/2024", EndDate: "31/12/2023"})
	assert.ErrorIs(t, err, ErrEndBeforeStart)
}
