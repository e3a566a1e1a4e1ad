// internal/service/task_service.go
package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/GuilhermeKulkamp/tasklist/internal/models"
	"github.com/GuilhermeKulkamp/tasklist/internal/repository"
)

// User-facing success messages.
const (
	MsgTaskAdded   = "Task added successfully."
	MsgTaskUpdated = "Task updated successfully."
	MsgTaskDeleted = "Task deleted successfully."
)

// TaskStore is the storage the service delegates accepted operations to.
type TaskStore interface {
	Create(ctx context.Context, input *repository.TaskInput) (int64, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*models.Task, error)
	Update(ctx context.Context, id int64, input *repository.TaskInput) error
	Delete(ctx context.Context, id int64) error
	DeleteByStatus(ctx context.Context, status models.TaskStatus) (int64, error)
}

type TaskService struct {
	store     TaskStore
	validator *Validator
	logger    *log.Logger
}

func NewTaskService(store TaskStore, validator *Validator, logger *log.Logger) *TaskService {
	if validator == nil {
		validator = NewValidator(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &TaskService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Add validates req, derives its status and stores a new task.
func (s *TaskService) Add(ctx context.Context, req TaskRequest) (int64, error) {
	logger := s.opLogger("add")

	input, err := s.prepare(req)
	if err != nil {
		logger.Warn("task rejected", "err", err)
		return 0, err
	}

	id, err := s.store.Create(ctx, input)
	if err != nil {
		logger.Error("create task failed", "err", err)
		return 0, newStorageError(err)
	}

	logger.Info("task added", "id", id, "status", input.Status)
	return id, nil
}

// Update validates req and replaces every field of task id. Unknown ids are
// not checked; the store leaves them untouched.
func (s *TaskService) Update(ctx context.Context, id int64, req TaskRequest) error {
	logger := s.opLogger("update").With("id", id)

	input, err := s.prepare(req)
	if err != nil {
		logger.Warn("task rejected", "err", err)
		return err
	}

	if err := s.store.Update(ctx, id, input); err != nil {
		logger.Error("update task failed", "err", err)
		return newStorageError(err)
	}

	logger.Info("task updated", "status", input.Status)
	return nil
}

// Delete removes task id. Deleting an unknown id succeeds.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	logger := s.opLogger("delete").With("id", id)

	if err := s.store.Delete(ctx, id); err != nil {
		logger.Error("delete task failed", "err", err)
		return newStorageError(err)
	}

	logger.Info("task deleted")
	return nil
}

// List returns every task.
func (s *TaskService) List(ctx context.Context) ([]*models.Task, error) {
	return s.ListView(ctx, ViewAll)
}

// ListView returns the tasks visible in view.
func (s *TaskService) ListView(ctx context.Context, view View) ([]*models.Task, error) {
	completed := models.TaskStatusCompleted

	var filter repository.ListFilter
	switch view {
	case ViewAll, "":
	case ViewActive:
		filter.ExcludeStatus = &completed
	case ViewCompleted:
		filter.Status = &completed
	default:
		return nil, fmt.Errorf("unknown view %q", view)
	}

	tasks, err := s.store.List(ctx, filter)
	if err != nil {
		s.opLogger("list").Error("list tasks failed", "view", view, "err", err)
		return nil, newStorageError(err)
	}
	return tasks, nil
}

// ActiveCount returns how many tasks are not completed yet.
func (s *TaskService) ActiveCount(ctx context.Context) (int, error) {
	tasks, err := s.ListView(ctx, ViewActive)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// ClearCompleted deletes every completed task and returns how many were
// removed.
func (s *TaskService) ClearCompleted(ctx context.Context) (int64, error) {
	logger := s.opLogger("clear-completed")

	removed, err := s.store.DeleteByStatus(ctx, models.TaskStatusCompleted)
	if err != nil {
		logger.Error("clear completed failed", "err", err)
		return 0, newStorageError(err)
	}

	logger.Info("completed tasks cleared", "removed", removed)
	return removed, nil
}

func (s *TaskService) prepare(req TaskRequest) (*repository.TaskInput, error) {
	valid, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}
	return &repository.TaskInput{
		Description: valid.Description,
		StartDate:   valid.StartDate,
		EndDate:     valid.EndDate,
		Status:      DeriveStatus(valid.StartDate, valid.EndDate),
	}, nil
}

func (s *TaskService) opLogger(action string) *log.Logger {
	return s.logger.With("op", uuid.NewString(), "action", action)
}

// Result is the outcome of a mutation as shown to the user.
type Result struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Kind    TaskErrorType `json:"kind,omitempty"`
}

// ToResult turns the error of a mutation into a Result, using
// successMessage when err is nil.
func ToResult(err error, successMessage string) Result {
	if err == nil {
		return Result{Success: true, Message: successMessage}
	}
	if taskErr, ok := IsTaskError(err); ok {
		return Result{Message: taskErr.Message, Kind: taskErr.Type}
	}
	return Result{Message: err.Error()}
}
