// internal/repository/task_repository.go
package repository

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/GuilhermeKulkamp/tasklist/internal/database"
	"github.com/GuilhermeKulkamp/tasklist/internal/models"
)

// TaskRepository stores task rows. Every method is a single statement on a
// connection of its own.
type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// Create inserts a task and returns the id assigned by the store.
func (r *TaskRepository) Create(ctx context.Context, t *TaskInput) (int64, error) {
	query, args := r.db.Builder().
		Insert(database.TasksTable).
		Columns(
			database.ColumnDescription,
			database.ColumnStartDate,
			database.ColumnEndDate,
			database.ColumnStatus,
		).
		Values(
			t.Description,
			models.NullableDate(t.StartDate),
			models.NullableDate(t.EndDate),
			string(t.Status),
		).
		Query()

	var id int64
	err := r.withConn(ctx, func(conn *sqlx.Conn) error {
		r.db.LogStatement(query, args)
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read task id: %w", err)
		}
		return nil
	})
	return id, err
}

// List returns the tasks matching filter ordered by id. A zero filter
// returns every task.
func (r *TaskRepository) List(ctx context.Context, filter ListFilter) ([]*models.Task, error) {
	b := r.db.Builder()
	selector := b.Select(database.TaskColumns...).
		From(b.Table(database.TasksTable)).
		OrderBy(database.ColumnID)

	if filter.Status != nil {
		selector = selector.Where(entsql.EQ(database.ColumnStatus, string(*filter.Status)))
	}
	if filter.ExcludeStatus != nil {
		selector = selector.Where(entsql.NEQ(database.ColumnStatus, string(*filter.ExcludeStatus)))
	}

	query, args := selector.Query()

	tasks := []*models.Task{}
	err := r.withConn(ctx, func(conn *sqlx.Conn) error {
		r.db.LogStatement(query, args)
		if err := conn.SelectContext(ctx, &tasks, query, args...); err != nil {
			return fmt.Errorf("query tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update replaces every mutable field of the task with id. A missing id is
// not an error; nothing is changed.
func (r *TaskRepository) Update(ctx context.Context, id int64, t *TaskInput) error {
	query, args := r.db.Builder().
		Update(database.TasksTable).
		Set(database.ColumnDescription, t.Description).
		Set(database.ColumnStartDate, models.NullableDate(t.StartDate)).
		Set(database.ColumnEndDate, models.NullableDate(t.EndDate)).
		Set(database.ColumnStatus, string(t.Status)).
		Where(entsql.EQ(database.ColumnID, id)).
		Query()

	return r.withConn(ctx, func(conn *sqlx.Conn) error {
		r.db.LogStatement(query, args)
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update task %d: %w", id, err)
		}
		return nil
	})
}

// Delete removes the task with id. A missing id is not an error.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	query, args := r.db.Builder().
		Delete(database.TasksTable).
		Where(entsql.EQ(database.ColumnID, id)).
		Query()

	return r.withConn(ctx, func(conn *sqlx.Conn) error {
		r.db.LogStatement(query, args)
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete task %d: %w", id, err)
		}
		return nil
	})
}

// DeleteByStatus removes every task with the given status and reports how
// many rows were removed.
func (r *TaskRepository) DeleteByStatus(ctx context.Context, status models.TaskStatus) (int64, error) {
	query, args := r.db.Builder().
		Delete(database.TasksTable).
		Where(entsql.EQ(database.ColumnStatus, string(status))).
		Query()

	var removed int64
	err := r.withConn(ctx, func(conn *sqlx.Conn) error {
		r.db.LogStatement(query, args)
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete %s tasks: %w", status, err)
		}
		removed, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("read affected rows: %w", err)
		}
		return nil
	})
	return removed, err
}

// withConn runs fn on a freshly acquired connection and always releases it.
func (r *TaskRepository) withConn(ctx context.Context, fn func(conn *sqlx.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}

// Types for repository input
type TaskInput struct {
	Description string
	StartDate   string // "" when absent
	EndDate     string // "" when absent
	Status      models.TaskStatus
}

type ListFilter struct {
	Status        *models.TaskStatus
	ExcludeStatus *models.TaskStatus
}
