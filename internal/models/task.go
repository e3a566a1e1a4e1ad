package models

import (
	"database/sql"
)

// TaskStatus is the derived progress state of a task.
type TaskStatus string

// Task status constants
const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          int64          `db:"id"`
	Description string         `db:"description"`
	StartDate   sql.NullString `db:"start_date"`
	EndDate     sql.NullString `db:"end_date"`
	Status      TaskStatus     `db:"status"`
}

// Start returns the start date or "" when unset.
func (t *Task) Start() string {
	if !t.StartDate.Valid {
		return ""
	}
	return t.StartDate.String
}

// End returns the end date or "" when unset.
func (t *Task) End() string {
	if !t.EndDate.Valid {
		return ""
	}
	return t.EndDate.String
}

// NullableDate maps "" to a NULL column value.
func NullableDate(date string) sql.NullString {
	if date == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: date, Valid: true}
}
