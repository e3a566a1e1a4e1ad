package database

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names of the task store.
const (
	TasksTable = "tasks"

	ColumnID          = "id"
	ColumnDescription = "description"
	ColumnStartDate   = "start_date"
	ColumnEndDate     = "end_date"
	ColumnStatus      = "status"
)

// TaskColumns lists the task columns in table order.
var TaskColumns = []string{
	ColumnID,
	ColumnDescription,
	ColumnStartDate,
	ColumnEndDate,
	ColumnStatus,
}

const textSize = 2147483647

var (
	tasksColumns = []*schema.Column{
		{Name: ColumnID, Type: field.TypeInt, Increment: true},
		{Name: ColumnDescription, Type: field.TypeString, Size: textSize},
		{Name: ColumnStartDate, Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: ColumnEndDate, Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: ColumnStatus, Type: field.TypeString, Size: textSize},
	}
	tasksTable = &schema.Table{
		Name:       TasksTable,
		Columns:    tasksColumns,
		PrimaryKey: []*schema.Column{tasksColumns[0]},
	}

	// Tables holds every table the store manages.
	Tables = []*schema.Table{
		tasksTable,
	}
)
