package service

import (
	"fmt"
	"strings"
)

// View selects which tasks a listing shows.
type View string

const (
	ViewAll       View = "all"
	ViewActive    View = "active"
	ViewCompleted View = "completed"
)

// ParseView parses a view name; "" means ViewAll.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ViewAll, nil
	case ViewAll, ViewActive, ViewCompleted:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q (want all, active or completed)", s)
	}
}
