// Package task holds the task list domain: the Task record, its priority and
// filter enums, and the Controller that owns the collection.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPriority is returned by ParsePriority for values outside high, medium and low.
var ErrUnknownPriority = errors.New("unknown priority")

// CreatedAtLayout is the persisted timestamp format: ISO-8601 UTC with milliseconds.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the priorities in the order the UI cycles through them.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
}

// Next returns the priority after p, wrapping around.
func (p Priority) Next() Priority {
	for i, v := range Priorities {
		if v == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityMedium
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// LookupFilter reports whether s names a filter.
func LookupFilter(s string) (Filter, bool) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, true
	default:
		return FilterAll, false
	}
}

// ParseFilter maps unrecognized values to FilterAll.
func ParseFilter(s string) Filter {
	f, _ := LookupFilter(s)
	return f
}

func (f Filter) Next() Filter {
	for i, v := range Filters {
		if v == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Match reports whether t belongs in the view selected by f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

type Task struct {
	ID        int64    `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	CreatedAt string   `json:"createdAt"`
}

// Created parses CreatedAt. The zero time is returned when it does not parse.
func (t Task) Created() time.Time {
	ts, err := time.Parse(time.RFC3339Nano, t.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return ts
}

type Stats struct {
	Total     int
	Active    int
	Completed int
}

func formatCreatedAt(ts time.Time) string {
	return ts.UTC().Format(CreatedAtLayout)
}
