package view

import (
	"errors"
	"fmt"
	"time"

	internalstrings "github.com/amonks/taskday/internal/strings"
	"github.com/amonks/taskday/task"
)

// ErrInvalidFilter is returned when a filter axis or value is unknown.
var ErrInvalidFilter = errors.New("invalid filter")

// Axis names a filter dimension.
type Axis string

const (
	AxisNone     Axis = "none"
	AxisPriority Axis = "priority"
	AxisDate     Axis = "date"
	AxisStatus   Axis = "status"
)

// Axes returns every axis in menu order.
func Axes() []Axis {
	return []Axis{AxisNone, AxisPriority, AxisDate, AxisStatus}
}

// AllValue disables filtering on an axis while keeping it selected.
const AllValue = "all"

// PriorityValue selects tasks by priority.
type PriorityValue string

const (
	PriorityAll    PriorityValue = AllValue
	PriorityNormal PriorityValue = PriorityValue(task.PriorityNormal)
	PriorityHigh   PriorityValue = PriorityValue(task.PriorityHigh)
)

// DateValue selects tasks by creation day relative to now.
type DateValue string

const (
	DateAll      DateValue = AllValue
	DateToday    DateValue = "today"
	DateTomorrow DateValue = "tomorrow"
)

// StatusValue selects tasks by completion.
type StatusValue string

const (
	StatusAll         StatusValue = AllValue
	StatusCompleted   StatusValue = "completed"
	StatusUncompleted StatusValue = "uncompleted"
)

// Filter is the single active filter axis. The implementations are
// NoFilter, PriorityFilter, DateFilter and StatusFilter.
type Filter interface {
	// Axis reports which dimension the filter narrows.
	Axis() Axis

	// Value reports the selected value, or "" for NoFilter.
	Value() string

	// String renders the filter as axis=value.
	String() string

	keep(t task.Task, w window) bool
}

// window holds the calendar context for one projection.
type window struct {
	loc      *time.Location
	today    Day
	tomorrow Day
}

// NoFilter keeps every task.
type NoFilter struct{}

func (NoFilter) Axis() Axis                  { return AxisNone }
func (NoFilter) Value() string               { return "" }
func (NoFilter) String() string              { return string(AxisNone) }
func (NoFilter) keep(task.Task, window) bool { return true }

// PriorityFilter keeps tasks with a matching priority.
type PriorityFilter struct {
	Priority PriorityValue
}

func (f PriorityFilter) Axis() Axis     { return AxisPriority }
func (f PriorityFilter) Value() string  { return string(f.Priority) }
func (f PriorityFilter) String() string { return filterString(f) }

func (f PriorityFilter) keep(t task.Task, _ window) bool {
	switch f.Priority {
	case PriorityNormal, PriorityHigh:
		return PriorityValue(t.Priority) == f.Priority
	default:
		return true
	}
}

// DateFilter keeps tasks created today or tomorrow.
type DateFilter struct {
	Date DateValue
}

func (f DateFilter) Axis() Axis     { return AxisDate }
func (f DateFilter) Value() string  { return string(f.Date) }
func (f DateFilter) String() string { return filterString(f) }

func (f DateFilter) keep(t task.Task, w window) bool {
	created := DayOf(t.CreatedAt, w.loc)
	switch f.Date {
	case DateToday:
		return created == w.today
	case DateTomorrow:
		return created == w.tomorrow
	default:
		return true
	}
}

// StatusFilter keeps tasks with a matching completion state.
type StatusFilter struct {
	Status StatusValue
}

func (f StatusFilter) Axis() Axis     { return AxisStatus }
func (f StatusFilter) Value() string  { return string(f.Status) }
func (f StatusFilter) String() string { return filterString(f) }

func (f StatusFilter) keep(t task.Task, _ window) bool {
	switch f.Status {
	case StatusCompleted:
		return t.Completed
	case StatusUncompleted:
		return !t.Completed
	default:
		return true
	}
}

func filterString(f Filter) string {
	return string(f.Axis()) + "=" + f.Value()
}

// Values returns the selectable values for axis in menu order.
func Values(axis Axis) []string {
	switch axis {
	case AxisPriority:
		return []string{string(PriorityAll), string(PriorityNormal), string(PriorityHigh)}
	case AxisDate:
		return []string{string(DateAll), string(DateToday), string(DateTomorrow)}
	case AxisStatus:
		return []string{string(StatusAll), string(StatusCompleted), string(StatusUncompleted)}
	default:
		return nil
	}
}

// ParseFilter builds a Filter from an axis name and value.
// An empty or "none" axis returns NoFilter; an empty value selects "all".
func ParseFilter(axis, value string) (Filter, error) {
	axis = internalstrings.NormalizeLowerTrimSpace(axis)
	value = internalstrings.NormalizeLowerTrimSpace(value)
	if value == "" {
		value = AllValue
	}

	switch Axis(axis) {
	case "", AxisNone:
		return NoFilter{}, nil
	case AxisPriority:
		switch PriorityValue(value) {
		case PriorityAll, PriorityNormal, PriorityHigh:
			return PriorityFilter{Priority: PriorityValue(value)}, nil
		}
	case AxisDate:
		switch DateValue(value) {
		case DateAll, DateToday, DateTomorrow:
			return DateFilter{Date: DateValue(value)}, nil
		}
	case AxisStatus:
		switch value {
		case "incomplete", "open":
			value = string(StatusUncompleted)
		case "done", "complete":
			value = string(StatusCompleted)
		}
		switch StatusValue(value) {
		case StatusAll, StatusCompleted, StatusUncompleted:
			return StatusFilter{Status: StatusValue(value)}, nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown axis %q", ErrInvalidFilter, axis)
	}

	return nil, fmt.Errorf("%w: %s does not accept %q (want %v)", ErrInvalidFilter, axis, value, Values(Axis(axis)))
}
