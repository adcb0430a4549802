// Package duedate classifies to-do notes by their due and completion times.
package duedate

import "time"

// State is the visual state of a to-do's due date.
type State int

const (
	// None is reported when a to-do was completed exactly at its due time.
	None State = iota
	Open
	NearDue
	Overdue
	Done
)

// CSS classes per state.
const (
	ClassOpen    = "todo-open"
	ClassNear    = "todo-near"
	ClassOverdue = "todo-overdue"
	ClassDone    = "todo-done"
)

// Classify maps due and completed to a State. A zero due time is always Open.
// nearHours > 0 turns open to-dos due within that many hours into NearDue.
func Classify(due, completed time.Time, nearHours int, now time.Time) State {
	if due.IsZero() {
		return Open
	}

	done := !completed.IsZero()
	switch {
	case !done && due.After(now):
		if nearHours > 0 && due.Add(-time.Duration(nearHours)*time.Hour).Before(now) {
			return NearDue
		}
		return Open
	case !done && due.Before(now):
		return Overdue
	case done && due.After(completed):
		return Done
	case done && due.Before(completed):
		return Done
	}
	return None
}

// Class returns the CSS class for s, or "" for None.
func (s State) Class() string {
	switch s {
	case Open:
		return ClassOpen
	case NearDue:
		return ClassNear
	case Overdue:
		return ClassOverdue
	case Done:
		return ClassDone
	}
	return ""
}

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case NearDue:
		return "near"
	case Overdue:
		return "overdue"
	case Done:
		return "done"
	}
	return "none"
}
