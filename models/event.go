package models

import "time"

// EventState is the derived lifecycle state of an event. Only Ended is
// explicitly flagged in the document; Scheduled vs Active is inferred by
// comparing startTime to the current time.
type EventState string

const (
	EventScheduled EventState = "scheduled"
	EventActive    EventState = "active"
	EventEnded     EventState = "ended"
)

// Event is a schedulable occurrence. Once ended the document is frozen: the
// normal edit path and attendance toggles reject it.
type Event struct {
	ID          string     `json:"id" firestore:"-"`
	Name        string     `json:"name" firestore:"name"`
	Date        string     `json:"date" firestore:"date"` // calendar date, YYYY-MM-DD
	StartTime   *time.Time `json:"startTime,omitempty" firestore:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty" firestore:"endTime,omitempty"`
	IsEnded     bool       `json:"isEnded" firestore:"isEnded"`
	Attendees   []string   `json:"attendees" firestore:"attendees"`
	AmountSpent float64    `json:"amountSpent" firestore:"amountSpent"`
}

// State derives the lifecycle state at the given instant.
func (e *Event) State(now time.Time) EventState {
	if e.IsEnded {
		return EventEnded
	}
	if e.StartTime != nil && !e.StartTime.After(now) {
		return EventActive
	}
	return EventScheduled
}

// HasAttendee reports whether the person is currently marked present.
func (e *Event) HasAttendee(personID string) bool {
	for _, id := range e.Attendees {
		if id == personID {
			return true
		}
	}
	return false
}
