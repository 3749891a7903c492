package domain

import (
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event as reported by the server.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// EventStatusAll is the facet value that clears the status filter.
const EventStatusAll = "all"

// ParseEventStatus normalizes a facet value. Empty and "all" yield "" (no filter).
func ParseEventStatus(s string) (EventStatus, bool) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", EventStatusAll:
		return "", true
	case string(EventUpcoming), string(EventOngoing), string(EventCompleted), string(EventCancelled):
		return EventStatus(v), true
	default:
		return "", false
	}
}

// Event is an organizational event. TotalParticipants and AttendedCount are server aggregates.
type Event struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	EventDate         time.Time   `json:"event_date"`
	StartTime         string      `json:"start_time"`
	EndTime           string      `json:"end_time"`
	Location          string      `json:"location"`
	Status            EventStatus `json:"status"`
	TotalParticipants int         `json:"total_participants"`
	AttendedCount     int         `json:"attended_count"`
	CreatedAt         time.Time   `json:"created_at"`
}

// EventFilter is the query accepted by the event list fetch.
type EventFilter struct {
	Status EventStatus
}

// EventDetail bundles an event with its participant set.
type EventDetail struct {
	Event        Event         `json:"event"`
	Participants []Participant `json:"participants"`
}

// EventStats is the server-side summary across all active events.
type EventStats struct {
	TotalEvents           int     `json:"total_events"`
	UpcomingEvents        int     `json:"upcoming_events"`
	CompletedEvents       int     `json:"completed_events"`
	AverageAttendanceRate float64 `json:"average_attendance_rate"`
}
