package domain

import (
	"fmt"
	"strings"
	"time"
)

// ParticipantStatus is the invitation state of an employee for one event.
type ParticipantStatus string

const (
	ParticipantInvited   ParticipantStatus = "invited"
	ParticipantConfirmed ParticipantStatus = "confirmed"
	ParticipantAttended  ParticipantStatus = "attended"
	ParticipantAbsent    ParticipantStatus = "absent"
)

// CanMarkAttended reports whether the client may move a participant into attended.
// Attended is terminal for this flow and absent is set by a server-side process, so
// neither exposes a transition.
func (s ParticipantStatus) CanMarkAttended() bool {
	switch ParticipantStatus(strings.ToLower(string(s))) {
	case ParticipantInvited, ParticipantConfirmed:
		return true
	default:
		return false
	}
}

// Participant links one employee to one event.
type Participant struct {
	ID           string            `json:"id"`
	EventID      string            `json:"event_id"`
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Department   string            `json:"department"`
	Status       ParticipantStatus `json:"status"`
	AttendedAt   *time.Time        `json:"attended_at,omitempty"`
	IsRequired   bool              `json:"is_required"`
}

// MarkAttendanceRequest marks one participant of an event as attended.
type MarkAttendanceRequest struct {
	EventID    string `json:"-"`
	EmployeeID string `json:"employee_id"`
}

// Validate implements Validator.
func (r MarkAttendanceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	if strings.TrimSpace(r.EmployeeID) == "" {
		errs = append(errs, "employee_id is required")
	}
	return errs
}

// TransitionError builds the error returned when a participant cannot be marked attended.
func TransitionError(p Participant) error {
	return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, p.EmployeeID, p.Status)
}
