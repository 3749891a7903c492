package remote

import (
	"encoding/json"
	"strings"
	"time"

	"attendanceclient/internal/domain"
)

const unknownName = "Unknown"

// envelope is the common part of every response: {success, message?, detail?}.
// detail is FastAPI's error field and may be a string or a list of validation errors.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

func (e *envelope) env() *envelope { return e }

// errorMessage picks the most specific human-readable message in the envelope.
func (e *envelope) errorMessage() string {
	if m := strings.TrimSpace(e.Message); m != "" {
		return m
	}
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return "request validation failed"
}

type enveloped interface {
	env() *envelope
}

type ackResponse struct {
	envelope
}

type eventDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	EventDate         string `json:"event_date"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	Location          string `json:"location"`
	Status            string `json:"status"`
	TotalParticipants int    `json:"total_participants"`
	AttendedCount     int    `json:"attended_count"`
	CreatedAt         string `json:"created_at"`
}

func (d eventDTO) toDomain() domain.Event {
	status := domain.EventStatus(strings.ToLower(strings.TrimSpace(d.Status)))
	if status == "" {
		status = domain.EventUpcoming
	}
	return domain.Event{
		ID:                d.ID,
		Name:              orUnknown(d.Name),
		Description:       d.Description,
		EventDate:         parseTime(d.EventDate),
		StartTime:         d.StartTime,
		EndTime:           d.EndTime,
		Location:          d.Location,
		Status:            status,
		TotalParticipants: nonNegative(d.TotalParticipants),
		AttendedCount:     nonNegative(d.AttendedCount),
		CreatedAt:         parseTime(d.CreatedAt),
	}
}

type eventsResponse struct {
	envelope
	Events []eventDTO `json:"events"`
}

type participantDTO struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Status       string `json:"status"`
	AttendedAt   string `json:"attended_at"`
	IsRequired   bool   `json:"is_required"`
}

func (d participantDTO) toDomain(eventID string) domain.Participant {
	status := domain.ParticipantStatus(strings.ToLower(strings.TrimSpace(d.Status)))
	if status == "" {
		status = domain.ParticipantInvited
	}
	p := domain.Participant{
		ID:           d.ID,
		EventID:      eventID,
		EmployeeID:   d.EmployeeID,
		EmployeeName: orUnknown(d.EmployeeName),
		Department:   d.Department,
		Status:       status,
		IsRequired:   d.IsRequired,
	}
	if t := parseTime(d.AttendedAt); !t.IsZero() {
		p.AttendedAt = &t
	}
	return p
}

type eventDetailResponse struct {
	envelope
	Event        *eventDTO        `json:"event"`
	Participants []participantDTO `json:"participants"`
}

type cameraDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CameraType string `json:"camera_type"`
	Location   string `json:"location"`
	Status     string `json:"status"`
	IsPrimary  bool   `json:"is_primary"`
}

func (d cameraDTO) toDomain() domain.Camera {
	status := domain.CameraStatus(strings.ToLower(strings.TrimSpace(d.Status)))
	if status == "" {
		status = domain.CameraOffline
	}
	return domain.Camera{
		ID:         d.ID,
		Name:       orUnknown(d.Name),
		CameraType: d.CameraType,
		Location:   d.Location,
		Status:     status,
		IsPrimary:  d.IsPrimary,
	}
}

type camerasResponse struct {
	envelope
	Cameras []cameraDTO `json:"cameras"`
}

type statsResponse struct {
	envelope
	Stats domain.EventStats `json:"stats"`
}

type employeeDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email"`
	CreatedAt  string `json:"createdAt"`
}

func (d employeeDTO) toDomain() domain.Employee {
	return domain.Employee{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		Name:       orUnknown(d.Name),
		Department: d.Department,
		Email:      d.Email,
		CreatedAt:  parseTime(d.CreatedAt),
	}
}

type employeesResponse struct {
	envelope
	Employees []employeeDTO `json:"employees"`
}

type attendanceLogDTO struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Timestamp    string  `json:"timestamp"`
	Confidence   float64 `json:"confidence"`
	Method       string  `json:"method"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
}

func (d attendanceLogDTO) toDomain() domain.AttendanceLog {
	return domain.AttendanceLog{
		ID:           d.ID,
		EmployeeID:   d.EmployeeID,
		EmployeeName: orUnknown(d.EmployeeName),
		Timestamp:    parseTime(d.Timestamp),
		Confidence:   d.Confidence,
		Method:       d.Method,
		Status:       domain.AttendanceStatus(strings.ToLower(strings.TrimSpace(d.Status))),
		Notes:        d.Notes,
	}
}

type attendanceLogsResponse struct {
	envelope
	Logs []attendanceLogDTO `json:"logs"`
}

type notificationStatusResponse struct {
	envelope
	EmailEnabled bool                        `json:"email_enabled"`
	Settings     domain.NotificationSettings `json:"settings"`
}

type markAttendanceBody struct {
	EmployeeID string `json:"employee_id"`
}

type linkCameraBody struct {
	CameraID string `json:"camera_id"`
}

type emailBody struct {
	Email string `json:"email"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	domain.DateLayout,
}

// parseTime accepts the ISO forms the server emits, with or without zone.
// Unparsable or empty input yields the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownName
	}
	return s
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
