package domain

import (
	"strings"
	"time"
)

// AttendanceStatus classifies an attendance log entry.
type AttendanceStatus string

const (
	AttendanceOnTime  AttendanceStatus = "on_time"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half_day"
)

// ParseAttendanceStatus normalizes a facet value. Empty and "all" yield "" (no filter).
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "all":
		return "", true
	case string(AttendanceOnTime), string(AttendanceLate), string(AttendanceHalfDay):
		return AttendanceStatus(v), true
	default:
		return "", false
	}
}

// AttendanceLog is an immutable capture record. The client only reads and filters logs.
type AttendanceLog struct {
	ID           string           `json:"id"`
	EmployeeID   string           `json:"employee_id"`
	EmployeeName string           `json:"employee_name"`
	Timestamp    time.Time        `json:"timestamp"`
	Confidence   float64          `json:"confidence"`
	Method       string           `json:"method"`
	Status       AttendanceStatus `json:"status"`
	Notes        string           `json:"notes"`
}

// AttendanceFilter is the query accepted by the attendance log fetch.
// Date uses the YYYY-MM-DD layout.
type AttendanceFilter struct {
	Date   string
	Search string
	Status AttendanceStatus
}

// DateLayout is the wire layout of date filters.
const DateLayout = "2006-01-02"
