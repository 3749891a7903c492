// Package status maps raw entity fields to presentation classes, rates and
// export names. Every function is pure.
package status

import (
	"fmt"
	"math"
	"strings"

	"attendanceclient/internal/domain"
)

// Class is a display color class.
type Class string

const (
	Success Class = "success"
	Info    Class = "info"
	Warning Class = "warning"
	Neutral Class = "neutral"
	Danger  Class = "danger"
)

// ParticipantClass maps a participant status to its class. Unknown values are neutral.
func ParticipantClass(s domain.ParticipantStatus) Class {
	switch domain.ParticipantStatus(strings.ToLower(strings.TrimSpace(string(s)))) {
	case domain.ParticipantAttended:
		return Success
	case domain.ParticipantConfirmed:
		return Info
	case domain.ParticipantAbsent:
		return Danger
	default:
		return Neutral
	}
}

// CameraClass maps a camera status to its class, case-insensitively.
func CameraClass(s domain.CameraStatus) Class {
	switch domain.CameraStatus(strings.ToLower(strings.TrimSpace(string(s)))) {
	case domain.CameraOnline:
		return Success
	case domain.CameraError:
		return Danger
	default:
		return Neutral
	}
}

// EventClass maps an event status to its class.
func EventClass(s domain.EventStatus) Class {
	switch domain.EventStatus(strings.ToLower(strings.TrimSpace(string(s)))) {
	case domain.EventUpcoming:
		return Info
	case domain.EventOngoing:
		return Success
	case domain.EventCancelled:
		return Danger
	default:
		return Neutral
	}
}

// AttendanceLogClass maps an attendance log status to its class.
func AttendanceLogClass(s domain.AttendanceStatus) Class {
	switch domain.AttendanceStatus(strings.ToLower(strings.TrimSpace(string(s)))) {
	case domain.AttendanceOnTime:
		return Success
	case domain.AttendanceLate:
		return Warning
	case domain.AttendanceHalfDay:
		return Info
	default:
		return Neutral
	}
}

// AttendanceRate returns attended/total*100. A non-positive total yields 0.
func AttendanceRate(attended, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(attended) / float64(total) * 100
}

// DetailRate is the attendance rate rounded to one decimal.
func DetailRate(attended, total int) float64 {
	return math.Round(AttendanceRate(attended, total)*10) / 10
}

// ListRate is the attendance rate rounded to a whole number.
func ListRate(attended, total int) int {
	return int(math.Round(AttendanceRate(attended, total)))
}

// FormatDetailRate renders DetailRate as "66.7%".
func FormatDetailRate(attended, total int) string {
	return fmt.Sprintf("%.1f%%", DetailRate(attended, total))
}

// FormatListRate renders ListRate as "67%".
func FormatListRate(attended, total int) string {
	return fmt.Sprintf("%d%%", ListRate(attended, total))
}

// RecordCountLabel renders the list header count.
func RecordCountLabel(n int) string {
	if n == 1 {
		return "1 record"
	}
	return fmt.Sprintf("%d records", n)
}

var exportExtensions = map[string]string{
	"pdf":   "pdf",
	"excel": "xlsx",
	"csv":   "csv",
}

// ExportExtension maps a requested export format to its file extension.
func ExportExtension(format string) (string, error) {
	ext, ok := exportExtensions[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, format)
	}
	return ext, nil
}

// ExportFilename derives the download name for a report, e.g.
// "attendance_report_2024-03-01.xlsx". An empty date yields "all".
func ExportFilename(kind domain.ExportKind, date, format string) (string, error) {
	ext, err := ExportExtension(format)
	if err != nil {
		return "", err
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = "all"
	}
	return fmt.Sprintf("%s_report_%s.%s", kind, date, ext), nil
}
