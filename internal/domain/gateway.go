package domain

import "context"

// ExportKind names the collection an export report covers.
type ExportKind string

const (
	ExportAttendance ExportKind = "attendance"
	ExportEvent      ExportKind = "event"
)

// ExportRequest describes a report download. Format is one of pdf, excel, csv.
// EventID is required for ExportEvent.
type ExportRequest struct {
	Kind    ExportKind
	Format  string
	Date    string
	EventID string
}

// RemoteGateway is the typed facade over the attendance service. Implementations are
// stateless: no retries, no caching. Every failure is returned as a *GatewayError
// (or a validation error wrapping ErrInvalidInput before any request is made).
type RemoteGateway interface {
	FetchEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	FetchEventDetail(ctx context.Context, eventID string) (*EventDetail, error)
	FetchEventCameras(ctx context.Context, eventID string) ([]Camera, error)
	FetchCameras(ctx context.Context) ([]Camera, error)
	FetchEventStats(ctx context.Context) (*EventStats, error)
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (Ack, error)
	LinkCamera(ctx context.Context, req CameraLinkRequest) (Ack, error)
	UnlinkCamera(ctx context.Context, req CameraLinkRequest) (Ack, error)
	DeleteEvent(ctx context.Context, eventID string) (Ack, error)

	FetchEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, employeeID string) (Ack, error)

	FetchAttendanceLogs(ctx context.Context, filter AttendanceFilter) ([]AttendanceLog, error)
	// ExportURL builds the download URL for a report; no request is issued.
	ExportURL(req ExportRequest) (string, error)

	FetchNotificationStatus(ctx context.Context) (*NotificationStatus, error)
	SendTestEmail(ctx context.Context, req EmailRequest) (Ack, error)
	SendDailySummary(ctx context.Context, req EmailRequest) (Ack, error)
}
