package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"attendanceclient/internal/domain"
	"attendanceclient/internal/status"

	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second
	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 1 << 20
)

// Config holds the configuration for the attendance service gateway.
type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	Transport http.RoundTripper
}

type httpGateway struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewGateway returns a RemoteGateway that talks JSON over HTTP to the attendance service.
func NewGateway(cfg Config) (domain.RemoteGateway, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("%w: base url is required", domain.ErrInvalidInput)
	}
	u, err := url.ParseRequestURI(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", domain.ErrInvalidInput, base)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &httpGateway{
		client:  &http.Client{Timeout: timeout, Transport: transport},
		baseURL: strings.TrimRight(base, "/"),
		token:   strings.TrimSpace(cfg.Token),
	}, nil
}

func (g *httpGateway) FetchEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	var resp eventsResponse
	if err := g.do(ctx, "fetch events", http.MethodGet, "/api/events", q, nil, &resp); err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(resp.Events))
	for _, d := range resp.Events {
		events = append(events, d.toDomain())
	}
	return events, nil
}

func (g *httpGateway) FetchEventDetail(ctx context.Context, eventID string) (*domain.EventDetail, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
	}
	const op = "fetch event detail"
	var resp eventDetailResponse
	if err := g.do(ctx, op, http.MethodGet, "/api/events/"+url.PathEscape(eventID), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Event == nil {
		return nil, &domain.GatewayError{Op: op, Kind: domain.KindMalformed, Message: "event missing from response"}
	}
	detail := &domain.EventDetail{
		Event:        resp.Event.toDomain(),
		Participants: make([]domain.Participant, 0, len(resp.Participants)),
	}
	for _, d := range resp.Participants {
		detail.Participants = append(detail.Participants, d.toDomain(detail.Event.ID))
	}
	return detail, nil
}

func (g *httpGateway) FetchEventCameras(ctx context.Context, eventID string) ([]domain.Camera, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
	}
	var resp camerasResponse
	path := "/api/events/" + url.PathEscape(eventID) + "/cameras"
	if err := g.do(ctx, "fetch event cameras", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return camerasToDomain(resp.Cameras), nil
}

func (g *httpGateway) FetchCameras(ctx context.Context) ([]domain.Camera, error) {
	var resp camerasResponse
	if err := g.do(ctx, "fetch cameras", http.MethodGet, "/api/cameras", nil, nil, &resp); err != nil {
		return nil, err
	}
	return camerasToDomain(resp.Cameras), nil
}

func (g *httpGateway) FetchEventStats(ctx context.Context) (*domain.EventStats, error) {
	var resp statsResponse
	if err := g.do(ctx, "fetch event stats", http.MethodGet, "/api/events/stats/summary", nil, nil, &resp); err != nil {
		return nil, err
	}
	stats := resp.Stats
	return &stats, nil
}

func (g *httpGateway) MarkAttendance(ctx context.Context, req domain.MarkAttendanceRequest) (domain.Ack, error) {
	if err := domain.Validate(req); err != nil {
		return domain.Ack{}, err
	}
	path := "/api/events/" + url.PathEscape(req.EventID) + "/attendance"
	return g.ack(ctx, "mark attendance", http.MethodPost, path, markAttendanceBody{EmployeeID: req.EmployeeID})
}

func (g *httpGateway) LinkCamera(ctx context.Context, req domain.CameraLinkRequest) (domain.Ack, error) {
	if err := domain.Validate(req); err != nil {
		return domain.Ack{}, err
	}
	path := "/api/events/" + url.PathEscape(req.EventID) + "/cameras"
	return g.ack(ctx, "link camera", http.MethodPost, path, linkCameraBody{CameraID: req.CameraID})
}

func (g *httpGateway) UnlinkCamera(ctx context.Context, req domain.CameraLinkRequest) (domain.Ack, error) {
	if err := domain.Validate(req); err != nil {
		return domain.Ack{}, err
	}
	path := "/api/events/" + url.PathEscape(req.EventID) + "/cameras/" + url.PathEscape(req.CameraID)
	return g.ack(ctx, "unlink camera", http.MethodDelete, path, nil)
}

func (g *httpGateway) DeleteEvent(ctx context.Context, eventID string) (domain.Ack, error) {
	if strings.TrimSpace(eventID) == "" {
		return domain.Ack{}, fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
	}
	return g.ack(ctx, "delete event", http.MethodDelete, "/api/events/"+url.PathEscape(eventID), nil)
}

func (g *httpGateway) FetchEmployees(ctx context.Context) ([]domain.Employee, error) {
	var resp employeesResponse
	if err := g.do(ctx, "fetch employees", http.MethodGet, "/api/employees", nil, nil, &resp); err != nil {
		return nil, err
	}
	employees := make([]domain.Employee, 0, len(resp.Employees))
	for _, d := range resp.Employees {
		employees = append(employees, d.toDomain())
	}
	return employees, nil
}

func (g *httpGateway) DeleteEmployee(ctx context.Context, employeeID string) (domain.Ack, error) {
	if strings.TrimSpace(employeeID) == "" {
		return domain.Ack{}, fmt.Errorf("%w: employee_id is required", domain.ErrInvalidInput)
	}
	return g.ack(ctx, "delete employee", http.MethodDelete, "/api/employees/"+url.PathEscape(employeeID), nil)
}

func (g *httpGateway) FetchAttendanceLogs(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceLog, error) {
	q := url.Values{}
	if date := strings.TrimSpace(filter.Date); date != "" {
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		q.Set("date", date)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		q.Set("search", search)
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	var resp attendanceLogsResponse
	if err := g.do(ctx, "fetch attendance logs", http.MethodGet, "/api/attendance", q, nil, &resp); err != nil {
		return nil, err
	}
	logs := make([]domain.AttendanceLog, 0, len(resp.Logs))
	for _, d := range resp.Logs {
		logs = append(logs, d.toDomain())
	}
	return logs, nil
}

func (g *httpGateway) ExportURL(req domain.ExportRequest) (string, error) {
	if _, err := status.ExportExtension(req.Format); err != nil {
		return "", err
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))

	var path string
	switch req.Kind {
	case domain.ExportAttendance:
		path = "/api/attendance/export/" + format
	case domain.ExportEvent:
		if strings.TrimSpace(req.EventID) == "" {
			return "", fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
		}
		path = "/api/events/" + url.PathEscape(req.EventID) + "/export/" + format
	default:
		return "", fmt.Errorf("%w: unknown export kind %q", domain.ErrInvalidInput, req.Kind)
	}

	q := url.Values{}
	if date := strings.TrimSpace(req.Date); date != "" {
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			return "", fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		q.Set("date", date)
	}
	u := g.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u, nil
}

func (g *httpGateway) FetchNotificationStatus(ctx context.Context) (*domain.NotificationStatus, error) {
	var resp notificationStatusResponse
	if err := g.do(ctx, "fetch notification status", http.MethodGet, "/api/notifications/status", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &domain.NotificationStatus{
		EmailEnabled: resp.EmailEnabled,
		Settings:     resp.Settings,
	}, nil
}

func (g *httpGateway) SendTestEmail(ctx context.Context, req domain.EmailRequest) (domain.Ack, error) {
	if err := domain.Validate(&req); err != nil {
		return domain.Ack{}, err
	}
	return g.ack(ctx, "send test email", http.MethodPost, "/api/notifications/test-email", emailBody{Email: req.Email})
}

func (g *httpGateway) SendDailySummary(ctx context.Context, req domain.EmailRequest) (domain.Ack, error) {
	if err := domain.Validate(&req); err != nil {
		return domain.Ack{}, err
	}
	return g.ack(ctx, "send daily summary", http.MethodPost, "/api/notifications/daily-summary", emailBody{Email: req.Email})
}

func (g *httpGateway) ack(ctx context.Context, op, method, path string, body any) (domain.Ack, error) {
	var resp ackResponse
	if err := g.do(ctx, op, method, path, nil, body, &resp); err != nil {
		return domain.Ack{}, err
	}
	return domain.Ack{Message: strings.TrimSpace(resp.Message)}, nil
}

// do executes one request and decodes the response into out. Every failure is
// returned as a *domain.GatewayError.
func (g *httpGateway) do(ctx context.Context, op, method, path string, query url.Values, in any, out enveloped) error {
	var bodyReader io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &domain.GatewayError{Op: op, Kind: domain.KindMalformed, Message: "could not encode request", Err: err}
		}
		bodyReader = bytes.NewReader(b)
	}

	fullURL := g.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return &domain.GatewayError{Op: op, Kind: domain.KindTransport, Message: "could not build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &domain.GatewayError{Op: op, Kind: domain.KindTransport, Message: transportMessage(err), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.GatewayError{Op: op, Kind: domain.KindTransport, Message: "connection lost while reading the response", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		msg := ""
		if json.Unmarshal(raw, &env) == nil {
			msg = env.errorMessage()
		}
		if msg == "" {
			msg = fmt.Sprintf("server returned status %d", resp.StatusCode)
		}
		return &domain.GatewayError{Op: op, Kind: domain.KindStatus, Message: msg, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.GatewayError{Op: op, Kind: domain.KindMalformed, Message: "unexpected response from server", StatusCode: resp.StatusCode, Err: err}
	}
	env := out.env()
	if env.Success == nil {
		return &domain.GatewayError{Op: op, Kind: domain.KindMalformed, Message: "unexpected response from server", StatusCode: resp.StatusCode}
	}
	if !*env.Success {
		msg := env.errorMessage()
		if msg == "" {
			msg = "request was rejected by the server"
		}
		return &domain.GatewayError{Op: op, Kind: domain.KindRejected, Message: msg, StatusCode: resp.StatusCode}
	}
	return nil
}

func transportMessage(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "the attendance service did not respond in time"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return "could not reach the attendance service"
}

func camerasToDomain(in []cameraDTO) []domain.Camera {
	out := make([]domain.Camera, 0, len(in))
	for _, d := range in {
		out = append(out, d.toDomain())
	}
	return out
}
