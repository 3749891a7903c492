package services

import (
	"context"
	"io"
	"log/slog"

	"attendanceclient/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of domain.RemoteGateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) FetchEvents(ctx context.Context, f domain.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockGateway) FetchEventDetail(ctx context.Context, eventID string) (*domain.EventDetail, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventDetail), args.Error(1)
}

func (m *MockGateway) FetchEventCameras(ctx context.Context, eventID string) ([]domain.Camera, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Camera), args.Error(1)
}

func (m *MockGateway) FetchCameras(ctx context.Context) ([]domain.Camera, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Camera), args.Error(1)
}

func (m *MockGateway) FetchEventStats(ctx context.Context) (*domain.EventStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventStats), args.Error(1)
}

func (m *MockGateway) MarkAttendance(ctx context.Context, req domain.MarkAttendanceRequest) (domain.Ack, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Ack), args.Error(1)
}

func (m *MockGateway) LinkCamera(ctx context.Context, req domain.CameraLinkRequest) (domain.Ack, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Ack), args.Error(1)
}

func (m *MockGateway) UnlinkCamera(ctx context.Context, req domain.CameraLinkRequest) (domain.Ack, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Ack), args.Error(1)
}

func (m *MockGateway) DeleteEvent(ctx context.Context, eventID string) (domain.Ack, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(domain.Ack), args.Error(1)
}

func (m *MockGateway) FetchEmployees(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *MockGateway) DeleteEmployee(ctx context.Context, employeeID string) (domain.Ack, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(domain.Ack), args.Error(1)
}

func (m *MockGateway) FetchAttendanceLogs(ctx context.Context, f domain.AttendanceFilter) ([]domain.AttendanceLog, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AttendanceLog), args.Error(1)
}

func (m *MockGateway) ExportURL(req domain.ExportRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) FetchNotificationStatus(ctx context.Context) (*domain.NotificationStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationStatus), args.Error(1)
}

func (m *MockGateway) SendTestEmail(ctx context.Context, req domain.EmailRequest) (domain.Ack, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Ack), args.Error(1)
}

func (m *MockGateway) SendDailySummary(ctx context.Context, req domain.EmailRequest) (domain.Ack, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Ack), args.Error(1)
}

// testDeps wires a mock gateway, a recording notifier and a coordinator that answers
// every prompt with confirm.
func testDeps(gw *MockGateway, confirm bool) (Deps, *RecordingNotifier, *[]string) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &RecordingNotifier{}
	prompts := &[]string{}
	confirmer := ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		*prompts = append(*prompts, prompt)
		return confirm, nil
	})
	return Deps{
		Logger:      logger,
		Gateway:     gw,
		Notifier:    notifier,
		Coordinator: NewMutationCoordinator(logger, notifier, confirmer),
	}, notifier, prompts
}

func rejected(op, msg string) error {
	return &domain.GatewayError{Op: op, Kind: domain.KindRejected, Message: msg, StatusCode: 200}
}
