package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"attendanceclient/internal/cache"
	"attendanceclient/internal/domain"
	"attendanceclient/internal/filter"
	"attendanceclient/internal/status"
)

// ExportLink is a report download: the URL to open and the name to save it under.
type ExportLink struct {
	URL      string
	Filename string
}

// buildExport validates the format, then derives the filename and the URL. Nothing
// is requested; the caller hands the URL to a downloader.
func buildExport(gw domain.RemoteGateway, req domain.ExportRequest, filenameDate string) (ExportLink, error) {
	name, err := status.ExportFilename(req.Kind, filenameDate, req.Format)
	if err != nil {
		return ExportLink{}, err
	}
	u, err := gw.ExportURL(req)
	if err != nil {
		return ExportLink{}, fmt.Errorf("build export url: %w", err)
	}
	return ExportLink{URL: u, Filename: name}, nil
}

// AttendanceLogRow is one rendered attendance log entry.
type AttendanceLogRow struct {
	Log   domain.AttendanceLog
	Class status.Class
}

// AttendanceLogScreen lists the attendance logs of one day with text and status filters.
type AttendanceLogScreen struct {
	deps Deps
	logs *cache.EntityCache[domain.AttendanceLog]
	view *syncedView[[]domain.AttendanceLog]
}

// NewAttendanceLogScreen returns an unloaded log screen for date (YYYY-MM-DD, empty
// for today).
func NewAttendanceLogScreen(deps Deps, date string, opts ...filter.Option) *AttendanceLogScreen {
	if strings.TrimSpace(date) == "" {
		date = time.Now().Format(domain.DateLayout)
	}
	s := &AttendanceLogScreen{
		deps: deps,
		logs: cache.New[domain.AttendanceLog](),
	}
	s.view = newSyncedView("attendance logs", deps, filter.State{Date: date}, s.fetch, s.logs.Replace, opts...)
	return s
}

func (s *AttendanceLogScreen) fetch(ctx context.Context, st filter.State) ([]domain.AttendanceLog, error) {
	return s.deps.Gateway.FetchAttendanceLogs(ctx, domain.AttendanceFilter{
		Date:   st.Date,
		Search: strings.TrimSpace(st.Query),
		Status: domain.AttendanceStatus(st.Status),
	})
}

// Load fetches the logs for the current filter state.
func (s *AttendanceLogScreen) Load(ctx context.Context) error {
	return s.view.Refresh(ctx)
}

// SetDate selects the day and reloads immediately.
func (s *AttendanceLogScreen) SetDate(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	s.view.pipeline.SetDate(ctx, date)
	return nil
}

// SetSearch records the search text; the reload happens once typing settles.
func (s *AttendanceLogScreen) SetSearch(ctx context.Context, text string) {
	s.view.pipeline.SetQuery(ctx, text)
}

// SetStatus selects the status facet and reloads. "all" clears it.
func (s *AttendanceLogScreen) SetStatus(ctx context.Context, value string) error {
	st, ok := domain.ParseAttendanceStatus(value)
	if !ok {
		return fmt.Errorf("%w: unknown attendance status %q", domain.ErrInvalidInput, value)
	}
	s.view.pipeline.SetStatus(ctx, string(st))
	return nil
}

// Filter returns the active filter state.
func (s *AttendanceLogScreen) Filter() filter.State {
	return s.view.pipeline.State()
}

// SearchPending reports whether a debounced search is waiting to fire.
func (s *AttendanceLogScreen) SearchPending() bool {
	return s.view.pipeline.Pending()
}

// Logs returns the cached logs.
func (s *AttendanceLogScreen) Logs() []domain.AttendanceLog {
	return s.logs.Items()
}

// Version changes each time the log list is replaced by a fetch.
func (s *AttendanceLogScreen) Version() uint64 {
	return s.logs.Version()
}

// LastError is the last fetch failure, nil once a fetch succeeds.
func (s *AttendanceLogScreen) LastError() error {
	return s.view.LastError()
}

// Header is the list caption, e.g. "12 records".
func (s *AttendanceLogScreen) Header() string {
	return status.RecordCountLabel(s.logs.Len())
}

// Rows renders the cached logs with their status class.
func (s *AttendanceLogScreen) Rows() []AttendanceLogRow {
	logs := s.logs.Items()
	rows := make([]AttendanceLogRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, AttendanceLogRow{Log: l, Class: status.AttendanceLogClass(l.Status)})
	}
	return rows
}

// Export builds the attendance report download for the active date.
func (s *AttendanceLogScreen) Export(format string) (ExportLink, error) {
	date := s.view.pipeline.State().Date
	return buildExport(s.deps.Gateway, domain.ExportRequest{
		Kind:   domain.ExportAttendance,
		Format: format,
		Date:   date,
	}, date)
}

// Close cancels any pending debounced search and drops the cached logs.
func (s *AttendanceLogScreen) Close() {
	s.view.close(s.logs.Invalidate)
}
