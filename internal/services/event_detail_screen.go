package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"attendanceclient/internal/cache"
	"attendanceclient/internal/domain"
	"attendanceclient/internal/filter"
	"attendanceclient/internal/status"
)

// DetailStats are the attendance figures derived from the cached participant list.
type DetailStats struct {
	Total    int
	Attended int
	Rate     float64
	RateText string
}

// ParticipantRow is one rendered participant.
type ParticipantRow struct {
	Participant domain.Participant
	Class       status.Class

	// CanMark is false for terminal states and while a mark is in flight.
	CanMark bool
}

// CameraRow is one rendered linked camera.
type CameraRow struct {
	Camera domain.Camera
	Class  status.Class
}

// EventDetailScreen shows one event, its participants and its linked cameras.
type EventDetailScreen struct {
	deps    Deps
	eventID string

	mu    sync.RWMutex
	event *domain.Event

	participants *cache.EntityCache[domain.Participant]
	linked       *cache.EntityCache[domain.Camera]
	catalog      *cache.EntityCache[domain.Camera]

	detailView  *syncedView[*domain.EventDetail]
	linkedView  *syncedView[[]domain.Camera]
	catalogView *syncedView[[]domain.Camera]
}

// NewEventDetailScreen returns an unloaded detail screen for eventID.
func NewEventDetailScreen(deps Deps, eventID string, opts ...filter.Option) *EventDetailScreen {
	s := &EventDetailScreen{
		deps:         deps,
		eventID:      eventID,
		participants: cache.New[domain.Participant](),
		linked:       cache.New[domain.Camera](),
		catalog:      cache.New[domain.Camera](),
	}
	s.detailView = newSyncedView("event", deps, filter.State{},
		func(ctx context.Context, _ filter.State) (*domain.EventDetail, error) {
			return deps.Gateway.FetchEventDetail(ctx, eventID)
		}, s.storeDetail, opts...)
	s.linkedView = newSyncedView("event cameras", deps, filter.State{},
		func(ctx context.Context, _ filter.State) ([]domain.Camera, error) {
			return deps.Gateway.FetchEventCameras(ctx, eventID)
		}, s.linked.Replace, opts...)
	s.catalogView = newSyncedView("cameras", deps, filter.State{},
		func(ctx context.Context, _ filter.State) ([]domain.Camera, error) {
			return deps.Gateway.FetchCameras(ctx)
		}, s.catalog.Replace, opts...)
	return s
}

func (s *EventDetailScreen) storeDetail(d *domain.EventDetail) {
	if d == nil {
		return
	}
	ev := d.Event
	s.mu.Lock()
	s.event = &ev
	s.mu.Unlock()
	s.participants.Replace(d.Participants)
}

// Load fetches the event with its participants, then its linked cameras and the
// camera catalog. Every failure is surfaced and the failures are returned joined.
func (s *EventDetailScreen) Load(ctx context.Context) error {
	return errors.Join(
		s.detailView.Refresh(ctx),
		s.linkedView.Refresh(ctx),
		s.catalogView.Refresh(ctx),
	)
}

// EventID is the event this screen shows.
func (s *EventDetailScreen) EventID() string {
	return s.eventID
}

// Event returns the loaded event header.
func (s *EventDetailScreen) Event() (domain.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.event == nil {
		return domain.Event{}, false
	}
	return *s.event, true
}

// Participants returns the cached participants.
func (s *EventDetailScreen) Participants() []domain.Participant {
	return s.participants.Items()
}

// ParticipantsVersion changes each time the participant list is replaced.
func (s *EventDetailScreen) ParticipantsVersion() uint64 {
	return s.participants.Version()
}

// LinkedCameras returns the cameras currently linked to the event.
func (s *EventDetailScreen) LinkedCameras() []domain.Camera {
	return s.linked.Items()
}

// LinkedVersion changes each time the linked camera list is replaced.
func (s *EventDetailScreen) LinkedVersion() uint64 {
	return s.linked.Version()
}

// AvailableCameras returns catalog cameras not yet linked to the event.
func (s *EventDetailScreen) AvailableCameras() []domain.Camera {
	linked := make(map[string]struct{}, s.linked.Len())
	for _, c := range s.linked.Items() {
		linked[c.ID] = struct{}{}
	}
	return s.catalog.Filter(func(c domain.Camera) bool {
		_, ok := linked[c.ID]
		return !ok
	})
}

// Stats recomputes the attendance figures from the cached participants.
func (s *EventDetailScreen) Stats() DetailStats {
	participants := s.participants.Items()
	attended := 0
	for _, p := range participants {
		if strings.EqualFold(string(p.Status), string(domain.ParticipantAttended)) {
			attended++
		}
	}
	return DetailStats{
		Total:    len(participants),
		Attended: attended,
		Rate:     status.DetailRate(attended, len(participants)),
		RateText: status.FormatDetailRate(attended, len(participants)),
	}
}

// ParticipantRows renders the participants with their status class.
func (s *EventDetailScreen) ParticipantRows() []ParticipantRow {
	participants := s.participants.Items()
	rows := make([]ParticipantRow, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, ParticipantRow{
			Participant: p,
			Class:       status.ParticipantClass(p.Status),
			CanMark:     p.Status.CanMarkAttended() && !s.deps.Coordinator.InFlight(MarkAttendedKey(s.eventID, p.EmployeeID)),
		})
	}
	return rows
}

// CameraRows renders the linked cameras with their status class.
func (s *EventDetailScreen) CameraRows() []CameraRow {
	cameras := s.linked.Items()
	rows := make([]CameraRow, 0, len(cameras))
	for _, c := range cameras {
		rows = append(rows, CameraRow{Camera: c, Class: status.CameraClass(c.Status)})
	}
	return rows
}

// MarkAttendedKey is the in-flight key for marking one participant.
func MarkAttendedKey(eventID, employeeID string) string {
	return "participant:" + eventID + ":" + employeeID
}

// CameraLinkKey is the in-flight key for linking or unlinking one camera.
func CameraLinkKey(eventID, cameraID string) string {
	return "camera-link:" + eventID + ":" + cameraID
}

// MarkAttended moves a participant to attended after confirmation and reloads the
// participant list. Participants already attended or absent are refused locally.
func (s *EventDetailScreen) MarkAttended(ctx context.Context, employeeID string) (Outcome, error) {
	req := domain.MarkAttendanceRequest{EventID: s.eventID, EmployeeID: strings.TrimSpace(employeeID)}
	if err := domain.Validate(req); err != nil {
		return OutcomeFailed, err
	}
	if !s.participants.Loaded() {
		return OutcomeFailed, fmt.Errorf("mark attended: %w", domain.ErrNotLoaded)
	}
	p, ok := s.participants.Find(func(p domain.Participant) bool { return p.EmployeeID == req.EmployeeID })
	if !ok {
		return OutcomeFailed, fmt.Errorf("participant %s: %w", req.EmployeeID, domain.ErrNotFound)
	}
	if !p.Status.CanMarkAttended() {
		return OutcomeFailed, domain.TransitionError(p)
	}

	return s.deps.Coordinator.Execute(ctx, Mutation{
		Action:         "mark attendance",
		Key:            MarkAttendedKey(s.eventID, req.EmployeeID),
		Prompt:         fmt.Sprintf("Mark %s as attended?", p.EmployeeName),
		SuccessMessage: "Attendance marked",
		Do: func(ctx context.Context) (domain.Ack, error) {
			return s.deps.Gateway.MarkAttendance(ctx, req)
		},
		Reload: s.detailView.reconcile,
	})
}

// LinkCamera links a camera to the event and reloads the linked cameras. No
// confirmation is asked; a duplicate link is rejected by the server.
func (s *EventDetailScreen) LinkCamera(ctx context.Context, cameraID string) (Outcome, error) {
	req := domain.CameraLinkRequest{EventID: s.eventID, CameraID: strings.TrimSpace(cameraID)}
	if err := domain.Validate(req); err != nil {
		return OutcomeFailed, err
	}
	return s.deps.Coordinator.Execute(ctx, Mutation{
		Action:         "link camera",
		Key:            CameraLinkKey(s.eventID, req.CameraID),
		SuccessMessage: "Camera linked",
		Do: func(ctx context.Context) (domain.Ack, error) {
			return s.deps.Gateway.LinkCamera(ctx, req)
		},
		Reload: s.linkedView.reconcile,
	})
}

// UnlinkCamera removes a camera from the event after confirmation and reloads the
// linked cameras.
func (s *EventDetailScreen) UnlinkCamera(ctx context.Context, cameraID string) (Outcome, error) {
	req := domain.CameraLinkRequest{EventID: s.eventID, CameraID: strings.TrimSpace(cameraID)}
	if err := domain.Validate(req); err != nil {
		return OutcomeFailed, err
	}
	name := req.CameraID
	if c, ok := s.linked.Find(func(c domain.Camera) bool { return c.ID == req.CameraID }); ok {
		name = c.Name
	}
	return s.deps.Coordinator.Execute(ctx, Mutation{
		Action:         "unlink camera",
		Key:            CameraLinkKey(s.eventID, req.CameraID),
		Prompt:         fmt.Sprintf("Unlink camera %s from this event?", name),
		SuccessMessage: "Camera unlinked",
		Do: func(ctx context.Context) (domain.Ack, error) {
			return s.deps.Gateway.UnlinkCamera(ctx, req)
		},
		Reload: s.linkedView.reconcile,
	})
}

// ExportURL builds the event report download for format.
func (s *EventDetailScreen) ExportURL(format string) (ExportLink, error) {
	date := ""
	if ev, ok := s.Event(); ok && !ev.EventDate.IsZero() {
		date = ev.EventDate.Format(domain.DateLayout)
	}
	return buildExport(s.deps.Gateway, domain.ExportRequest{
		Kind:    domain.ExportEvent,
		Format:  format,
		EventID: s.eventID,
	}, date)
}

// LastError joins the last failure of each section of the screen.
func (s *EventDetailScreen) LastError() error {
	return errors.Join(s.detailView.LastError(), s.linkedView.LastError(), s.catalogView.LastError())
}

// Close cancels pending reloads and drops every cached collection.
func (s *EventDetailScreen) Close() {
	s.detailView.close(func() {
		s.mu.Lock()
		s.event = nil
		s.mu.Unlock()
		s.participants.Invalidate()
	})
	s.linkedView.close(s.linked.Invalidate)
	s.catalogView.close(s.catalog.Invalidate)
}
