package services

import (
	"context"
	"fmt"

	"attendanceclient/internal/cache"
	"attendanceclient/internal/domain"
	"attendanceclient/internal/filter"
	"attendanceclient/internal/status"
)

// EventRow is one rendered line of the event list.
type EventRow struct {
	Event    domain.Event
	Class    status.Class
	Rate     int
	RateText string
}

// EventListScreen is the event overview with a status facet.
type EventListScreen struct {
	deps   Deps
	events *cache.EntityCache[domain.Event]
	view   *syncedView[[]domain.Event]
}

// NewEventListScreen returns an unloaded event list. Call Load to fetch.
func NewEventListScreen(deps Deps, opts ...filter.Option) *EventListScreen {
	s := &EventListScreen{
		deps:   deps,
		events: cache.New[domain.Event](),
	}
	s.view = newSyncedView("events", deps, filter.State{}, s.fetch, s.events.Replace, opts...)
	return s
}

func (s *EventListScreen) fetch(ctx context.Context, st filter.State) ([]domain.Event, error) {
	return s.deps.Gateway.FetchEvents(ctx, domain.EventFilter{Status: domain.EventStatus(st.Status)})
}

// Load fetches the events for the current facet.
func (s *EventListScreen) Load(ctx context.Context) error {
	return s.view.Refresh(ctx)
}

// SetStatus changes the status facet and reloads. "all" clears it.
func (s *EventListScreen) SetStatus(ctx context.Context, value string) error {
	st, ok := domain.ParseEventStatus(value)
	if !ok {
		return fmt.Errorf("%w: unknown event status %q", domain.ErrInvalidInput, value)
	}
	s.view.pipeline.SetStatus(ctx, string(st))
	return nil
}

// Filter returns the active filter state.
func (s *EventListScreen) Filter() filter.State {
	return s.view.pipeline.State()
}

// Events returns the cached events.
func (s *EventListScreen) Events() []domain.Event {
	return s.events.Items()
}

// Version changes each time the list is replaced by a fetch.
func (s *EventListScreen) Version() uint64 {
	return s.events.Version()
}

// LastError is the last fetch failure, nil once a fetch succeeds.
func (s *EventListScreen) LastError() error {
	return s.view.LastError()
}

// Rows renders the cached events with the list attendance rate.
func (s *EventListScreen) Rows() []EventRow {
	events := s.events.Items()
	rows := make([]EventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, EventRow{
			Event:    e,
			Class:    status.EventClass(e.Status),
			Rate:     status.ListRate(e.AttendedCount, e.TotalParticipants),
			RateText: status.FormatListRate(e.AttendedCount, e.TotalParticipants),
		})
	}
	return rows
}

// DeleteEventKey is the in-flight key used for deleting eventID.
func DeleteEventKey(eventID string) string {
	return "event:" + eventID + ":delete"
}

// DeleteEvent asks for confirmation, deletes the event remotely and reloads the list.
func (s *EventListScreen) DeleteEvent(ctx context.Context, eventID string) (Outcome, error) {
	if eventID == "" {
		return OutcomeFailed, fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	name := eventID
	if e, ok := s.events.Find(func(e domain.Event) bool { return e.ID == eventID }); ok {
		name = e.Name
	}
	return s.deps.Coordinator.Execute(ctx, Mutation{
		Action:         "delete event",
		Key:            DeleteEventKey(eventID),
		Prompt:         fmt.Sprintf("Delete event %q? This cannot be undone.", name),
		SuccessMessage: "Event deleted",
		Do: func(ctx context.Context) (domain.Ack, error) {
			return s.deps.Gateway.DeleteEvent(ctx, eventID)
		},
		Reload: s.view.reconcile,
	})
}

// LoadStats fetches the server-side summary across all events.
func (s *EventListScreen) LoadStats(ctx context.Context) (*domain.EventStats, error) {
	stats, err := s.deps.Gateway.FetchEventStats(ctx)
	if err != nil {
		s.deps.Logger.WarnContext(ctx, "fetch failed", "view", "event stats", "err", err)
		s.deps.Notifier.Notify(ctx, Notice{
			Level:   NoticeFailure,
			Message: domain.UserMessage(err, "Failed to load event stats"),
		})
		return nil, fmt.Errorf("fetch event stats: %w", err)
	}
	return stats, nil
}

// Close cancels any pending reload and drops the cached events.
func (s *EventListScreen) Close() {
	s.view.close(s.events.Invalidate)
}
