package services

import (
	"context"
	"errors"
	"testing"

	"attendanceclient/internal/domain"
	"attendanceclient/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []domain.Event {
	return []domain.Event{
		{ID: "EV1", Name: "Town Hall", Status: domain.EventUpcoming, TotalParticipants: 3, AttendedCount: 2},
		{ID: "EV2", Name: "Offsite", Status: domain.EventCompleted, TotalParticipants: 0, AttendedCount: 0},
		{ID: "EV3", Name: "Launch", Status: "postponed", TotalParticipants: 8, AttendedCount: 1},
	}
}

func TestEventListScreen_Rows(t *testing.T) {
	gw := new(MockGateway)
	gw.On("FetchEvents", mock.Anything, domain.EventFilter{}).Return(sampleEvents(), nil).Once()
	deps, _, _ := testDeps(gw, true)
	s := NewEventListScreen(deps)

	require.NoError(t, s.Load(context.Background()))
	rows := s.Rows()
	require.Len(t, rows, 3)

	assert.Equal(t, status.Info, rows[0].Class)
	assert.Equal(t, 67, rows[0].Rate)
	assert.Equal(t, "67%", rows[0].RateText)

	assert.Equal(t, status.Neutral, rows[1].Class)
	assert.Equal(t, 0, rows[1].Rate)
	assert.Equal(t, "0%", rows[1].RateText)

	assert.Equal(t, status.Neutral, rows[2].Class)
	assert.Equal(t, "13%", rows[2].RateText)
}

func TestEventListScreen_SetStatus(t *testing.T) {
	gw := new(MockGateway)
	deps, _, _ := testDeps(gw, true)
	s := NewEventListScreen(deps)

	gw.On("FetchEvents", mock.Anything, domain.EventFilter{Status: domain.EventCompleted}).
		Return(sampleEvents()[1:2], nil).Once()
	gw.On("FetchEvents", mock.Anything, domain.EventFilter{}).
		Return(sampleEvents(), nil).Once()

	require.NoError(t, s.SetStatus(context.Background(), "Completed"))
	assert.Len(t, s.Events(), 1)
	assert.Equal(t, "completed", s.Filter().Status)

	require.NoError(t, s.SetStatus(context.Background(), "all"))
	assert.Len(t, s.Events(), 3)
	assert.Empty(t, s.Filter().Status)

	require.ErrorIs(t, s.SetStatus(context.Background(), "archived"), domain.ErrInvalidInput)
	gw.AssertExpectations(t)
}

func TestEventListScreen_DeleteEvent(t *testing.T) {
	t.Run("success reloads exactly once", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("FetchEvents", mock.Anything, domain.EventFilter{}).Return(sampleEvents(), nil).Once()
		deps, notifier, prompts := testDeps(gw, true)
		s := NewEventListScreen(deps)
		require.NoError(t, s.Load(context.Background()))
		before := s.Version()

		gw.On("DeleteEvent", mock.Anything, "EV2").Return(domain.Ack{Message: "Event deleted successfully"}, nil).Once()
		gw.On("FetchEvents", mock.Anything, domain.EventFilter{}).Return([]domain.Event{sampleEvents()[0], sampleEvents()[2]}, nil).Once()

		outcome, err := s.DeleteEvent(context.Background(), "EV2")
		require.NoError(t, err)
		assert.Equal(t, OutcomeSucceeded, outcome)
		assert.Equal(t, before+1, s.Version())
		assert.Len(t, s.Events(), 2)
		assert.Equal(t, []string{`Delete event "Offsite"? This cannot be undone.`}, *prompts)
		assert.Equal(t, []Notice{{Level: NoticeSuccess, Message: "Event deleted successfully"}}, notifier.Notices())
		gw.AssertNumberOfCalls(t, "FetchEvents", 2)
	})

	t.Run("failure leaves the list untouched", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("FetchEvents", mock.Anything, domain.EventFilter{}).Return(sampleEvents(), nil).Once()
		deps, notifier, _ := testDeps(gw, true)
		s := NewEventListScreen(deps)
		require.NoError(t, s.Load(context.Background()))
		before := s.Events()
		version := s.Version()

		gw.On("DeleteEvent", mock.Anything, "EV1").Return(domain.Ack{}, errors.New("connection reset")).Once()

		outcome, err := s.DeleteEvent(context.Background(), "EV1")
		require.Error(t, err)
		assert.Equal(t, OutcomeFailed, outcome)
		assert.Equal(t, before, s.Events())
		assert.Equal(t, version, s.Version())
		assert.Equal(t, []Notice{{Level: NoticeFailure, Message: "Failed to delete event"}}, notifier.Notices())
		gw.AssertNumberOfCalls(t, "FetchEvents", 1)
	})

	t.Run("declined", func(t *testing.T) {
		gw := new(MockGateway)
		deps, _, _ := testDeps(gw, false)
		s := NewEventListScreen(deps)

		outcome, err := s.DeleteEvent(context.Background(), "EV1")
		require.NoError(t, err)
		assert.Equal(t, OutcomeDeclined, outcome)
		gw.AssertNotCalled(t, "DeleteEvent", mock.Anything, mock.Anything)
	})

	t.Run("blank id", func(t *testing.T) {
		deps, _, _ := testDeps(new(MockGateway), true)
		_, err := NewEventListScreen(deps).DeleteEvent(context.Background(), "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventListScreen_LoadStats(t *testing.T) {
	gw := new(MockGateway)
	gw.On("FetchEventStats", mock.Anything).
		Return(&domain.EventStats{TotalEvents: 4, UpcomingEvents: 2, CompletedEvents: 1, AverageAttendanceRate: 72.5}, nil).Once()
	deps, notifier, _ := testDeps(gw, true)
	s := NewEventListScreen(deps)

	stats, err := s.LoadStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalEvents)
	assert.Empty(t, notifier.Notices())

	gw.On("FetchEventStats", mock.Anything).
		Return(nil, &domain.GatewayError{Op: "fetch event stats", Kind: domain.KindTransport, Message: "Network error"}).Once()
	_, err = s.LoadStats(context.Background())
	require.Error(t, err)
	assert.Equal(t, []Notice{{Level: NoticeFailure, Message: "Network error"}}, notifier.Notices())
}

func TestEventListScreen_CloseDropsCache(t *testing.T) {
	gw := new(MockGateway)
	gw.On("FetchEvents", mock.Anything, domain.EventFilter{}).Return(sampleEvents(), nil).Once()
	deps, _, _ := testDeps(gw, true)
	s := NewEventListScreen(deps)

	require.NoError(t, s.Load(context.Background()))
	loaded := s.Version()
	require.Len(t, s.Events(), 3)

	s.Close()

	assert.Empty(t, s.Events())
	assert.Greater(t, s.Version(), loaded)
}
