package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"attendanceclient/internal/filter"

	"github.com/stretchr/testify/assert"
)

// A result that passed the token check must finish storing before a newer query
// can be issued, so it can never overwrite the newer result.
func TestSyncedView_StoreIsAtomicWithTokenCheck(t *testing.T) {
	deps := Deps{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Notifier: &RecordingNotifier{}}

	var (
		mu     sync.Mutex
		stored []string
	)
	day1Storing := make(chan struct{})
	releaseDay1 := make(chan struct{})

	fetch := func(_ context.Context, st filter.State) (string, error) { return st.Date, nil }
	store := func(date string) {
		if date == "day1" {
			close(day1Storing)
			<-releaseDay1
		}
		mu.Lock()
		stored = append(stored, date)
		mu.Unlock()
	}
	v := newSyncedView("logs", deps, filter.State{}, fetch, store)
	ctx := context.Background()

	day1Done := make(chan struct{})
	go func() {
		defer close(day1Done)
		v.pipeline.SetDate(ctx, "day1")
	}()
	<-day1Storing

	day2Done := make(chan struct{})
	go func() {
		defer close(day2Done)
		v.pipeline.SetDate(ctx, "day2")
	}()

	// day2 cannot be issued while day1 is storing
	select {
	case <-day2Done:
		t.Fatal("newer query completed while an older result was being stored")
	case <-time.After(50 * time.Millisecond):
	}

	close(releaseDay1)
	<-day1Done
	<-day2Done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"day1", "day2"}, stored)
}

func TestSyncedView_StaleFetchIsNotStored(t *testing.T) {
	deps := Deps{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Notifier: &RecordingNotifier{}}

	var stored []string
	var v *syncedView[string]
	fetch := func(ctx context.Context, st filter.State) (string, error) {
		if st.Date == "day1" {
			// a newer selection arrives while day1 is in flight
			v.pipeline.SetDate(ctx, "day2")
		}
		return st.Date, nil
	}
	v = newSyncedView("logs", deps, filter.State{}, fetch, func(d string) { stored = append(stored, d) })

	v.pipeline.SetDate(context.Background(), "day1")

	assert.Equal(t, []string{"day2"}, stored)
	assert.NoError(t, v.LastError())
}
