package services

import (
	"context"
	"log/slog"
	"sync"

	"attendanceclient/internal/domain"
	"attendanceclient/internal/filter"
)

// Deps are the collaborators every screen shares.
type Deps struct {
	Logger      *slog.Logger
	Gateway     domain.RemoteGateway
	Notifier    Notifier
	Coordinator *MutationCoordinator
}

// syncedView keeps one server collection in step with a filter pipeline. A fetch
// result is stored only when its token is still the latest; older results, and their
// errors, are dropped.
type syncedView[R any] struct {
	name     string
	logger   *slog.Logger
	notifier Notifier
	fetch    func(ctx context.Context, st filter.State) (R, error)
	store    func(R)
	pipeline *filter.Pipeline

	mu      sync.Mutex
	lastErr error
}

func newSyncedView[R any](name string, deps Deps, initial filter.State,
	fetch func(ctx context.Context, st filter.State) (R, error), store func(R), opts ...filter.Option) *syncedView[R] {
	v := &syncedView[R]{
		name:     name,
		logger:   deps.Logger,
		notifier: deps.Notifier,
		fetch:    fetch,
		store:    store,
	}
	v.pipeline = filter.New(initial, v.reload, opts...)
	return v
}

// apply runs one fetch for q and stores the result if q is still current. The token
// check and the store happen under the pipeline lock.
func (v *syncedView[R]) apply(ctx context.Context, q filter.Query) error {
	result, err := v.fetch(ctx, q.State)
	applied := v.pipeline.ApplyIfLatest(q.Token, func() {
		v.setErr(err)
		if err == nil {
			v.store(result)
		}
	})
	if !applied {
		v.logger.DebugContext(ctx, "discarding stale result", "view", v.name, "token", q.Token)
		return nil
	}
	return err
}

// reload is the pipeline callback for filter-driven fetches.
func (v *syncedView[R]) reload(ctx context.Context, q filter.Query) {
	if err := v.apply(ctx, q); err != nil {
		v.fail(ctx, err)
	}
}

// Refresh fetches with the current filter state and surfaces a failure notice.
func (v *syncedView[R]) Refresh(ctx context.Context) error {
	err := v.apply(ctx, v.pipeline.Issue())
	if err != nil {
		v.fail(ctx, err)
	}
	return err
}

// reconcile is the post-mutation reload. The coordinator reports its failure.
func (v *syncedView[R]) reconcile(ctx context.Context) error {
	return v.apply(ctx, v.pipeline.Issue())
}

// close cancels pending reloads, orphans in-flight fetches and then runs drop.
func (v *syncedView[R]) close(drop func()) {
	v.pipeline.Close()
	drop()
}

func (v *syncedView[R]) fail(ctx context.Context, err error) {
	v.logger.WarnContext(ctx, "fetch failed", "view", v.name, "err", err)
	v.notifier.Notify(ctx, Notice{
		Level:   NoticeFailure,
		Message: domain.UserMessage(err, "Failed to load "+v.name),
	})
}

func (v *syncedView[R]) setErr(err error) {
	v.mu.Lock()
	v.lastErr = err
	v.mu.Unlock()
}

// LastError is the error of the most recent applied fetch, nil after a success.
func (v *syncedView[R]) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}
