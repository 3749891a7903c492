// Package filter composes fetch queries from a screen's filter state and decides
// when to issue them.
package filter

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period applied to free-text input.
const DefaultDebounce = 500 * time.Millisecond

// State is the active filter state of one screen. Empty fields mean "no filter".
type State struct {
	Date   string
	Query  string
	Status string
}

// Query is a fetch request built from State. Token identifies the request; only the
// result of the latest token may be applied to a cache.
type Query struct {
	State State
	Token uint64
}

// ReloadFunc issues the fetch for q.
type ReloadFunc func(ctx context.Context, q Query)

// Timer is a pending debounce timer.
type Timer interface {
	Stop() bool
}

// Scheduler arms timers. The default uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDebounce overrides the free-text quiet period.
func WithDebounce(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.debounce = d
		}
	}
}

// WithScheduler overrides the timer source.
func WithScheduler(s Scheduler) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.scheduler = s
		}
	}
}

// Pipeline owns the filter state of one screen. Date and status changes reload
// immediately; text changes reload once input settles for the debounce period.
type Pipeline struct {
	mu        sync.Mutex
	state     State
	token     uint64
	armSeq    uint64
	pending   Timer
	debounce  time.Duration
	scheduler Scheduler
	reload    ReloadFunc
}

// New returns a Pipeline starting at initial. reload is called for every issued query.
func New(initial State, reload ReloadFunc, opts ...Option) *Pipeline {
	p := &Pipeline{
		state:     initial,
		debounce:  DefaultDebounce,
		scheduler: timeScheduler{},
		reload:    reload,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current filter state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetDate selects a single date and reloads immediately.
func (p *Pipeline) SetDate(ctx context.Context, date string) {
	p.mu.Lock()
	p.cancelPendingLocked()
	p.state.Date = strings.TrimSpace(date)
	q := p.issueLocked()
	p.mu.Unlock()
	p.reload(ctx, q)
}

// SetStatus selects the status facet and reloads immediately. "" or "all" clears it.
func (p *Pipeline) SetStatus(ctx context.Context, status string) {
	status = strings.TrimSpace(status)
	if strings.EqualFold(status, "all") {
		status = ""
	}
	p.mu.Lock()
	p.cancelPendingLocked()
	p.state.Status = status
	q := p.issueLocked()
	p.mu.Unlock()
	p.reload(ctx, q)
}

// SetQuery records the current free text and schedules a reload after the quiet
// period. A newer call supersedes the pending one; when the timer expires the reload
// is suppressed unless the text is still the one that armed it.
func (p *Pipeline) SetQuery(ctx context.Context, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelPendingLocked()
	p.state.Query = text
	// any fetch issued before this keystroke is now stale
	p.token++

	p.armSeq++
	seq := p.armSeq
	p.pending = p.scheduler.AfterFunc(p.debounce, func() {
		p.fire(ctx, seq, text)
	})
}

// Refresh reloads with the current state, e.g. after a failed fetch.
func (p *Pipeline) Refresh(ctx context.Context) {
	p.reload(ctx, p.Issue())
}

// Issue builds a query for the current state without calling the reload func.
// Callers that need the fetch error (reconciliation after a mutation) run the
// fetch themselves and still honor IsLatest.
func (p *Pipeline) Issue() Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelPendingLocked()
	return p.issueLocked()
}

// IsLatest reports whether token belongs to the most recent query; results of
// older tokens must be discarded.
func (p *Pipeline) IsLatest(token uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return token == p.token
}

// ApplyIfLatest runs apply while holding the pipeline lock, and only if token is still
// the latest. No query can be issued while apply runs, so a result that passes the
// check cannot land on top of a newer one. apply must not call back into p.
func (p *Pipeline) ApplyIfLatest(token uint64, apply func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.token {
		return false
	}
	apply()
	return true
}

// Pending reports whether a debounced reload is armed.
func (p *Pipeline) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

// Close cancels any pending debounced reload and makes every issued query stale.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.cancelPendingLocked()
	p.token++
	p.mu.Unlock()
}

func (p *Pipeline) fire(ctx context.Context, seq uint64, text string) {
	p.mu.Lock()
	if seq != p.armSeq || p.state.Query != text {
		p.mu.Unlock()
		return
	}
	p.pending = nil
	q := p.issueLocked()
	p.mu.Unlock()
	p.reload(ctx, q)
}

func (p *Pipeline) cancelPendingLocked() {
	if p.pending != nil {
		p.pending.Stop()
		p.pending = nil
	}
	// a timer that already fired but is waiting on the lock sees a different seq
	p.armSeq++
}

func (p *Pipeline) issueLocked() Query {
	p.token++
	return Query{State: p.state, Token: p.token}
}
