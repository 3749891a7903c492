package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"attendanceclient/internal/domain"
)

// Outcome is how a mutation ended from the user's point of view.
type Outcome int

const (
	// OutcomeDeclined means the user answered no; nothing was sent.
	OutcomeDeclined Outcome = iota
	// OutcomeSucceeded means the server acknowledged the mutation.
	OutcomeSucceeded
	// OutcomeFailed means the mutation was attempted and failed, or was refused locally.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDeclined:
		return "declined"
	case OutcomeSucceeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Mutation describes one user-initiated write.
type Mutation struct {
	// Action is a lower-case verb phrase, e.g. "delete event".
	Action string

	// Key identifies the target; a second mutation with the same key is refused while
	// the first is in flight.
	Key string

	// Prompt, when set, is shown to the Confirmer before anything is sent.
	Prompt string

	// SuccessMessage is used when the server acknowledgment carries no message.
	SuccessMessage string

	Do func(ctx context.Context) (domain.Ack, error)

	// Reload re-fetches the affected collection. Nil for mutations with no local copy.
	Reload func(ctx context.Context) error
}

// MutationCoordinator runs mutations through confirm, issue, notify and reconcile.
// The local cache is never edited in place: on success the affected collection is
// reloaded exactly once, on failure it is left untouched.
type MutationCoordinator struct {
	logger    *slog.Logger
	notifier  Notifier
	confirmer Confirmer

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewMutationCoordinator returns a coordinator. A nil confirmer accepts every prompt.
func NewMutationCoordinator(logger *slog.Logger, notifier Notifier, confirmer Confirmer) *MutationCoordinator {
	if confirmer == nil {
		confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	}
	return &MutationCoordinator{
		logger:    logger,
		notifier:  notifier,
		confirmer: confirmer,
		inFlight:  make(map[string]struct{}),
	}
}

// InFlight reports whether a mutation for key is running. Screens disable the
// corresponding control while it is.
func (c *MutationCoordinator) InFlight(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[key]
	return ok
}

// Execute runs m. The returned error is nil for declined and fully successful
// mutations; a failed reload after a successful write returns OutcomeSucceeded
// with the reload error.
func (c *MutationCoordinator) Execute(ctx context.Context, m Mutation) (Outcome, error) {
	if m.Do == nil {
		return OutcomeFailed, fmt.Errorf("%w: mutation %q has nothing to do", domain.ErrInvalidInput, m.Action)
	}
	if !c.acquire(m.Key) {
		return OutcomeFailed, fmt.Errorf("%s: %w", m.Action, domain.ErrMutationInFlight)
	}
	defer c.release(m.Key)

	if m.Prompt != "" {
		ok, err := c.confirmer.Confirm(ctx, m.Prompt)
		if err != nil {
			return OutcomeFailed, fmt.Errorf("confirm %s: %w", m.Action, err)
		}
		if !ok {
			c.logger.DebugContext(ctx, "mutation declined", "action", m.Action, "key", m.Key)
			return OutcomeDeclined, nil
		}
	}

	ack, err := m.Do(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "mutation failed", "action", m.Action, "key", m.Key, "err", err)
		c.notifier.Notify(ctx, Notice{Level: NoticeFailure, Message: failureMessage(m.Action, err)})
		return OutcomeFailed, err
	}

	c.logger.InfoContext(ctx, "mutation succeeded", "action", m.Action, "key", m.Key)
	c.notifier.Notify(ctx, Notice{Level: NoticeSuccess, Message: successMessage(m, ack)})

	if m.Reload == nil {
		return OutcomeSucceeded, nil
	}
	if err := m.Reload(ctx); err != nil {
		c.logger.WarnContext(ctx, "reload after mutation failed", "action", m.Action, "key", m.Key, "err", err)
		c.notifier.Notify(ctx, Notice{
			Level:   NoticeFailure,
			Message: domain.UserMessage(err, "Failed to refresh after "+m.Action),
		})
		return OutcomeSucceeded, fmt.Errorf("reload after %s: %w", m.Action, err)
	}
	return OutcomeSucceeded, nil
}

func (c *MutationCoordinator) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[key]; busy {
		return false
	}
	c.inFlight[key] = struct{}{}
	return true
}

func (c *MutationCoordinator) release(key string) {
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}

func failureMessage(action string, err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	return domain.UserMessage(err, "Failed to "+action)
}

func successMessage(m Mutation, ack domain.Ack) string {
	if msg := strings.TrimSpace(ack.Message); msg != "" {
		return msg
	}
	if m.SuccessMessage != "" {
		return m.SuccessMessage
	}
	return capitalize(m.Action) + " succeeded"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
