package services

import (
	"context"
	"log/slog"
	"sync"
)

// NoticeLevel is the severity of a user-visible notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeFailure NoticeLevel = "failure"
)

// Notice is a transient, user-visible acknowledgment.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier surfaces notices to the user (snackbar, toast, console line).
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Confirmer is the yes/no gate in front of destructive or state-advancing actions.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier that writes notices to logger.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(ctx context.Context, notice Notice) {
	if notice.Level == NoticeFailure {
		n.logger.WarnContext(ctx, notice.Message, "notice", notice.Level)
		return
	}
	n.logger.InfoContext(ctx, notice.Message, "notice", notice.Level)
}

// RecordingNotifier keeps every notice in memory. Useful for screens that render
// notices from a list and for tests.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *RecordingNotifier) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// Notices returns a copy of the recorded notices.
func (r *RecordingNotifier) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *RecordingNotifier) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
