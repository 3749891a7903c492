package services

import (
	"context"
	"fmt"
	"sync"

	"attendanceclient/internal/domain"
)

const (
	testEmailKey    = "notifications:test-email"
	dailySummaryKey = "notifications:daily-summary"
)

// NotificationConfigView shows the email notification configuration and runs the
// two one-shot email actions. Neither action changes cached state.
type NotificationConfigView struct {
	deps     Deps
	identity *domain.Identity

	mu       sync.RWMutex
	snapshot *domain.NotificationStatus
}

// NewNotificationConfigView returns an unloaded view. identity, when known, pre-fills
// the daily summary recipient.
func NewNotificationConfigView(deps Deps, identity *domain.Identity) *NotificationConfigView {
	return &NotificationConfigView{deps: deps, identity: identity}
}

// Load fetches the configuration snapshot.
func (v *NotificationConfigView) Load(ctx context.Context) error {
	st, err := v.deps.Gateway.FetchNotificationStatus(ctx)
	if err != nil {
		v.deps.Logger.WarnContext(ctx, "fetch failed", "view", "notifications", "err", err)
		v.deps.Notifier.Notify(ctx, Notice{
			Level:   NoticeFailure,
			Message: domain.UserMessage(err, "Failed to load notification settings"),
		})
		return fmt.Errorf("fetch notification status: %w", err)
	}
	v.mu.Lock()
	v.snapshot = st
	v.mu.Unlock()
	return nil
}

// Status returns the loaded snapshot.
func (v *NotificationConfigView) Status() (domain.NotificationStatus, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.snapshot == nil {
		return domain.NotificationStatus{}, false
	}
	return *v.snapshot, true
}

// ActionsEnabled is true only after a snapshot with email enabled was loaded.
func (v *NotificationConfigView) ActionsEnabled() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot != nil && v.snapshot.EmailEnabled
}

// DefaultSummaryRecipient is the authenticated user's email, or "".
func (v *NotificationConfigView) DefaultSummaryRecipient() string {
	if v.identity == nil {
		return ""
	}
	return v.identity.Email
}

// TestEmailInFlight reports whether a test email is being sent.
func (v *NotificationConfigView) TestEmailInFlight() bool {
	return v.deps.Coordinator.InFlight(testEmailKey)
}

// DailySummaryInFlight reports whether a daily summary is being sent.
func (v *NotificationConfigView) DailySummaryInFlight() bool {
	return v.deps.Coordinator.InFlight(dailySummaryKey)
}

// SendTestEmail sends a test message to email.
func (v *NotificationConfigView) SendTestEmail(ctx context.Context, email string) (Outcome, error) {
	req, err := v.emailRequest(email)
	if err != nil {
		return OutcomeFailed, err
	}
	return v.deps.Coordinator.Execute(ctx, Mutation{
		Action:         "send test email",
		Key:            testEmailKey,
		SuccessMessage: "Test email sent to " + req.Email,
		Do: func(ctx context.Context) (domain.Ack, error) {
			return v.deps.Gateway.SendTestEmail(ctx, req)
		},
	})
}

// SendDailySummary sends today's attendance summary to email, or to the default
// recipient when email is empty.
func (v *NotificationConfigView) SendDailySummary(ctx context.Context, email string) (Outcome, error) {
	if email == "" {
		email = v.DefaultSummaryRecipient()
	}
	req, err := v.emailRequest(email)
	if err != nil {
		return OutcomeFailed, err
	}
	return v.deps.Coordinator.Execute(ctx, Mutation{
		Action:         "send daily summary",
		Key:            dailySummaryKey,
		SuccessMessage: "Daily summary sent to " + req.Email,
		Do: func(ctx context.Context) (domain.Ack, error) {
			return v.deps.Gateway.SendDailySummary(ctx, req)
		},
	})
}

func (v *NotificationConfigView) emailRequest(email string) (domain.EmailRequest, error) {
	if !v.ActionsEnabled() {
		return domain.EmailRequest{}, domain.ErrNotificationsDisabled
	}
	req := domain.EmailRequest{Email: email}
	if err := domain.Validate(&req); err != nil {
		return domain.EmailRequest{}, err
	}
	return req, nil
}
