package domain

import (
	"net/mail"
	"strings"
)

// NotificationSettings is the server's email notification configuration.
// The client reads it but never writes it.
type NotificationSettings struct {
	SMTPHost            string `json:"smtp_host"`
	SMTPPort            int    `json:"smtp_port"`
	SMTPUser            string `json:"smtp_user"`
	FromEmail           string `json:"from_email"`
	FromName            string `json:"from_name"`
	NotifyLateArrival   bool   `json:"notify_late_arrival"`
	NotifyCheckIn       bool   `json:"notify_check_in"`
	NotifyRegistration  bool   `json:"notify_registration"`
	DailySummaryEnabled bool   `json:"daily_summary_enabled"`
	DailySummaryTime    string `json:"daily_summary_time"`
}

// NotificationStatus is the singleton snapshot returned by the notification status fetch.
type NotificationStatus struct {
	EmailEnabled bool                 `json:"email_enabled"`
	Settings     NotificationSettings `json:"settings"`
}

// EmailRequest addresses a test email or a daily summary.
type EmailRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (r *EmailRequest) Validate() []string {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return []string{"email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return []string{"email must be a valid address"}
	}
	r.Email = email
	return nil
}

// Ack is the success branch of a mutation; Message is optional.
type Ack struct {
	Message string `json:"message,omitempty"`
}

// Identity is the authenticated user the client acts for.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Roles  []string
}

// IdentityReader extracts the authenticated identity from a bearer token.
type IdentityReader interface {
	Read(token string) (*Identity, error)
}
