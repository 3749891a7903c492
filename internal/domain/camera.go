package domain

import "strings"

// CameraStatus is the connectivity state reported for a camera.
type CameraStatus string

const (
	CameraOnline  CameraStatus = "online"
	CameraOffline CameraStatus = "offline"
	CameraError   CameraStatus = "error"
)

// Camera is a capture device that can be linked to events.
// IsPrimary belongs to the camera record, not to a link.
type Camera struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	CameraType string       `json:"camera_type"`
	Location   string       `json:"location"`
	Status     CameraStatus `json:"status"`
	IsPrimary  bool         `json:"is_primary"`
}

// EventCameraLink is one (event, camera) pair. The server keeps pairs unique.
type EventCameraLink struct {
	EventID  string `json:"-"`
	CameraID string `json:"camera_id"`
}

// CameraLinkRequest is used for both link and unlink.
type CameraLinkRequest = EventCameraLink

// Validate implements Validator.
func (l EventCameraLink) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	if strings.TrimSpace(l.CameraID) == "" {
		errs = append(errs, "camera_id is required")
	}
	return errs
}
