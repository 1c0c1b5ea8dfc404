package models

import "time"

// SOSActivateRequest carries the device-reported state at the moment the
// user confirms activation: whether foreground location permission was
// granted and the freshest position sample available on the device.
type SOSActivateRequest struct {
	PermissionGranted bool     `json:"permission_granted"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	Accuracy          *float64 `json:"accuracy_m,omitempty"`
}

// SOSPositionRequest is one position sample pushed by the device while
// an SOS session is active.
type SOSPositionRequest struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy_m,omitempty"`
}

// SOSActivationReport enumerates which activation steps succeeded so the
// presentation layer can decide what to surface instead of the flow
// silently swallowing failures.
type SOSActivationReport struct {
	Activated         bool      `json:"activated"`
	PermissionGranted bool      `json:"permission_granted"`
	StatusPublished   bool      `json:"status_published"`
	ContactsNotified  bool      `json:"contacts_notified"`
	NotifiedCount     int       `json:"notified_count"`
	SkippedContacts   int       `json:"skipped_contacts"`
	Place             string    `json:"place,omitempty"`
	SMSDeepLink       string    `json:"sms_deep_link,omitempty"`
	StartedAt         time.Time `json:"started_at,omitempty"`
}

// SOSDeactivationReport summarizes the deactivate transition.
type SOSDeactivationReport struct {
	WasActive       bool `json:"was_active"`
	WatchReleased   bool `json:"watch_released"`
	StatusPublished bool `json:"status_published"`
}

// SOSStatusResponse describes the current session for the emergency screen.
type SOSStatusResponse struct {
	Active           bool       `json:"active"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	Elapsed          string     `json:"elapsed,omitempty"`
	Location         string     `json:"location,omitempty"`
	LastUpdate       *time.Time `json:"last_update,omitempty"`
	ActivatePrompt   string     `json:"activate_prompt"`
	DeactivatePrompt string     `json:"deactivate_prompt"`
}
