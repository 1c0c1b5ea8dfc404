package models

import "time"

// IncidentType represents the kind of safety concern being reported.
type IncidentType string

const (
	IncidentUnsafeArea IncidentType = "unsafe_area"
	IncidentTheft      IncidentType = "theft"
	IncidentHarassment IncidentType = "harassment"
	IncidentScam       IncidentType = "scam"
	IncidentAccident   IncidentType = "accident"
	IncidentOther      IncidentType = "other"
)

// IncidentSeverity represents how serious the report is.
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

// Incident is a user-submitted safety report.
type Incident struct {
	ID          int64            `json:"id" db:"id"`
	Type        IncidentType     `json:"type" db:"type"`
	Latitude    float64          `json:"latitude" db:"latitude"`
	Longitude   float64          `json:"longitude" db:"longitude"`
	Severity    IncidentSeverity `json:"severity" db:"severity"`
	ReporterID  string           `json:"reporter_id" db:"reporter_id"`
	Description *string          `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// IncidentCreateRequest represents the report-incident submission.
type IncidentCreateRequest struct {
	Type        IncidentType     `json:"type"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Severity    IncidentSeverity `json:"severity"`
	Description *string          `json:"description,omitempty"`
}
