package models

import (
	"time"
)

// Event types published on the risk topic.
const (
	EventMilestonePastDue = "milestone.past_due"
	EventMilestoneAtRisk  = "milestone.at_risk"
)

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // milestone.past_due, milestone.at_risk
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// DatasetSummary describes an uploaded milestone sheet.
type DatasetSummary struct {
	ID         string    `json:"id"`
	Studies    int       `json:"studies"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	UploadedAt time.Time `json:"uploaded_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}
