// Package audit records what the recommendation engine was asked and what it
// answered. Events are operational: they are sampled, buffered and shipped
// off the request path, and losing one never fails a request.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names a recorded operation.
type Action string

const (
	ActionRecommendationScored Action = "recommendation_scored"
)

// Event is one recorded recommendation. Field names are the wire format
// used by every sink.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Action       Action    `json:"action"`
	RequestID    string    `json:"request_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	TemperatureF float64   `json:"temperature_f"`
	Conditions   []string  `json:"conditions"`
	ProductCount int       `json:"product_count"`
	TopProduct   string    `json:"top_product,omitempty"`
	TopScore     float64   `json:"top_score"`
	ClientIP     string    `json:"client_ip,omitempty"`
	APIVersion   string    `json:"api_version,omitempty"`
}

// Prepare fills the ID and timestamp when the caller left them empty.
func (e *Event) Prepare(now time.Time) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
}

// Store is a sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Emitter is what domain services depend on.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
