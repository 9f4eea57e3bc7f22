// Package processor contains the pluggable per-event processing units the
// stream consumer dispatches decoded events to.
package processor

import (
	"context"
	"encoding/json"
)

// EventProcessor processes one decoded stream event. Implementations own
// their validation, persistence and retry behavior; an error returned here
// means the event was dropped after the processor gave up on it.
type EventProcessor interface {
	Process(ctx context.Context, event []byte) error
}

// EventKey extracts the event's uuid field for log correlation. Best effort:
// returns "unknown" when the payload has no usable uuid.
func EventKey(event []byte) string {
	var probe struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(event, &probe); err != nil || probe.UUID == "" {
		return "unknown"
	}
	return probe.UUID
}
