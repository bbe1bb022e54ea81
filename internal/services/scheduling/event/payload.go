package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConfirmedPayload describes the committed resource assignment attached to a
// schedule.confirmed event.
type ConfirmedPayload struct {
	PrimaryRoomID     string    `json:"primary_room_id"`
	AdditionalRoomIDs []string  `json:"additional_room_ids,omitempty"`
	AssistantIDs      []string  `json:"assistant_ids,omitempty"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
}

// RejectedPayload carries the mandatory rejection reason on a
// schedule.rejected event.
type RejectedPayload struct {
	Reason string `json:"reason"`
}

// MarshalPayload serializes a payload struct for embedding in an Event.
func MarshalPayload(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	return data, nil
}
