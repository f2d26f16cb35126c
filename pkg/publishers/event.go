package publishers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one dial status snapshot published downstream.
type Event struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	DialUID     string          `json:"dial_uid"`
	DialName    string          `json:"dial_name,omitempty"`
	Status      json.RawMessage `json:"status"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent builds an Event for a dial. status is the raw body returned by the
// dial server; a body that is not valid JSON is carried as a JSON string.
func NewEvent(source, uid, name string, status []byte) Event {
	raw := json.RawMessage(status)
	if !json.Valid(status) {
		quoted, _ := json.Marshal(string(status))
		raw = quoted
	}
	return Event{
		ID:          uuid.NewString(),
		Source:      source,
		DialUID:     uid,
		DialName:    name,
		Status:      raw,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are the message attributes set by queue/topic publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"dial_uid": e.DialUID,
		"event_id": e.ID,
	}
}
