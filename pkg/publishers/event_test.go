package publishers

import (
	"encoding/json"
	"testing"
)

func TestNewEventKeepsJSONStatus(t *testing.T) {
	evt := NewEvent("http://localhost:5340", "uid1", "CPU", []byte(`{"value":35}`))
	if evt.ID == "" || evt.CollectedAt.IsZero() {
		t.Fatalf("event id and timestamp must be set: %#v", evt)
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	status, ok := decoded["status"].(map[string]any)
	if !ok || status["value"] != float64(35) {
		t.Fatalf("status not embedded as object: %s", raw)
	}
}

func TestNewEventQuotesInvalidStatus(t *testing.T) {
	evt := NewEvent("src", "uid1", "", []byte("not json"))
	if string(evt.Status) != `"not json"` {
		t.Fatalf("invalid status should be quoted, got %s", evt.Status)
	}
	if _, err := json.Marshal(evt); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if a, b := NewEvent("s", "u", "", nil).ID, NewEvent("s", "u", "", nil).ID; a == b {
		t.Fatalf("event ids must be unique")
	}
}
