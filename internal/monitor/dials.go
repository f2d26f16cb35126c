package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DialSummary is the subset of a dial list entry the monitor needs.
type DialSummary struct {
	UID  string `json:"uid"`
	Name string `json:"dial_name"`
}

type listEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// parseDialList accepts either the server envelope {"status","message","data":[...]}
// or a bare JSON array of dial entries.
func parseDialList(body []byte) ([]DialSummary, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, errors.New("empty dial list response")
	}

	raw := []byte(trimmed)
	if strings.HasPrefix(trimmed, "{") {
		var env listEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decode dial list envelope: %w", err)
		}
		if env.Status != "" && !strings.EqualFold(env.Status, "ok") {
			return nil, fmt.Errorf("dial list status %q: %s", env.Status, env.Message)
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return nil, nil
		}
		raw = env.Data
	}

	var dials []DialSummary
	if err := json.Unmarshal(raw, &dials); err != nil {
		return nil, fmt.Errorf("decode dial list: %w", err)
	}

	out := dials[:0]
	for _, d := range dials {
		d.UID = strings.TrimSpace(d.UID)
		if d.UID == "" {
			continue
		}
		d.Name = strings.TrimSpace(d.Name)
		out = append(out, d)
	}
	return out, nil
}
