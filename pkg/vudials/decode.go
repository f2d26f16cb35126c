package vudials

import (
	"encoding/json"
	"fmt"

	"github.com/vudials/vudials-go/pkg/httpclient"
)

// DecodeJSON unmarshals a response body into v. The clients never decode
// bodies themselves.
func DecodeJSON(resp httpclient.Response, v any) error {
	if resp == nil {
		return fmt.Errorf("decode response: nil response")
	}
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
