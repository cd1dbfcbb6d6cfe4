package identity

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrEmptyPayload = errors.New("identity payload is empty")

// Payload is the content of an employee's identity QR code.
type Payload struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	DepartmentID string  `json:"departmentId"`
	Phone        *string `json:"phone,omitempty"`
}

// Encode renders the payload as compact JSON.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses a scanned payload. Older cards carry only the bare employee
// id, so anything that is not a JSON object is taken as an id.
func Decode(raw string) (Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Payload{}, ErrEmptyPayload
	}

	if strings.HasPrefix(raw, "{") {
		var p Payload
		if err := json.Unmarshal([]byte(raw), &p); err == nil && p.ID != "" {
			return p, nil
		}
	}

	return Payload{ID: strings.Trim(raw, `"`)}, nil
}
