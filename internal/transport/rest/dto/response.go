package dto

import (
	"encoding/json"
	"sort"
	"strings"
)

// Response is the backend success envelope: {"success": true, "data": ..., "message": ...}.
type Response struct {
	Success bool            `json:"success"`
	Status  string          `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ErrorResponse is the backend error body. Errors is present on 422 responses.
type ErrorResponse struct {
	Success bool       `json:"success"`
	Status  string     `json:"status,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   string     `json:"error,omitempty"`
	Errors  FieldLists `json:"errors,omitempty"`
}

// Text picks the most specific human message of the body.
func (e ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// FieldLists maps a field to its messages. The backend sends either
// {"name": ["required"]} or {"name": "required"}; both decode to lists.
type FieldLists map[string][]string

func (f *FieldLists) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(FieldLists, len(raw))
	for field, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			out[field] = list
			continue
		}

		var single string
		if err := json.Unmarshal(value, &single); err != nil {
			return err
		}
		out[field] = []string{single}
	}

	*f = out
	return nil
}

// Fields returns the field names in a stable order.
func (f FieldLists) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Optional normalizes an optional string field: the trimmed value, or nil when
// the input is blank. nil is omitted from the request body.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func OptionalPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return Optional(*s)
}
