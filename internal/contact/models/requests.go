package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PhoneNumber accepts either a JSON string or a JSON number; numeric values
// are coerced to their decimal string representation before storage.
type PhoneNumber string

func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		*p = ""
	case string:
		*p = PhoneNumber(value)
	case json.Number:
		*p = PhoneNumber(value.String())
	default:
		return fmt.Errorf("phoneNumber must be a string or number, got %T", v)
	}
	return nil
}

// IdentifyRequest is the body of POST /identify and POST /api/contacts.
type IdentifyRequest struct {
	Email       *string      `json:"email"`
	PhoneNumber *PhoneNumber `json:"phoneNumber"`
}

// EmailValue returns the trimmed email, or nil when absent or empty.
func (r IdentifyRequest) EmailValue() *string {
	return normalize(r.Email)
}

// PhoneValue returns the trimmed phone number, or nil when absent or empty.
func (r IdentifyRequest) PhoneValue() *string {
	if r.PhoneNumber == nil {
		return nil
	}
	s := string(*r.PhoneNumber)
	return normalize(&s)
}

func normalize(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
