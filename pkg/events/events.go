package events

import (
	"encoding/json"
	"strings"
)

const (
	TypeError = "error"
)

// Envelope is the JSON document published for every trigger event and error.
type Envelope struct {
	Type      string          `json:"type"`
	Trigger   string          `json:"trigger"`
	Network   string          `json:"network"`
	Data      any             `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Raw       json.RawMessage `json:"-"`
}

// Subject returns the subject an event of the given type is published on.
func Subject(prefix, eventType string) string {
	return strings.TrimSuffix(prefix, ".") + "." + eventType
}

// StreamSubjects returns the subjects the event stream must cover.
func StreamSubjects(prefix string) []string {
	return []string{strings.TrimSuffix(prefix, ".") + ".>"}
}

// MessageID is the de-duplication key for a trigger event. Re-emitting the
// same event from the same trigger yields the same id.
func MessageID(trigger, key string) string {
	return trigger + ":" + key
}

// Decode parses a published envelope, keeping Data as raw JSON in Raw.
func Decode(b []byte) (Envelope, error) {
	var aux struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return Envelope{}, err
	}
	env := aux.Envelope
	env.Raw = aux.Data
	env.Data = nil
	return env, nil
}
