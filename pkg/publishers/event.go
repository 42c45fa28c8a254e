package publishers

import (
	"encoding/json"
	"time"
)

// Record kinds produced by the exporter.
const (
	KindOperadora    = "operadora"
	KindDemonstracao = "demonstracao"
)

// Event represents one exported backend record published downstream.
type Event struct {
	Kind        string          `json:"kind"`
	Key         string          `json:"key"`
	Source      string          `json:"source"`
	Payload     json.RawMessage `json:"payload"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent constructs an Event for a record as served by source.
func NewEvent(kind, key, source string, payload json.RawMessage) Event {
	return Event{
		Kind:        kind,
		Key:         key,
		Source:      source,
		Payload:     payload,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached by queue and topic publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"record_kind": e.Kind,
		"record_key":  e.Key,
	}
}
