package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"storytimeline/internal/model"
)

// eventsDocument is the wrapped form {"events": [...]} accepted next to a
// bare array.
type eventsDocument struct {
	Events []model.Event `json:"events" yaml:"events"`
}

// DecodeJSON decodes an events.json payload: either a bare array of event
// records or an object with an "events" array.
func DecodeJSON(body []byte) ([]model.Event, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrEmpty
	}

	if trimmed[0] == '[' {
		var events []model.Event
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, fmt.Errorf("unmarshal event array: %w", err)
		}
		return events, nil
	}

	var doc eventsDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal events document: %w", err)
	}
	return doc.Events, nil
}

// DecodeYAML decodes the same shapes as DecodeJSON from YAML.
func DecodeYAML(body []byte) ([]model.Event, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(body, &node); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, ErrEmpty
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var events []model.Event
		if err := root.Decode(&events); err != nil {
			return nil, fmt.Errorf("decode event sequence: %w", err)
		}
		return events, nil
	}

	var doc eventsDocument
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode events document: %w", err)
	}
	return doc.Events, nil
}
