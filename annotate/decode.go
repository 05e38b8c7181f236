package annotate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoAnnotations is returned by Decode for an empty document.
var ErrNoAnnotations = errors.New("no annotations in input")

// Decode reads annotations from JSON. The input is either an array of
// {type, bbox, page} objects or an extraction result, whose elements are
// used. Only a malformed document is an error: an element that does not
// decode is kept in place and reported as skipped by Render.
func Decode(data []byte) ([]Annotation, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoAnnotations
	}

	var raw []json.RawMessage
	if data[0] == '{' {
		var wrapped struct {
			Elements []json.RawMessage `json:"elements"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decoding annotations: %w", err)
		}
		raw = wrapped.Elements
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding annotations: %w", err)
	}

	items := make([]Annotation, 0, len(raw))
	for _, msg := range raw {
		items = append(items, decodeOne(msg))
	}
	return items, nil
}

func decodeOne(msg json.RawMessage) Annotation {
	var item Annotation
	err := json.Unmarshal(msg, &item)
	if err == nil {
		return item
	}

	// Keep the type, if readable, for the skip report.
	var loose struct {
		Type any `json:"type"`
	}
	_ = json.Unmarshal(msg, &loose)
	name, _ := loose.Type.(string)
	return Annotation{Type: name, invalid: fmt.Sprintf("invalid element: %v", err)}
}
