package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrEmptyDocument is returned when the export file holds no JSON at all.
var ErrEmptyDocument = errors.New("empty export document")

// Load reads and parses an export file in one shot.
func Load(path string) (Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	conversations, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return conversations, nil
}

// Parse decodes an export document. The export is usually a list of
// conversations; a top-level object is accepted and treated as a
// single-conversation export.
func Parse(data []byte) (Export, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}

	if trimmed[0] == '[' {
		var conversations []Conversation
		if err := json.Unmarshal(trimmed, &conversations); err != nil {
			return nil, fmt.Errorf("unmarshal conversation list: %w", err)
		}
		return conversations, nil
	}

	var single Conversation
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("unmarshal conversation: %w", err)
	}
	return Export{single}, nil
}
