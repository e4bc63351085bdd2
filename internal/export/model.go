// Package export models the ChatGPT conversation export format.
package export

import (
	"encoding/json"
	"math"
	"time"
)

// Export is the top-level document: a list of conversation records.
type Export []Conversation

// Conversation is one conversation record. Exports vary by version, so
// every field is optional; a missing mapping simply yields no turns.
type Conversation struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	CreateTime float64         `json:"create_time"`
	UpdateTime float64         `json:"update_time"`
	Mapping    map[string]Node `json:"mapping"`
}

// CreatedAt returns the conversation creation time, zero if absent.
func (c Conversation) CreatedAt() time.Time { return unixTime(c.CreateTime) }

// UpdatedAt returns the last update time, zero if absent.
func (c Conversation) UpdatedAt() time.Time { return unixTime(c.UpdateTime) }

// Node is one entry in the conversation mapping. Nodes without a
// message (the synthetic root, pruned branches) carry nil.
type Node struct {
	ID       string   `json:"id"`
	Parent   string   `json:"parent"`
	Children []string `json:"children"`
	Message  *Message `json:"message"`
}

// Message is a single turn inside a conversation node.
type Message struct {
	ID         string  `json:"id"`
	Author     Author  `json:"author"`
	CreateTime float64 `json:"create_time"`
	Content    Content `json:"content"`
}

// CreatedAt returns the message timestamp, zero if absent.
func (m Message) CreatedAt() time.Time { return unixTime(m.CreateTime) }

// Author identifies who produced a message.
type Author struct {
	Role string `json:"role"`
}

// Content holds a message payload. Only "text" content carries parts
// this tool cares about.
type Content struct {
	ContentType string `json:"content_type"`
	Parts       Parts  `json:"parts"`
}

// Parts holds the textual parts of a message. Newer exports mix
// non-string entries (multimodal payloads) into the list; those are
// dropped during decoding instead of failing the whole document.
type Parts []string

// UnmarshalJSON keeps string elements and silently skips the rest.
// A bare string payload is accepted as a single part.
func (p *Parts) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var single string
		if strErr := json.Unmarshal(data, &single); strErr == nil {
			*p = Parts{single}
			return nil
		}
		return err
	}

	parts := make(Parts, 0, len(raw))
	for _, item := range raw {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			parts = append(parts, text)
		}
	}
	*p = parts
	return nil
}

// unixTime converts fractional Unix seconds to a UTC time.
func unixTime(seconds float64) time.Time {
	if seconds == 0 {
		return time.Time{}
	}
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
}
