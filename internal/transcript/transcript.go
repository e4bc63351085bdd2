// Package transcript extracts human-readable text turns from
// conversation records and renders them as labeled blocks.
package transcript

import (
	"sort"
	"strings"
	"time"

	"chatsplit/internal/export"
)

// ContentTypeText marks the only message content type that yields turns.
const ContentTypeText = "text"

// Block is one rendered text turn. Immutable once built.
type Block struct {
	Role      string
	Timestamp time.Time
	Text      string
}

// Render returns the block as a labeled chunk:
//
//	USER:
//	What time is it?
func (b Block) Render() string {
	label := strings.ToUpper(b.Role)
	if label == "" {
		label = "UNKNOWN"
	}
	return label + ":\n" + b.Text
}

// Collect returns the text turns of one conversation in chronological
// order. Messages whose content type is not "text", or whose parts are
// all blank after trimming, are skipped. Missing optional fields never
// fail the walk.
func Collect(conv export.Conversation) []Block {
	// Mapping iteration order is not stable; walk sorted node IDs so
	// turns with equal timestamps keep a deterministic order.
	ids := make([]string, 0, len(conv.Mapping))
	for id := range conv.Mapping {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	blocks := make([]Block, 0, len(ids))
	for _, id := range ids {
		msg := conv.Mapping[id].Message
		if msg == nil || msg.Content.ContentType != ContentTypeText {
			continue
		}

		parts := make([]string, 0, len(msg.Content.Parts))
		for _, part := range msg.Content.Parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) == 0 {
			continue
		}

		blocks = append(blocks, Block{
			Role:      msg.Author.Role,
			Timestamp: msg.CreatedAt(),
			Text:      strings.Join(parts, "\n"),
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Timestamp.Before(blocks[j].Timestamp)
	})
	return blocks
}

// CollectAll gathers turns from every conversation, preserving export
// order across conversations and chronological order within each.
func CollectAll(conversations export.Export) []Block {
	var blocks []Block
	for _, conv := range conversations {
		blocks = append(blocks, Collect(conv)...)
	}
	return blocks
}

// Summary describes one conversation for listings.
type Summary struct {
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	TurnCount int       `json:"turn_count"`
	Snippet   string    `json:"snippet"`
}

// Summarize builds the listing row for one conversation. The snippet
// is the first user turn, collapsed to one line and clipped to
// maxSnippet characters.
func Summarize(conv export.Conversation, maxSnippet int) Summary {
	blocks := Collect(conv)

	title := strings.TrimSpace(conv.Title)
	if title == "" {
		title = "(untitled)"
	}

	var snippet string
	for _, block := range blocks {
		if strings.EqualFold(block.Role, "user") {
			snippet = ClipText(CollapseWhitespace(block.Text), maxSnippet)
			break
		}
	}

	return Summary{
		Title:     title,
		CreatedAt: conv.CreatedAt(),
		UpdatedAt: conv.UpdatedAt(),
		TurnCount: len(blocks),
		Snippet:   snippet,
	}
}

// CollapseWhitespace folds all runs of whitespace into single spaces.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(text)), " ")
}

// ClipText truncates text to maxLen runes, ending with an ellipsis
// when anything was cut.
func ClipText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}
