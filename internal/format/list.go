// Package format provides output formatting for conversation listings.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"chatsplit/internal/transcript"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteSummaries writes conversation summaries to w in the requested format.
func WriteSummaries(w io.Writer, items []transcript.Summary, includeHeader bool, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeSummariesTable(w, items, includeHeader)
	case "plain":
		return writeSummariesPlain(w, items, includeHeader)
	case "json":
		return writeSummariesJSON(w, items)
	case "jsonl":
		return writeSummariesJSONL(w, items)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeSummariesPlain(w io.Writer, items []transcript.Summary, includeHeader bool) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, "created\tupdated\ttitle\tturns\tsnippet"); err != nil {
			return err
		}
	}

	for _, item := range items {
		line := fmt.Sprintf(
			"%s\t%s\t%s\t%d\t%s",
			formatTime(item.CreatedAt),
			formatTime(item.UpdatedAt),
			item.Title,
			item.TurnCount,
			escapeNewlines(item.Snippet),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeSummariesJSON(w io.Writer, items []transcript.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func writeSummariesJSONL(w io.Writer, items []transcript.Summary) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

func writeSummariesTable(w io.Writer, items []transcript.Summary, includeHeader bool) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 40},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 80},
	})

	if includeHeader {
		tw.AppendHeader(table.Row{"Created", "Updated", "Title", "Turns", "Snippet"})
	}

	for _, item := range items {
		tw.AppendRow(table.Row{
			formatTime(item.CreatedAt),
			formatTime(item.UpdatedAt),
			item.Title,
			item.TurnCount,
			escapeNewlines(item.Snippet),
		})
	}

	if len(items) == 0 {
		tw.AppendRow(table.Row{"-", "-", "(no conversations)", 0, "-"})
	}

	_ = tw.Render()
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func escapeNewlines(text string) string {
	return strings.ReplaceAll(text, "\n", "\\n")
}
