// Package main provides the chatsplit CLI for splitting conversation
// exports into evenly sized text files.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chatsplit/internal/export"
	"chatsplit/internal/format"
	"chatsplit/internal/split"
	"chatsplit/internal/transcript"
	"chatsplit/internal/view"

	"github.com/spf13/cobra"
)

var version = "dev"

const defaultParts = 10

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "chatsplit: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		parts  int
		outDir string
		prefix string
	)

	cmd := &cobra.Command{
		Use:     "chatsplit <export.json>",
		Short:   "Split conversation exports into evenly sized text files",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runSplit(cmd, args[0], parts, outDir, prefix)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&parts, "parts", defaultParts, "number of output files")
	flags.StringVar(&outDir, "out-dir", "", "directory for output files (default: the input file's directory)")
	flags.StringVar(&prefix, "prefix", "", "output filename prefix (default: input filename without extension)")

	cmd.AddCommand(newSplitCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newInfoCmd())

	return cmd
}

func newSplitCmd() *cobra.Command {
	var (
		parts  int
		outDir string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "split <export.json>",
		Short: "Distribute text turns evenly across part files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, args[0], parts, outDir, prefix)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&parts, "parts", defaultParts, "number of output files")
	flags.StringVar(&outDir, "out-dir", "", "directory for output files (default: the input file's directory)")
	flags.StringVar(&prefix, "prefix", "", "output filename prefix (default: input filename without extension)")

	return cmd
}

func runSplit(cmd *cobra.Command, path string, parts int, outDir, prefix string) error {
	if parts < 1 {
		return fmt.Errorf("--parts must be at least 1, got %d", parts)
	}

	conversations, err := export.Load(path)
	if err != nil {
		return err
	}

	blocks := transcript.CollectAll(conversations)
	if len(blocks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no textual messages found, nothing to split")
		return nil
	}

	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if prefix == "" {
		prefix = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	paths, err := split.Write(blocks, split.Options{Dir: outDir, Prefix: prefix, Parts: parts})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "split %d messages into %d parts in %s\n", len(blocks), len(paths), outDir)
	return nil
}

func newListCmd() *cobra.Command {
	var (
		formatFlag   string
		noHeader     bool
		limit        int
		summaryWidth int
	)

	cmd := &cobra.Command{
		Use:   "list <export.json>",
		Short: "List conversations with turn counts and snippets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conversations, err := export.Load(args[0])
			if err != nil {
				return err
			}

			summaries := make([]transcript.Summary, 0, len(conversations))
			for _, conv := range conversations {
				summaries = append(summaries, transcript.Summarize(conv, summaryWidth))
			}
			if limit > 0 && len(summaries) > limit {
				summaries = summaries[:limit]
			}

			includeHeader := !noHeader
			return format.WriteSummaries(cmd.OutOrStdout(), summaries, includeHeader, strings.ToLower(formatFlag))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&formatFlag, "format", "table", "output format: table, plain, json, or jsonl")
	flags.BoolVar(&noHeader, "no-header", false, "omit header row for plain output")
	flags.IntVar(&limit, "limit", 0, "limit number of conversations listed (0 means no limit)")
	flags.IntVar(&summaryWidth, "summary-width", 160, "maximum characters included in the snippet column")

	return cmd
}

func newViewCmd() *cobra.Command {
	var (
		index        int
		title        string
		wrap         int
		roles        string
		forceColor   bool
		forceNoColor bool
	)

	cmd := &cobra.Command{
		Use:   "view <export.json>",
		Short: "Render one conversation as a labeled transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if forceColor && forceNoColor {
				return errors.New("--color and --no-color cannot be used together")
			}

			conversations, err := export.Load(args[0])
			if err != nil {
				return err
			}

			conv, err := selectConversation(conversations, index, title)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			outFile, _ := out.(*os.File)
			return view.Run(strings.TrimSpace(conv.Title), transcript.Collect(conv), view.Options{
				Wrap:         wrap,
				Roles:        roles,
				ForceColor:   forceColor,
				ForceNoColor: forceNoColor,
				Out:          out,
				OutFile:      outFile,
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&index, "index", 1, "1-based index of the conversation to render")
	flags.StringVar(&title, "title", "", "render the first conversation with this title instead of --index")
	flags.IntVar(&wrap, "wrap", 0, "wrap message body at the given column width")
	flags.StringVar(&roles, "role", "", "comma-separated roles to include (default: all)")
	flags.BoolVar(&forceColor, "color", false, "force-enable ANSI colors even when stdout is not a TTY")
	flags.BoolVar(&forceNoColor, "no-color", false, "disable ANSI colors regardless of terminal detection")

	return cmd
}

func selectConversation(conversations export.Export, index int, title string) (export.Conversation, error) {
	if title != "" {
		for _, conv := range conversations {
			if strings.EqualFold(strings.TrimSpace(conv.Title), title) {
				return conv, nil
			}
		}
		return export.Conversation{}, fmt.Errorf("no conversation titled %q", title)
	}

	if index < 1 || index > len(conversations) {
		return export.Conversation{}, fmt.Errorf("conversation index %d out of range (export has %d)", index, len(conversations))
	}
	return conversations[index-1], nil
}

type infoPayload struct {
	Path              string `json:"path"`
	Conversations     int    `json:"conversations"`
	Messages          int    `json:"messages"`
	UserMessages      int    `json:"user_messages"`
	AssistantMessages int    `json:"assistant_messages"`
	FirstMessage      string `json:"first_message,omitempty"`
	LastMessage       string `json:"last_message,omitempty"`
	SpanSeconds       int    `json:"span_seconds"`
	SpanDisplay       string `json:"span_display"`
}

func newInfoCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "info <export.json>",
		Short: "Show export-level statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conversations, err := export.Load(args[0])
			if err != nil {
				return err
			}

			payload := buildInfoPayload(args[0], conversations)

			switch strings.ToLower(formatFlag) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			case "text":
				renderInfoText(cmd.OutOrStdout(), payload)
				return nil
			default:
				return fmt.Errorf("unsupported format: %s", formatFlag)
			}
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "text", "output format: text or json")

	return cmd
}

func buildInfoPayload(path string, conversations export.Export) infoPayload {
	blocks := transcript.CollectAll(conversations)

	payload := infoPayload{
		Path:          path,
		Conversations: len(conversations),
		Messages:      len(blocks),
	}

	var first, last time.Time
	for _, block := range blocks {
		switch strings.ToLower(block.Role) {
		case "user":
			payload.UserMessages++
		case "assistant":
			payload.AssistantMessages++
		}
		if block.Timestamp.IsZero() {
			continue
		}
		if first.IsZero() || block.Timestamp.Before(first) {
			first = block.Timestamp
		}
		if block.Timestamp.After(last) {
			last = block.Timestamp
		}
	}

	if !first.IsZero() {
		payload.FirstMessage = first.Format(time.RFC3339)
		payload.LastMessage = last.Format(time.RFC3339)
	}
	payload.SpanSeconds = durationSeconds(first, last)
	payload.SpanDisplay = formatDuration(payload.SpanSeconds)

	return payload
}

func renderInfoText(out io.Writer, payload infoPayload) {
	const labelWidth = 14
	writeKV(out, labelWidth, "Path", payload.Path)
	writeKV(out, labelWidth, "Conversations", fmt.Sprintf("%d", payload.Conversations))
	writeKV(out, labelWidth, "Messages", fmt.Sprintf("%d", payload.Messages))
	writeKV(out, labelWidth, "User", fmt.Sprintf("%d", payload.UserMessages))
	writeKV(out, labelWidth, "Assistant", fmt.Sprintf("%d", payload.AssistantMessages))
	writeKV(out, labelWidth, "First Message", orDash(payload.FirstMessage))
	writeKV(out, labelWidth, "Last Message", orDash(payload.LastMessage))
	writeKV(out, labelWidth, "Span", payload.SpanDisplay)
}

func writeKV(out io.Writer, width int, label string, value string) {
	fmt.Fprintf(out, "%-*s: %s\n", width, label, value) //nolint:errcheck
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func durationSeconds(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Seconds())
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "00:00:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
