// Package view renders a conversation transcript to a terminal.
package view

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"chatsplit/internal/transcript"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Options defines the configurable parameters for rendering a transcript.
type Options struct {
	Wrap         int
	Roles        string // comma-separated role filter; empty or "all" keeps every role
	ForceColor   bool
	ForceNoColor bool
	Out          io.Writer
	OutFile      *os.File
}

// Run renders the blocks of one conversation according to the options.
func Run(title string, blocks []transcript.Block, opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	roles := parseRoleFilter(opts.Roles)
	useColor := resolveColorChoice(opts)
	width := determineWidth(opts.OutFile, opts.Wrap)

	if title != "" {
		header := title
		if useColor {
			header = colorize(true, ansiBoldWhite, header)
		}
		fmt.Fprintln(opts.Out, header)
		fmt.Fprintln(opts.Out, strings.Repeat("=", runewidth.StringWidth(title)))
	}

	count := 0
	for _, block := range blocks {
		if roles != nil {
			if _, ok := roles[strings.ToLower(block.Role)]; !ok {
				continue
			}
		}
		if count > 0 {
			fmt.Fprintln(opts.Out)
		}
		printBlock(opts.Out, block, count+1, width, useColor)
		count++
	}

	if count == 0 {
		fmt.Fprintln(opts.Out, "(no textual messages)")
	}
	return nil
}

// parseRoleFilter returns the lower-cased role set, or nil when every
// role should pass. Roles in exports are open-ended, so unknown names
// are not rejected.
func parseRoleFilter(arg string) map[string]struct{} {
	trimmed := strings.TrimSpace(arg)
	if trimmed == "" || strings.EqualFold(trimmed, "all") {
		return nil
	}

	set := make(map[string]struct{})
	for _, part := range strings.Split(trimmed, ",") {
		token := strings.TrimSpace(strings.ToLower(part))
		if token != "" {
			set[token] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func printBlock(out io.Writer, block transcript.Block, index int, width int, useColor bool) {
	roleLabel := strings.ToLower(block.Role)
	if roleLabel == "" {
		roleLabel = "unknown"
	}

	ts := "-"
	if !block.Timestamp.IsZero() {
		ts = block.Timestamp.Format(time.RFC3339)
	}
	headerPlain := fmt.Sprintf("[#%03d] %s | %s", index, roleLabel, ts)

	indexText := fmt.Sprintf("#%03d", index)
	roleText := roleLabel
	tsText := ts
	separator := "|"
	if useColor {
		indexText = colorize(true, ansiBoldWhite, indexText)
		roleText = colorize(true, roleColor(roleLabel), roleText)
		tsText = colorize(true, ansiTimestamp, tsText)
		separator = colorize(true, ansiSeparator, "|")
	}

	fmt.Fprintf(out, "[%s] %s %s %s\n", indexText, roleText, separator, tsText)
	fmt.Fprintln(out, strings.Repeat("-", len(headerPlain)))

	linePrefix := "| "
	emptyPrefix := "|"
	if useColor {
		coloredBar := colorize(true, ansiSeparator, "|")
		linePrefix = coloredBar + " "
		emptyPrefix = coloredBar
	}

	bodyWidth := width - len("| ")
	for _, raw := range strings.Split(block.Text, "\n") {
		for _, line := range wrapText(raw, bodyWidth) {
			if line == "" {
				fmt.Fprintln(out, emptyPrefix)
				continue
			}
			fmt.Fprintf(out, "%s%s\n", linePrefix, line)
		}
	}
}

// wrapText breaks text into display-width-bounded lines.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	text = strings.TrimRight(text, " ")
	if text == "" {
		return []string{""}
	}

	var out []string
	var current strings.Builder
	currentWidth := 0

	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width && current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
			currentWidth = 0
		}
		current.WriteRune(r)
		currentWidth += rw
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func determineWidth(out *os.File, wrap int) int {
	if wrap > 0 {
		return wrap
	}
	if out != nil {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if v, err := strconv.Atoi(colsStr); err == nil && v > 0 {
			return v
		}
	}
	return 80
}

const (
	ansiReset     = "\x1b[0m"
	ansiBoldWhite = "\x1b[1;97m"
	ansiTimestamp = "\x1b[38;5;245m"
	ansiSeparator = "\x1b[38;5;240m"
	ansiAssistant = "\x1b[38;5;44m"
	ansiUser      = "\x1b[38;5;220m"
	ansiSystem    = "\x1b[38;5;207m"
)

func colorize(enabled bool, code string, text string) string {
	if !enabled {
		return text
	}
	return code + text + ansiReset
}

func roleColor(role string) string {
	switch role {
	case "assistant":
		return ansiAssistant
	case "user":
		return ansiUser
	case "system", "tool":
		return ansiSystem
	default:
		return ansiSeparator
	}
}

func resolveColorChoice(opts Options) bool {
	if opts.ForceColor {
		return true
	}
	if opts.ForceNoColor {
		return false
	}
	return shouldUseColorAuto(opts.Out)
}

func shouldUseColorAuto(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
