package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "exports", name)
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestSplitEndToEnd(t *testing.T) {
	outDir := t.TempDir()

	out, err := runCommand(t, fixturePath("sample.json"), "--parts", "3", "--out-dir", outDir)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if !strings.Contains(out, "split 6 messages into 3 parts") {
		t.Fatalf("unexpected result line: %s", out)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 part files, got %d", len(entries))
	}

	first, err := os.ReadFile(filepath.Join(outDir, "sample_part01.txt"))
	if err != nil {
		t.Fatalf("read first part: %v", err)
	}
	want := "USER:\nWhat is Python?\n\nASSISTANT:\nPython is a general-purpose programming language.\n"
	if string(first) != want {
		t.Fatalf("first part mismatch:\nwant: %q\ngot:  %q", want, string(first))
	}

	last, err := os.ReadFile(filepath.Join(outDir, "sample_part03.txt"))
	if err != nil {
		t.Fatalf("read last part: %v", err)
	}
	if !strings.HasPrefix(string(last), "USER:\nPlan a weekend trip to Kyoto.") {
		t.Fatalf("last part should hold the second conversation: %q", string(last))
	}
}

func TestSplitSubcommandMatchesRoot(t *testing.T) {
	outDir := t.TempDir()

	out, err := runCommand(t, "split", fixturePath("single.json"), "--parts", "2", "--out-dir", outDir, "--prefix", "solo")
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if !strings.Contains(out, "split 2 messages into 2 parts") {
		t.Fatalf("unexpected result line: %s", out)
	}

	if _, err := os.Stat(filepath.Join(outDir, "solo_part01.txt")); err != nil {
		t.Fatalf("expected solo_part01.txt: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "solo_part02.txt")); err != nil {
		t.Fatalf("expected solo_part02.txt: %v", err)
	}
}

func TestSplitMalformedInput(t *testing.T) {
	outDir := t.TempDir()

	_, err := runCommand(t, fixturePath("malformed.json"), "--out-dir", outDir)
	if err == nil {
		t.Fatal("expected error for malformed input")
	}

	entries, readErr := os.ReadDir(outDir)
	if readErr != nil {
		t.Fatalf("read output dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("no files should be written on parse failure, found %d", len(entries))
	}
}

func TestSplitInvalidParts(t *testing.T) {
	if _, err := runCommand(t, fixturePath("sample.json"), "--parts", "0"); err == nil {
		t.Fatal("expected error for --parts 0")
	}
}

func TestSplitNoTextualMessages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	doc := `[{"title": "code only", "mapping": {"n": {"message": {"author": {"role": "user"}, "content": {"content_type": "code", "parts": ["x = 1"]}}}}}]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := runCommand(t, path)
	if err != nil {
		t.Fatalf("expected success for message-free export: %v", err)
	}
	if !strings.Contains(out, "nothing to split") {
		t.Fatalf("expected notice, got: %s", out)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("no part files should be written, found %d entries", len(entries))
	}
}

func TestListPlain(t *testing.T) {
	out, err := runCommand(t, "list", fixturePath("sample.json"), "--format", "plain")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "Python basics") || !strings.Contains(lines[1], "What is Python?") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "(untitled)") {
		t.Fatalf("unexpected second row: %s", lines[2])
	}
}

func TestViewByIndex(t *testing.T) {
	out, err := runCommand(t, "view", fixturePath("sample.json"), "--index", "2", "--no-color", "--wrap", "120")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if !strings.Contains(out, "Plan a weekend trip to Kyoto.") {
		t.Fatalf("second conversation missing from output: %s", out)
	}
	if strings.Contains(out, "What is Python?") {
		t.Fatalf("first conversation should not appear: %s", out)
	}
}

func TestViewByTitle(t *testing.T) {
	out, err := runCommand(t, "view", fixturePath("sample.json"), "--title", "python basics", "--no-color", "--wrap", "120")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if !strings.Contains(out, "What is Python?") {
		t.Fatalf("titled conversation missing from output: %s", out)
	}
}

func TestViewUnknownTitle(t *testing.T) {
	if _, err := runCommand(t, "view", fixturePath("sample.json"), "--title", "nope"); err == nil {
		t.Fatal("expected error for unknown title")
	}
}

func TestViewColorFlagConflict(t *testing.T) {
	if _, err := runCommand(t, "view", fixturePath("sample.json"), "--color", "--no-color"); err == nil {
		t.Fatal("expected error for conflicting color flags")
	}
}

func TestInfoJSON(t *testing.T) {
	out, err := runCommand(t, "info", fixturePath("sample.json"), "--format", "json")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}

	var payload infoPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("unmarshal info payload: %v", err)
	}

	if payload.Conversations != 2 {
		t.Fatalf("unexpected conversation count: %d", payload.Conversations)
	}
	if payload.Messages != 6 {
		t.Fatalf("unexpected message count: %d", payload.Messages)
	}
	if payload.UserMessages != 3 || payload.AssistantMessages != 3 {
		t.Fatalf("unexpected role counts: %d user, %d assistant", payload.UserMessages, payload.AssistantMessages)
	}
	if payload.FirstMessage != "2025-01-05T10:00:01Z" {
		t.Fatalf("unexpected first message time: %s", payload.FirstMessage)
	}
	if payload.LastMessage != "2025-01-06T10:00:10Z" {
		t.Fatalf("unexpected last message time: %s", payload.LastMessage)
	}
}

func TestInfoText(t *testing.T) {
	out, err := runCommand(t, "info", fixturePath("single.json"))
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if !strings.Contains(out, "Conversations : 1") {
		t.Fatalf("conversation count missing: %s", out)
	}
	if !strings.Contains(out, "Messages      : 2") {
		t.Fatalf("message count missing: %s", out)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(0); got != "00:00:00" {
		t.Fatalf("unexpected zero duration: %s", got)
	}
	if got := formatDuration(3 * 3600); got != "03:00:00" {
		t.Fatalf("unexpected duration: %s", got)
	}
	if got := formatDuration(90); got != "00:01:30" {
		t.Fatalf("unexpected duration: %s", got)
	}
}
