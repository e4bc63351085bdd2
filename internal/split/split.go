// Package split distributes rendered transcript blocks across a fixed
// number of part files.
package split

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chatsplit/internal/transcript"
)

// Distribute assigns blocks to parts contiguous buckets. Bucket sizes
// differ by at most one: the first len(blocks)%parts buckets take one
// extra block. When there are fewer blocks than parts, the trailing
// buckets stay empty. Global block order is preserved.
func Distribute(blocks []transcript.Block, parts int) ([][]transcript.Block, error) {
	if parts < 1 {
		return nil, fmt.Errorf("parts must be at least 1, got %d", parts)
	}

	buckets := make([][]transcript.Block, parts)
	base := len(blocks) / parts
	extra := len(blocks) % parts

	idx := 0
	for i := range buckets {
		size := base
		if i < extra {
			size++
		}
		if size == 0 {
			continue
		}
		buckets[i] = blocks[idx : idx+size]
		idx += size
	}
	return buckets, nil
}

// Options controls where part files are written.
type Options struct {
	Dir    string
	Prefix string
	Parts  int
}

// Write distributes blocks and writes one file per bucket, named
// <prefix>_partNN.txt under Dir. It returns the written paths in part
// order. Empty buckets produce empty files.
func Write(blocks []transcript.Block, opts Options) ([]string, error) {
	buckets, err := Distribute(blocks, opts.Parts)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(buckets))
	for i, bucket := range buckets {
		name := fmt.Sprintf("%s_part%02d.txt", opts.Prefix, i+1)
		path := filepath.Join(opts.Dir, name)
		if err := os.WriteFile(path, []byte(renderBucket(bucket)), 0o644); err != nil {
			return paths, fmt.Errorf("write part %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// renderBucket joins rendered blocks with blank lines and a single
// trailing newline.
func renderBucket(bucket []transcript.Block) string {
	if len(bucket) == 0 {
		return ""
	}
	rendered := make([]string, len(bucket))
	for i, block := range bucket {
		rendered[i] = block.Render()
	}
	return strings.Join(rendered, "\n\n") + "\n"
}
