package mermaid

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.Chunker = (*Chunker)(nil)

// DefaultMaxLines is the default number of body lines per chunk.
const DefaultMaxLines = 400

// chunkPattern matches files written by a previous Chunk call.
const chunkPattern = "chunk_*.mmd"

// Chunker implements traverse.Chunker. Each chunk is a standalone diagram
// that repeats the header and participant lines of the original.
type Chunker struct {
	MaxLines int // Body lines per chunk; DefaultMaxLines when zero
}

// NewChunker creates a Chunker with the given line budget.
func NewChunker(maxLines int) *Chunker {
	return &Chunker{MaxLines: maxLines}
}

// Chunk splits diagram into entry point blocks, packs them into chunks and
// writes chunk_001.mmd, chunk_002.mmd, ... under dir. Stale chunk files from
// earlier runs are removed first. Failures are reported as
// *traverse.ChunkingError.
func (c *Chunker) Chunk(diagram, dir string) (*traverse.ChunkSet, error) {
	header, blocks, err := split(diagram)
	if err != nil {
		return nil, &traverse.ChunkingError{Dir: dir, Err: err}
	}
	if dir == "" {
		return nil, &traverse.ChunkingError{Err: errors.New("no chunk directory")}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &traverse.ChunkingError{Dir: dir, Err: err}
	}
	stale, err := filepath.Glob(filepath.Join(dir, chunkPattern))
	if err != nil {
		return nil, &traverse.ChunkingError{Dir: dir, Err: err}
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return nil, &traverse.ChunkingError{Dir: dir, Err: err}
		}
	}

	set := &traverse.ChunkSet{Dir: dir}
	for i, body := range c.pack(blocks) {
		chunk := traverse.Chunk{
			ID:       i + 1,
			Filename: fmt.Sprintf("chunk_%03d.mmd", i+1),
			Content:  strings.Join(append(append([]string{}, header...), body...), "\n") + "\n",
		}
		if err := os.WriteFile(filepath.Join(dir, chunk.Filename), []byte(chunk.Content), 0o644); err != nil {
			return nil, &traverse.ChunkingError{Dir: dir, Err: err}
		}
		set.Chunks = append(set.Chunks, chunk)
	}
	return set, nil
}

// pack groups blocks greedily so that no chunk exceeds MaxLines body lines,
// except a single block that is larger on its own. There is always at least
// one chunk.
func (c *Chunker) pack(blocks [][]string) [][]string {
	limit := c.MaxLines
	if limit <= 0 {
		limit = DefaultMaxLines
	}

	var chunks [][]string
	var current []string
	for _, block := range blocks {
		if len(current) > 0 && len(current)+len(block) > limit {
			chunks = append(chunks, current)
			current = nil
		}
		current = append(current, block...)
	}
	if len(current) > 0 || len(chunks) == 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// split separates the header (the sequenceDiagram line and participant
// declarations) from the entry point blocks that follow it.
func split(diagram string) (header []string, blocks [][]string, err error) {
	lines := strings.Split(strings.TrimRight(diagram, "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "sequenceDiagram" {
		return nil, nil, errors.New("not a sequence diagram")
	}

	header = []string{lines[0]}
	i := 1
	for ; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), EntryPrefix) {
			break
		}
		header = append(header, lines[i])
	}

	for ; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), EntryPrefix) || len(blocks) == 0 {
			blocks = append(blocks, nil)
		}
		blocks[len(blocks)-1] = append(blocks[len(blocks)-1], lines[i])
	}
	return header, blocks, nil
}
