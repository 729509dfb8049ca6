// Package fs provides filesystem access for traverse: resolving document
// locations, reading sources and discovering Solidity files in a workspace.
package fs

import (
	"path/filepath"
)

// DefaultChunkDir is the directory chunked diagrams are written to when no
// other directory is configured. Relative paths are resolved against the
// workspace folder.
const DefaultChunkDir = "mermaid-chunks"

// ResolveChunkDir returns dir, or DefaultChunkDir when dir is empty, joined
// to workspace when it is relative.
func ResolveChunkDir(workspace, dir string) string {
	if dir == "" {
		dir = DefaultChunkDir
	}
	if filepath.IsAbs(dir) || workspace == "" {
		return dir
	}
	return filepath.Join(workspace, dir)
}
