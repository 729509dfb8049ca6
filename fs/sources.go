package fs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.SourceReader = (*SourceReader)(nil)

// SourceReader implements traverse.SourceReader on the local filesystem.
type SourceReader struct{}

// NewSourceReader creates a new SourceReader.
func NewSourceReader() *SourceReader {
	return &SourceReader{}
}

// ReadSources reads every location in order and returns the contents, each
// followed by a newline. It stops at the first location that cannot be
// resolved or read and returns no partial text.
func (r *SourceReader) ReadSources(locations []string) (string, error) {
	var b strings.Builder
	for _, loc := range locations {
		path, err := ResolveLocation(loc)
		if err != nil {
			return "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", &traverse.ReadError{Path: path, Err: err}
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ResolveLocation converts a file:// URI or an absolute path into a local
// path. Other schemes, remote hosts and relative paths wrap
// traverse.ErrInvalidLocation.
func ResolveLocation(loc string) (string, error) {
	if filepath.IsAbs(loc) {
		return filepath.Clean(loc), nil
	}

	u, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", traverse.ErrInvalidLocation, loc, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %q", traverse.ErrInvalidLocation, loc)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: %q has remote host %s", traverse.ErrInvalidLocation, loc, u.Host)
	}
	if u.Path == "" || !filepath.IsAbs(filepath.FromSlash(u.Path)) {
		return "", fmt.Errorf("%w: %q", traverse.ErrInvalidLocation, loc)
	}
	return filepath.Clean(filepath.FromSlash(u.Path)), nil
}

// PathToURI converts an absolute path into a file:// URI.
func PathToURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
