// Package static maps request paths onto files under a web root and writes
// them as HTTP responses, falling back to index.html for unknown paths.
package static

import (
	"os"
	"path/filepath"
	"strings"
)

// IndexFile is served for the empty path and for every path that does not exist.
const IndexFile = "index.html"

// Target is the filesystem path chosen for a request.
type Target struct {
	Path string
	// Existed is false when Path is the index.html fallback.
	Existed bool
}

// Resolver decides which file under Root answers a request.
type Resolver struct {
	Root string
	// Confine rejects candidates that escape Root after cleaning. They are
	// treated as missing, so they resolve to the fallback.
	Confine bool
}

// NewResolver creates a resolver for root.
func NewResolver(root string, confine bool) *Resolver {
	return &Resolver{Root: root, Confine: confine}
}

// Fallback returns the index.html path under the root.
func (r *Resolver) Fallback() string {
	return r.Root + "/" + IndexFile
}

// Resolve returns the target for filename, the raw path tail captured from
// the URL. The join is a literal concatenation; the opener validates the result.
func (r *Resolver) Resolve(filename string) Target {
	if filename == "" {
		filename = IndexFile
	}

	primary := r.Root + "/" + filename
	if r.Confine && !r.within(primary) {
		return Target{Path: r.Fallback()}
	}

	// Directories and other non-regular entries count as found here.
	if _, err := os.Stat(primary); err == nil {
		return Target{Path: primary, Existed: true}
	}
	return Target{Path: r.Fallback()}
}

// within reports whether p stays inside the root once both are cleaned.
func (r *Resolver) within(p string) bool {
	root := filepath.Clean(r.Root)
	rel, err := filepath.Rel(root, filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
