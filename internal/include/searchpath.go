package include

import (
	"path/filepath"
	"sync"
)

// SearchPaths is the ordered list of library directories used for
// non-relative include lookups. Directories added earlier shadow later ones.
type SearchPaths struct {
	mu   sync.Mutex
	dirs []string
}

// NewSearchPaths creates a search path store seeded with dirs, in order
func NewSearchPaths(dirs ...string) *SearchPaths {
	sp := &SearchPaths{}
	for _, dir := range dirs {
		sp.Add(dir)
	}

	return sp
}

// Add appends a directory to the end of the search order.
// Empty entries are ignored.
func (sp *SearchPaths) Add(dir string) {
	if dir == "" {
		return
	}

	sp.mu.Lock()
	defer sp.mu.Unlock()

	sp.dirs = append(sp.dirs, filepath.Clean(dir))
}

// Dirs returns a copy of the configured directories
func (sp *SearchPaths) Dirs() []string {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	dirs := make([]string, len(sp.dirs))
	copy(dirs, sp.dirs)

	return dirs
}

// Len returns the number of configured directories
func (sp *SearchPaths) Len() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	return len(sp.dirs)
}

// lookup runs fn over the directories while holding the store lock
func (sp *SearchPaths) lookup(fn func(dirs []string) (*Resolved, bool)) (*Resolved, bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	return fn(sp.dirs)
}
