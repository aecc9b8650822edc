// Package include resolves shader include directives against the including
// file's directory and an ordered set of library search paths.
//
// Resolution is bounded by MaxDepth. The bound is a conservative cap rather
// than a cycle detector: a cyclic chain fails once it has expanded MaxDepth
// levels, and a legitimately deep acyclic chain fails the same way.
package include

import (
	"fmt"
	"os"
	"path/filepath"
)

// MaxDepth is the first include depth that is rejected
const MaxDepth = 32

// Style is the include directive form
type Style int

const (
	// Standard is the angle-bracket form, resolved through search paths only
	Standard Style = iota
	// Relative is the quoted form, resolved next to the including file first
	Relative
)

func (s Style) String() string {
	switch s {
	case Standard:
		return "standard"
	case Relative:
		return "relative"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle maps the opening delimiter of an include directive to its style
func ParseStyle(delim byte) (Style, bool) {
	switch delim {
	case '"':
		return Relative, true
	case '<':
		return Standard, true
	default:
		return Standard, false
	}
}

// Request describes a single include directive
type Request struct {
	// Name is the path as written in the directive
	Name string
	// Style is the directive form
	Style Style
	// Requesting is the path of the file containing the directive
	Requesting string
	// Depth is the current nesting depth
	Depth int
}

// Resolved is a successfully resolved include
type Resolved struct {
	// Path is the resolved location of the included file
	Path string
	// Content is the full text of the included file
	Content string
}

// NotFoundError reports that no candidate for the requested name could be read
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find file: %s", e.Name)
}

// DepthError reports that the include chain reached MaxDepth
type DepthError struct {
	Depth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("include depth %d too high", e.Depth)
}

// Resolve looks up req against the including file's directory and paths.
// The search path store is locked for the duration of the lookup.
func Resolve(paths *SearchPaths, req Request) (*Resolved, error) {
	if req.Depth >= MaxDepth {
		return nil, &DepthError{Depth: req.Depth}
	}

	if req.Style == Relative && req.Requesting != "" {
		candidate := filepath.Join(filepath.Dir(req.Requesting), req.Name)
		if resolved, ok := readCandidate(candidate); ok {
			return resolved, nil
		}
	}

	if paths != nil {
		resolved, ok := paths.lookup(func(dirs []string) (*Resolved, bool) {
			for _, dir := range dirs {
				if resolved, ok := readCandidate(filepath.Join(dir, req.Name)); ok {
					return resolved, true
				}
			}

			return nil, false
		})
		if ok {
			return resolved, nil
		}
	}

	return nil, &NotFoundError{Name: req.Name}
}

// Resolver binds a search path store to the include callback signature
// invoked by translators.
type Resolver struct {
	paths *SearchPaths
}

// NewResolver creates a resolver reading from paths
func NewResolver(paths *SearchPaths) *Resolver {
	return &Resolver{paths: paths}
}

// Resolve resolves a single directive
func (r *Resolver) Resolve(name string, style Style, requesting string, depth int) (*Resolved, error) {
	return Resolve(r.paths, Request{
		Name:       name,
		Style:      style,
		Requesting: requesting,
		Depth:      depth,
	})
}

// readCandidate reads path fully. Missing, unopenable or unreadable files
// are all reported as a miss.
func readCandidate(path string) (*Resolved, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	return &Resolved{
		Path:    path,
		Content: string(data),
	}, true
}
