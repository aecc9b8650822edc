package compiler

import (
	"strings"

	"github.com/Norgate-AV/spvc/internal/cache"
	"github.com/Norgate-AV/spvc/internal/include"
)

// EntryPoint is the entry function name every compile requests
const EntryPoint = "main"

// MemorySourceName identifies sources compiled from a string
const MemorySourceName = "memory"

// IncludeFunc resolves an include directive on behalf of a translator.
// It is invoked synchronously during translation.
type IncludeFunc func(requested string, style include.Style, requesting string, depth int) (*include.Resolved, error)

// TranslateRequest is a single translator invocation
type TranslateRequest struct {
	// Source is the full source text
	Source string
	// Kind is the requested stage
	Kind ShaderKind
	// SourceName attributes diagnostics and anchors relative includes
	SourceName string
	// EntryPoint is the entry function name
	EntryPoint string
	// Options is the pass-through configuration
	Options *Options
	// Include resolves include directives
	Include IncludeFunc
}

// TranslateResult is a successful translation
type TranslateResult struct {
	// Words is the SPIR-V binary
	Words []uint32
	// Warnings are non-fatal diagnostics
	Warnings []string
}

// NumWarnings returns the number of warnings produced
func (r *TranslateResult) NumWarnings() int {
	return len(r.Warnings)
}

// WarningMessages returns the warnings as a single block of text
func (r *TranslateResult) WarningMessages() string {
	return strings.Join(r.Warnings, "\n")
}

// Translator turns shader source into SPIR-V.
// A returned error carries the translator's diagnostic text.
type Translator interface {
	Translate(req *TranslateRequest) (*TranslateResult, error)
}

// Recorder is notified of each persisted artifact
type Recorder interface {
	Record(entry cache.Entry) error
}

// Ledger is a Recorder that can report what it recorded. When the compiler's
// recorder is a Ledger, persisted artifacts recorded from a macro build are
// not reused.
type Ledger interface {
	Recorder
	Get(sourceFile string) (*cache.Entry, error)
}
