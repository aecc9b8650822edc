// Package compiler orchestrates shader compilation: it consults the artifact
// caches, invokes the translator on a miss and persists the result.
//
// A Compiler is not safe for concurrent use. Callers compiling from several
// goroutines must serialize access or use one Compiler per goroutine. Only the
// include search path store is shared with the translator's callbacks, and it
// carries its own lock.
package compiler

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Norgate-AV/spvc/internal/cache"
	"github.com/Norgate-AV/spvc/internal/include"
)

// Compiler compiles shader sources through a translator with two-tier caching
type Compiler struct {
	translator  Translator
	options     Options
	searchPaths *include.SearchPaths
	resolver    *include.Resolver
	memory      *cache.Memory
	hasMacros   bool
	fingerprint string
	recorder    Recorder
	logger      *slog.Logger
}

// AddMacroDefinition defines a macro for subsequent compiles
func (c *Compiler) AddMacroDefinition(name, value string) {
	c.options.Macros = append(c.options.Macros, Macro{Name: name, Value: value})
	c.hasMacros = true
	c.refreshFingerprint()
}

// AddIncludeDir appends a library directory to the include search order
func (c *Compiler) AddIncludeDir(dir string) {
	c.searchPaths.Add(dir)
	c.refreshFingerprint()
}

// IncludeDirs returns the include search order
func (c *Compiler) IncludeDirs() []string {
	return c.searchPaths.Dirs()
}

// HasMacros reports whether any macro is defined
func (c *Compiler) HasMacros() bool {
	return c.hasMacros
}

// Options returns a copy of the translator options
func (c *Compiler) Options() Options {
	return c.options.clone()
}

// Fingerprint identifies the current configuration
func (c *Compiler) Fingerprint() string {
	return c.fingerprint
}

// CompileFromString compiles source without any caching
func (c *Compiler) CompileFromString(source string, kind ShaderKind) ([]uint32, error) {
	result, err := c.translate(source, kind, MemorySourceName)
	if err != nil {
		return nil, translationError("", err)
	}

	return result.Words, nil
}

// CompileFromFile compiles the file at path. With useCache, an in-memory hit
// is returned without a staleness check, then a persisted artifact newer than
// the source is loaded (only when no macros are defined), and a fresh result
// is written back to <path>.spv.
func (c *Compiler) CompileFromFile(path string, kind ShaderKind, useCache bool) ([]uint32, error) {
	sourcePath, err := filepath.Abs(path)
	if err != nil {
		return nil, loadError(err)
	}

	key := cache.Key{Path: sourcePath, Kind: kind.String(), Fingerprint: c.fingerprint}
	artifactPath := cache.ArtifactPath(sourcePath)

	if useCache {
		if words, ok := c.memory.Get(key); ok {
			c.logger.Debug("in-memory cache hit", "file", sourcePath)
			return words, nil
		}

		if words, ok := c.loadPersisted(sourcePath, artifactPath); ok {
			c.memory.Put(key, words)
			return words, nil
		}
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, loadError(err)
	}

	result, err := c.translate(string(source), kind, sourcePath)
	if err != nil {
		return nil, translationError(sourcePath, err)
	}

	if result.NumWarnings() > 0 {
		c.logger.Warn("shader produced warnings",
			"file", sourcePath,
			"count", result.NumWarnings(),
			"messages", result.WarningMessages())
	}

	words := result.Words

	if useCache {
		if err := cache.WriteArtifact(artifactPath, words); err != nil {
			return nil, writeError(err)
		}

		c.record(sourcePath, artifactPath, kind, len(words))
	}

	c.memory.Put(key, words)

	return words, nil
}

// loadPersisted returns the words of an up to date artifact
func (c *Compiler) loadPersisted(sourcePath, artifactPath string) ([]uint32, bool) {
	if c.hasMacros {
		return nil, false
	}

	if _, err := os.Stat(artifactPath); err != nil {
		return nil, false
	}

	if cache.NeedsRecompile(sourcePath, artifactPath) {
		c.logger.Debug("persisted artifact is stale", "file", sourcePath)
		return nil, false
	}

	if c.builtWithMacros(sourcePath) {
		c.logger.Debug("persisted artifact was built with macros", "file", sourcePath)
		return nil, false
	}

	words, err := cache.ReadArtifact(artifactPath)
	if err != nil {
		if errors.Is(err, cache.ErrMisaligned) {
			c.logger.Warn("ignoring corrupt artifact", "artifact", artifactPath, "error", err)
		}

		return nil, false
	}

	c.logger.Debug("persisted artifact hit", "file", sourcePath, "artifact", artifactPath)

	return words, true
}

// builtWithMacros reports whether the ledger says the artifact for
// sourcePath came from a macro build
func (c *Compiler) builtWithMacros(sourcePath string) bool {
	ledger, ok := c.recorder.(Ledger)
	if !ok {
		return false
	}

	entry, err := ledger.Get(sourcePath)
	if err != nil {
		c.logger.Warn("failed to read artifact ledger", "file", sourcePath, "error", err)
		return false
	}

	return entry != nil && entry.HasMacros
}

func (c *Compiler) translate(source string, kind ShaderKind, sourceName string) (*TranslateResult, error) {
	return c.translator.Translate(&TranslateRequest{
		Source:     source,
		Kind:       kind,
		SourceName: sourceName,
		EntryPoint: EntryPoint,
		Options:    &c.options,
		Include:    c.resolver.Resolve,
	})
}

func (c *Compiler) record(sourcePath, artifactPath string, kind ShaderKind, wordCount int) {
	if c.recorder == nil {
		return
	}

	err := c.recorder.Record(cache.Entry{
		SourceFile:   sourcePath,
		ArtifactFile: artifactPath,
		Kind:         kind.String(),
		Fingerprint:  c.fingerprint,
		WordCount:    wordCount,
		HasMacros:    c.hasMacros,
		Timestamp:    time.Now(),
	})
	if err != nil {
		// The artifact itself was written; only the ledger is behind
		c.logger.Warn("failed to record artifact", "artifact", artifactPath, "error", err)
	}
}

func (c *Compiler) refreshFingerprint() {
	settings := c.options.settings()
	for _, dir := range c.searchPaths.Dirs() {
		settings = append(settings, "include="+dir)
	}

	c.fingerprint = cache.Fingerprint(settings)
}
