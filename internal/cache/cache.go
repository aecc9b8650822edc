// Package cache provides the artifact caching layers for shader compilation.
//
// Compiled SPIR-V is cached at two tiers:
//
//  1. Memory holds word sequences for the lifetime of a compiler, keyed by
//     canonical source path and configuration fingerprint
//  2. Persisted artifacts are sibling files named <source>.spv holding raw
//     little-endian words, trusted only while newer than their source
//
// Manifest is a BoltDB ledger of every artifact written, so that the CLI can
// report on and clean up artifacts scattered across source directories.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// DefaultCacheDir is the default manifest directory name
	DefaultCacheDir = ".spvc-cache"

	// bucketName is the BoltDB bucket name for artifact entries
	bucketName = "artifacts"
)

// Manifest records persisted artifacts using BoltDB
type Manifest struct {
	db   *bbolt.DB
	root string // Root directory for the manifest (.spvc-cache/)
}

// NewManifest opens or creates a manifest.
// If cacheDir is empty, uses DefaultCacheDir in current working directory
func NewManifest(cacheDir string) (*Manifest, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		cacheDir = filepath.Join(cwd, DefaultCacheDir)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, "cache.db")
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &Manifest{
		db:   db,
		root: cacheDir,
	}, nil
}

// Close closes the manifest database
func (m *Manifest) Close() error {
	if m.db != nil {
		return m.db.Close()
	}

	return nil
}

// Root returns the manifest directory
func (m *Manifest) Root() string {
	return m.root
}

// Record stores or replaces the entry for entry.SourceFile
func (m *Manifest) Record(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	err := m.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return b.Put([]byte(entry.SourceFile), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store manifest entry: %w", err)
	}

	return nil
}

// Get retrieves the entry for a source file
// Returns nil if no artifact was recorded
func (m *Manifest) Get(sourceFile string) (*Entry, error) {
	var entry *Entry
	err := m.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data := b.Get([]byte(sourceFile))
		if data == nil {
			return nil
		}

		entry = &Entry{}
		return json.Unmarshal(data, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Entries returns every recorded entry ordered by source path
func (m *Manifest) Entries() ([]Entry, error) {
	var entries []Entry
	err := m.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		return b.ForEach(func(_, data []byte) error {
			var entry Entry
			if err := json.Unmarshal(data, &entry); err != nil {
				return err
			}

			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return entries, nil
}

// Remove deletes the entry for a source file
func (m *Manifest) Remove(sourceFile string) error {
	return m.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(sourceFile))
	})
}

// Clear deletes every recorded artifact file and empties the manifest.
// Returns the number of artifact files removed.
func (m *Manifest) Clear() (int, error) {
	entries, err := m.Entries()
	if err != nil {
		return 0, err
	}

	artifacts := make([]string, 0, len(entries))
	for _, entry := range entries {
		artifacts = append(artifacts, entry.ArtifactFile)
	}

	removed, err := RemoveArtifacts(artifacts)
	if err != nil {
		return removed, err
	}

	err = m.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket([]byte(bucketName))
	})
	if err != nil {
		return removed, err
	}

	err = m.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
	if err != nil {
		return removed, err
	}

	return removed, nil
}

// Stats returns the number of recorded entries and the total size of the
// artifact files that still exist on disk
func (m *Manifest) Stats() (int, int64, error) {
	entries, err := m.Entries()
	if err != nil {
		return 0, 0, err
	}

	var totalSize int64
	for _, entry := range entries {
		info, err := os.Stat(entry.ArtifactFile)
		if err != nil {
			continue // Artifact removed outside spvc
		}

		totalSize += info.Size()
	}

	return len(entries), totalSize, nil
}
