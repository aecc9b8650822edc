package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactSuffix is appended (not substituted) to a source path to name its
// persisted SPIR-V artifact
const ArtifactSuffix = ".spv"

// WordSize is the byte width of one SPIR-V word
const WordSize = 4

// ErrMisaligned is returned when a byte buffer cannot hold whole words
var ErrMisaligned = errors.New("buffer length is not a multiple of the word size")

// ArtifactPath returns the persisted artifact path for a source file
func ArtifactPath(sourceFile string) string {
	return sourceFile + ArtifactSuffix
}

// EncodeWords lays words out as little-endian bytes, 4 per word
func EncodeWords(words []uint32) []byte {
	buf := make([]byte, len(words)*WordSize)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*WordSize:], w)
	}

	return buf
}

// DecodeWords reads little-endian words from buf
func DecodeWords(buf []byte) ([]uint32, error) {
	if len(buf)%WordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMisaligned, len(buf))
	}

	words := make([]uint32, len(buf)/WordSize)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*WordSize:])
	}

	return words, nil
}

// ReadArtifact loads a persisted artifact
func ReadArtifact(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	words, err := DecodeWords(data)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact %s: %w", path, err)
	}

	return words, nil
}

// WriteArtifact creates or truncates path and writes words to it
func WriteArtifact(path string, words []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := f.Write(EncodeWords(words)); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// NeedsRecompile reports whether sourceFile must be translated again instead
// of loading artifactFile. The artifact is trusted only when the source was
// modified strictly before it. Any unavailable timestamp means recompile.
func NeedsRecompile(sourceFile, artifactFile string) bool {
	srcInfo, err := os.Stat(sourceFile)
	if err != nil {
		return true
	}

	artifactInfo, err := os.Stat(artifactFile)
	if err != nil {
		return true
	}

	srcTime, artifactTime := srcInfo.ModTime(), artifactInfo.ModTime()
	if srcTime.IsZero() || artifactTime.IsZero() {
		return true
	}

	return !srcTime.Before(artifactTime)
}

// RemoveArtifacts deletes the given artifact files. Missing files are ignored.
// Returns the number of files removed.
func RemoveArtifacts(paths []string) (int, error) {
	removed := 0
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return removed, fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
		}

		removed++
	}

	return removed, nil
}
