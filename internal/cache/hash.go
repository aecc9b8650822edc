package cache

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes a canonical list of configuration settings.
// The caller is responsible for ordering settings consistently: include
// directories keep their search order, macro definitions are sorted.
func Fingerprint(settings []string) string {
	h := xxh3.New()

	for _, s := range settings {
		// length prefix keeps ("ab","c") distinct from ("a","bc")
		fmt.Fprintf(h, "%d:", len(s))
		h.WriteString(s)
	}

	return fmt.Sprintf("%016x", h.Sum64())
}
