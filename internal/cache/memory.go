package cache

// Key identifies an in-memory entry
type Key struct {
	// Path is the canonical source path
	Path string
	// Kind is the shader stage name
	Kind string
	// Fingerprint identifies the compiler configuration
	Fingerprint string
}

// Memory holds compiled word sequences for the lifetime of a compiler.
// Entries are never evicted. It is not safe for concurrent mutation.
type Memory struct {
	entries map[Key][]uint32
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[Key][]uint32),
	}
}

// Get returns a copy of the words stored under key
func (m *Memory) Get(key Key) ([]uint32, bool) {
	words, ok := m.entries[key]
	if !ok {
		return nil, false
	}

	return cloneWords(words), true
}

// Put replaces the entry for key with a copy of words
func (m *Memory) Put(key Key, words []uint32) {
	m.entries[key] = cloneWords(words)
}

// Len returns the number of entries
func (m *Memory) Len() int {
	return len(m.entries)
}

func cloneWords(words []uint32) []uint32 {
	out := make([]uint32, len(words))
	copy(out, words)

	return out
}
