package goldmarkmath

import (
	"sync"

	"golang.org/x/crypto/sha3"
)

// Memo keeps rendered formulas keyed by a hash of their source, documents
// repeating the same formula render it once. It is safe for concurrent use.
type Memo struct {
	mu      sync.RWMutex
	limit   int
	entries map[[32]byte]string
}

// NewMemo creates a memo holding up to limit formulas, 0 means no limit.
// When the limit is reached the memo starts over.
func NewMemo(limit int) *Memo {
	return &Memo{limit: limit, entries: map[[32]byte]string{}}
}

func memoKey(display bool, tex string) (key [32]byte) {
	h := sha3.New256()
	if display {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	h.Write([]byte(tex))
	h.Sum(key[:0])
	return
}

func (m *Memo) Get(display bool, tex string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	html, ok := m.entries[memoKey(display, tex)]
	return html, ok
}

func (m *Memo) Put(display bool, tex, html string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.limit > 0 && len(m.entries) >= m.limit {
		m.entries = map[[32]byte]string{}
	}

	m.entries[memoKey(display, tex)] = html
}

// Len returns the number of memoized formulas.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}
