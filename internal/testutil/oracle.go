package testutil

import "sync"

// WordOracle is an in-memory spelling oracle.
//
// Thread-safety: all methods are safe for concurrent use.
type WordOracle struct {
	mu    sync.Mutex
	words map[string]bool
	asked []string
}

// NewWordOracle creates an oracle that accepts exactly words.
func NewWordOracle(words ...string) *WordOracle {
	o := &WordOracle{words: make(map[string]bool, len(words))}
	for _, w := range words {
		o.words[w] = true
	}
	return o
}

// IsValidWord reports whether word was registered, and remembers the query.
func (o *WordOracle) IsValidWord(word string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.asked = append(o.asked, word)
	return o.words[word]
}

// Asked returns every word queried so far, in order.
func (o *WordOracle) Asked() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.asked...)
}
