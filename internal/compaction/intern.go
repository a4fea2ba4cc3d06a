package compaction

import "sync"

// StringIntern provides thread-safe string interning. Design exports repeat
// the same type and layer-name strings thousands of times per document;
// interning makes equal strings share one allocation.
type StringIntern struct {
	mu   sync.RWMutex
	pool map[string]string
}

// MaxInternPoolSize caps the pool so documents with many unique strings
// cannot grow it without bound. Past the cap, strings pass through.
const MaxInternPoolSize = 100000

// NewStringIntern creates a new string interner.
func NewStringIntern() *StringIntern {
	return &StringIntern{
		pool: make(map[string]string, 1024),
	}
}

// Intern returns the canonical version of the string, storing it on first
// sight unless the pool is full.
func (si *StringIntern) Intern(s string) string {
	si.mu.RLock()
	if pooled, ok := si.pool[s]; ok {
		si.mu.RUnlock()
		return pooled
	}
	full := len(si.pool) >= MaxInternPoolSize
	si.mu.RUnlock()
	if full {
		return s
	}

	si.mu.Lock()
	defer si.mu.Unlock()
	if pooled, ok := si.pool[s]; ok {
		return pooled
	}
	if len(si.pool) >= MaxInternPoolSize {
		return s
	}
	si.pool[s] = s
	return s
}

// Len returns the number of unique strings in the pool.
func (si *StringIntern) Len() int {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return len(si.pool)
}

// Clear removes all interned strings.
func (si *StringIntern) Clear() {
	si.mu.Lock()
	defer si.mu.Unlock()
	si.pool = make(map[string]string, 1024)
}

// Global pool shared by decoders so repeated documents from the same design
// file dedupe against each other.
var globalIntern = NewStringIntern()

// GetGlobalIntern returns the global string interner.
func GetGlobalIntern() *StringIntern {
	return globalIntern
}

// ResetGlobalIntern clears the global intern pool. Call between documents
// to release memory.
func ResetGlobalIntern() {
	globalIntern.Clear()
}
