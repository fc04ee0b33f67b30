package form

import "github.com/erni27/imcache"

// SessionStore keeps raw form values between loads, keyed by schema source.
type SessionStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Remove(key string)
}

// MemoryStore is an in-process SessionStore. Entries never expire; they live
// until removed or the process exits.
type MemoryStore struct {
	cache *imcache.Cache[string, []byte]
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: imcache.New[string, []byte]()}
}

// Get returns a copy of the stored payload.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	value, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), value...), true
}

// Set stores a copy of value.
func (s *MemoryStore) Set(key string, value []byte) {
	s.cache.Set(key, append([]byte(nil), value...), imcache.WithNoExpiration())
}

// Remove drops key.
func (s *MemoryStore) Remove(key string) {
	s.cache.Remove(key)
}
