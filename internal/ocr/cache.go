package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// ClientCache is a keyed cache of initialized Tesseract clients.
//
// Loading language models into a Tesseract client is the expensive part of
// recognition, so clients are created lazily on first use and reused for
// every later call with the same key. A key is the requested language set
// plus an engine variant string (see CacheKey).
//
// The map is guarded by a read-mostly lock: lookups take the read lock,
// loads and evictions the write lock. A cached client itself is not
// re-entrant, so each entry carries its own mutex and recognition calls
// against the same key are serialized while calls against different keys
// proceed in parallel.
//
// Lifecycle: lazy init on first use; Evict releases one client; Clear
// releases everything. There is no implicit global instance; callers own
// their cache, typically one per Recognizer.
type ClientCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewClientCache creates an empty cache ready for concurrent use.
func NewClientCache() *ClientCache {
	return &ClientCache{entries: make(map[string]*cacheEntry)}
}

// CacheKey builds the cache key for a language set and engine variant.
func CacheKey(languages []string, engine string) string {
	return strings.Join(languages, "+") + "/" + engine
}

// withClient runs fn against the cached client for key, creating and
// configuring the client first if the key has never been used. fn runs
// under the entry lock, so calls for the same key never overlap.
func (c *ClientCache) withClient(key string, languages []string, fn func(*gosseract.Client) error) error {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		entry, ok = c.entries[key]
		if !ok {
			client := gosseract.NewClient()
			if err := client.SetLanguage(languages...); err != nil {
				client.Close()
				c.mu.Unlock()
				return &RecognitionError{Op: "load model", Err: err}
			}
			entry = &cacheEntry{client: client}
			c.entries[key] = entry
		}
		c.mu.Unlock()
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.client)
}

// Evict closes and removes the client for key. It does nothing when the key
// is not cached.
func (c *ClientCache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		entry.mu.Lock()
		entry.client.Close()
		entry.mu.Unlock()
		delete(c.entries, key)
	}
}

// Clear closes and removes every cached client, releasing all native
// Tesseract resources. The cache stays usable afterwards.
func (c *ClientCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		entry.mu.Lock()
		entry.client.Close()
		entry.mu.Unlock()
		delete(c.entries, key)
	}
}

// Len reports the number of cached clients.
func (c *ClientCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RecognitionError wraps a failure of the underlying recognition engine.
// It is reported per image and never aborts a batch.
type RecognitionError struct {
	Op  string
	Err error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("ocr: %s: %v", e.Op, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }
