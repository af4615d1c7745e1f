// Package cache stores generated Dart code keyed by the hash of everything that
// produced it, so unchanged layouts are not recompiled across runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const indexFile = "index.json"

// Cache is a directory of generated outputs plus an index of their metadata.
type Cache struct {
	mu     sync.Mutex
	dir    string
	maxAge time.Duration
	index  map[string]*Entry
	stats  Stats
}

// Entry describes one cached output.
type Entry struct {
	Key        string    `json:"key"`
	Source     string    `json:"source"`
	Size       int64     `json:"size"`
	Created    time.Time `json:"created"`
	LastAccess time.Time `json:"last_access"`
}

// Stats counts lookups since the cache was opened.
type Stats struct {
	Hits    int64
	Misses  int64
	Evicted int
	Entries int
}

// Config holds cache configuration
type Config struct {
	Dir    string        // Cache directory (default: <user cache dir>/flutterxml)
	MaxAge time.Duration // Entries not read for this long are evicted on Open
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return Config{
		Dir:    filepath.Join(dir, "flutterxml"),
		MaxAge: 14 * 24 * time.Hour,
	}
}

// Open loads the cache in cfg.Dir, creating the directory if needed, and evicts
// expired entries.
func Open(cfg Config) (*Cache, error) {
	if cfg.Dir == "" {
		cfg.Dir = DefaultConfig().Dir
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{dir: cfg.Dir, maxAge: cfg.MaxAge, index: map[string]*Entry{}}
	if err := c.load(); err != nil {
		// A corrupt index only costs a rebuild.
		c.index = map[string]*Entry{}
	}
	c.evictExpired(time.Now())
	return c, nil
}

// Key hashes inputs into a cache key. Inputs are length-prefixed so that
// ("ab", "c") and ("a", "bc") differ.
func Key(inputs ...string) string {
	h := sha256.New()
	for _, in := range inputs {
		fmt.Fprintf(h, "%d:%s", len(in), in)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the output stored under key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.index[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		delete(c.index, key)
		c.stats.Misses++
		return nil, false
	}
	entry.LastAccess = time.Now()
	c.stats.Hits++
	return data, true
}

// Put stores data under key. source names the layout it was generated from.
func (c *Cache) Put(key, source string, data []byte) error {
	if err := os.WriteFile(c.path(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	now := time.Now()
	c.mu.Lock()
	c.index[key] = &Entry{Key: key, Source: source, Size: int64(len(data)), Created: now, LastAccess: now}
	c.mu.Unlock()
	return nil
}

// Save writes the index back to disk.
func (c *Cache) Save() error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, indexFile), data, 0644)
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for key := range c.index {
		if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	c.index = map[string]*Entry{}
	return errors.Join(errs...)
}

// Stats returns a snapshot of the lookup counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.index)
	return s
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".dart")
}

func (c *Cache) load() error {
	data, err := os.ReadFile(filepath.Join(c.dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &c.index)
}

func (c *Cache) evictExpired(now time.Time) {
	if c.maxAge <= 0 {
		return
	}
	for key, entry := range c.index {
		if now.Sub(entry.LastAccess) > c.maxAge {
			os.Remove(c.path(key))
			delete(c.index, key)
			c.stats.Evicted++
		}
	}
}
