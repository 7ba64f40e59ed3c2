package aerovaldb

import (
	"container/list"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize bounds the read cache when the caller does not
// configure one.
const DefaultCacheSize = 64

// CacheMetrics receives cache events.  Implementations must be safe for
// concurrent use; see metrics/prom for a Prometheus adapter.
type CacheMetrics interface {
	Hit()
	Miss()
	Eviction()
}

type nopMetrics struct{}

func (nopMetrics) Hit()      {}
func (nopMetrics) Miss()     {}
func (nopMetrics) Eviction() {}

type cacheEntry struct {
	content []byte
	modTime time.Time
	recency *list.Element
}

// LRUFileCache is a bounded in-memory cache of file content, keyed by
// canonical (symlink-resolved, absolute) path so that distinct
// spellings of the same physical file share one entry.  An entry is
// fresh while the file exists and its on-disk modification time has not
// advanced past the cached one; two writes within one mtime-resolution
// quantum are indistinguishable, which is a precision limit rather than
// a defect.
type LRUFileCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   *list.List // front is most recently used
	hits    int
	misses  int
	metrics CacheMetrics
	flight  singleflight.Group
}

// NewLRUFileCache returns a cache bounded to maxSize entries, evicted
// strictly least-recently-used.
func NewLRUFileCache(maxSize int) *LRUFileCache {
	c := &LRUFileCache{maxSize: maxSize, metrics: nopMetrics{}}
	c.reset()
	return c
}

// SetMetrics installs an event sink.  Pass nil to remove one.
func (c *LRUFileCache) SetMetrics(m CacheMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m == nil {
		m = nopMetrics{}
	}
	c.metrics = m
}

func (c *LRUFileCache) reset() {
	c.entries = make(map[string]*cacheEntry)
	c.order = list.New()
	c.hits = 0
	c.misses = 0
}

// canonicalPath resolves symlinks and returns an absolute path.  A file
// that does not exist yet cannot have symlinks resolved, so its cleaned
// absolute spelling is used instead.
func canonicalPath(path string) (abs string, err error) {
	abs, err = filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return filepath.Abs(filepath.Clean(path))
		}
		return "", errors.Wrapf(err, "canonicalize %s", path)
	}
	return filepath.Abs(abs)
}

// validLocked reports whether the entry for abs is still fresh.  Caller
// holds c.mu.
func (c *LRUFileCache) validLocked(abs string, entry *cacheEntry) bool {
	info, err := os.Stat(abs)
	if err != nil {
		return false
	}
	return !info.ModTime().After(entry.modTime)
}

// Get returns the content of the file at path.  With bypass set it
// always reads through without touching cache state or counters.
// Otherwise a fresh entry is served from memory and promoted to most
// recently used; anything else (absent, stale, deleted) is re-read from
// disk and stored.  Concurrent fills of the same canonical path are
// coalesced.
func (c *LRUFileCache) Get(path string, bypass bool) (buf []byte, err error) {
	abs, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}

	if bypass {
		return readFile(abs)
	}

	c.mu.Lock()
	if entry, ok := c.entries[abs]; ok && c.validLocked(abs, entry) {
		c.order.MoveToFront(entry.recency)
		c.hits++
		c.metrics.Hit()
		buf = entry.content
		c.mu.Unlock()
		log.Debugf("returning contents of %s from cache", abs)
		return buf, nil
	}
	c.misses++
	c.metrics.Miss()
	c.mu.Unlock()

	v, err, _ := c.flight.Do(abs, func() (interface{}, error) {
		log.Debugf("reading %s and adding to cache", abs)
		content, err := readFile(abs)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", abs)
		}
		c.store(abs, content, info.ModTime())
		return content, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Put records freshly written content for path with its current on-disk
// modification time, so a subsequent Get can hit without re-reading.
func (c *LRUFileCache) Put(content []byte, path string) (err error) {
	abs, err := canonicalPath(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return errors.Wrapf(err, "stat %s", abs)
	}
	c.store(abs, content, info.ModTime())
	return nil
}

func (c *LRUFileCache) store(abs string, content []byte, modTime time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[abs]; ok {
		entry.content = content
		entry.modTime = modTime
		c.order.MoveToFront(entry.recency)
		return
	}
	entry := &cacheEntry{content: content, modTime: modTime}
	entry.recency = c.order.PushFront(abs)
	c.entries[abs] = entry
	for len(c.entries) > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(string))
		c.metrics.Eviction()
		log.Debugf("evicted %s from cache", oldest.Value.(string))
	}
}

// InvalidateEntry removes one entry and its recency-order position.
// No-op if the path is not cached.
func (c *LRUFileCache) InvalidateEntry(path string) {
	abs, err := canonicalPath(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[abs]; ok {
		c.order.Remove(entry.recency)
		delete(c.entries, abs)
		log.Debugf("invalidated cache entry for %s", abs)
	}
}

// InvalidateAll resets entries, recency order and both counters.
func (c *LRUFileCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	log.Debug("cache invalidated")
}

// HitCount returns the number of cache hits since the last
// InvalidateAll.  Bypass reads are not counted.
func (c *LRUFileCache) HitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// MissCount returns the number of cache misses since the last
// InvalidateAll.  Bypass reads are not counted.
func (c *LRUFileCache) MissCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}

// Size returns the current number of entries.
func (c *LRUFileCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func readFile(abs string) (buf []byte, err error) {
	buf, err = os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: abs}
		}
		return nil, errors.Wrapf(err, "read %s", abs)
	}
	return buf, nil
}
