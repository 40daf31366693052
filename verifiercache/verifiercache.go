// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package verifiercache implements the persistent verifier-index/SRS
// store spec.md §6.6 describes: opaque postcard-encoded blobs named
// `{network}_{kind}`, loaded with soft-fail semantics (a warning is
// logged and the caller re-derives, rather than the cache aborting
// anything) and backed, here, by a LevelDB key/value store rather than
// one flat file per entry — the same durable-local-store role dcrd's
// own block index gives LevelDB, just keyed by name instead of height.
// An in-memory LRU sits in front of the store so a validator re-using
// the same verification key across many account updates in a block
// doesn't re-hit disk for each one.
package verifiercache

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/decred/slog"
)

// log is the package-level logging subsystem, wired up the same way
// every other package in this tree registers with UseLogger.
var log = slog.Disabled

// UseLogger sets the package-wide logger used to report soft load
// failures.
func UseLogger(logger slog.Logger) {
	log = logger
}

// blobKey names a cache entry the way spec.md's file layout does,
// `{network}_{kind}.postcard`, reused here as the LevelDB key rather
// than a filename.
func blobKey(network, kind string) string {
	return fmt.Sprintf("%s_%s.postcard", network, kind)
}

// entry is one LRU-tracked cache line.
type entry struct {
	key  string
	blob []byte
}

// Cache is a LevelDB-backed blob store with a bounded in-memory LRU
// front. The zero value is not usable; construct with Open.
type Cache struct {
	db *leveldb.DB

	mu       sync.Mutex
	front    map[string]*list.Element
	order    *list.List
	capacity int
}

// Open opens (creating if absent) the LevelDB store rooted at dir and
// wraps it with an LRU front of capacity entries. capacity <= 0
// disables the front cache; every Get then goes straight to LevelDB.
func Open(dir string, capacity int) (*Cache, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("verifiercache: open %s: %w", dir, err)
	}
	return &Cache{
		db:       db,
		front:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}, nil
}

// Close releases the underlying LevelDB handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached blob for (network, kind). A miss — whether
// because the entry was never stored or because the store could not
// be read — is reported as ok=false, never as an error: spec.md §6.6
// treats verifier-index load failures as soft, always recoverable by
// re-derivation. A read failure is logged as a warning; an entry that
// was never stored (leveldb.ErrNotFound) is not logged.
func (c *Cache) Get(network, kind string) (blob []byte, ok bool) {
	key := blobKey(network, kind)

	if b, hit := c.getFront(key); hit {
		return b, true
	}

	raw, err := c.db.Get([]byte(key), nil)
	if err != nil {
		if err != leveldb.ErrNotFound {
			log.Warnf("verifiercache: load %s failed, re-deriving: %v", key, err)
		}
		return nil, false
	}
	c.promote(key, raw)
	return raw, true
}

// Put stores blob under (network, kind), both in LevelDB and in the
// LRU front.
func (c *Cache) Put(network, kind string, blob []byte) error {
	key := blobKey(network, kind)
	if err := c.db.Put([]byte(key), blob, nil); err != nil {
		return fmt.Errorf("verifiercache: store %s: %w", key, err)
	}
	c.promote(key, blob)
	return nil
}

func (c *Cache) getFront(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.front[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).blob, true
}

// promote inserts or refreshes key in the LRU front, evicting the
// least-recently-used entry if capacity is exceeded. It never affects
// what's persisted in LevelDB — eviction here only drops the in-memory
// shortcut, not the underlying record.
func (c *Cache) promote(key string, blob []byte) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.front[key]; ok {
		el.Value.(*entry).blob = blob
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&entry{key: key, blob: blob})
	c.front[key] = el
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.front, oldest.Value.(*entry).key)
	}
}
