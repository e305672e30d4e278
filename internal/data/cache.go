package data

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
	"sync"
	"time"

	"outage-resilience/internal/model"
	"outage-resilience/internal/resilience"
)

// CacheEntry represents a cached resilience result.
type CacheEntry struct {
	RunID     string
	Name      string
	Battery   model.BatteryParams
	Result    *resilience.Result
	ExpiresAt time.Time
}

// ResultCache keeps recent resilience results in memory. The engine is deterministic,
// so identical inputs can reuse an earlier result until it expires.
// A nil *ResultCache is valid and caches nothing.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	done  chan struct{}
}

// NewResultCache creates a cache and starts its cleanup goroutine; call Close to stop it.
// A non-positive ttl disables caching and returns nil.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		return nil
	}
	c := &ResultCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		done:  make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

// Get retrieves a cached entry if available and not expired
func (c *ResultCache) Get(key string) (*CacheEntry, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry, true
}

// Set stores a result in the cache. The entry's ExpiresAt is set from the cache TTL.
func (c *ResultCache) Set(key string, entry CacheEntry) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry.ExpiresAt = time.Now().Add(c.ttl)
	c.store[key] = &entry
}

// GetByRunID finds a live entry by the run ID it was stored under.
func (c *ResultCache) GetByRunID(runID string) (*CacheEntry, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	for _, entry := range c.store {
		if entry.RunID == runID && !now.After(entry.ExpiresAt) {
			return entry, true
		}
	}
	return nil, false
}

// Len counts entries, including expired ones not yet swept.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *ResultCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

func (c *ResultCache) Close() {
	if c == nil {
		return
	}
	close(c.done)
}

// cleanup periodically removes expired entries
func (c *ResultCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

func (c *ResultCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
		}
	}
}

// GenerateCacheKey hashes every input that affects a resilience result.
func GenerateCacheKey(battery model.BatteryParams, series model.SiteSeries) string {
	h := sha256.New()
	writeFloats(h, battery.EnergyCapacityKWh, battery.PowerCapacityKW, battery.RoundTripEfficiency)
	for _, s := range [][]float64{series.GenerationKW, series.CriticalLoadKW, series.SOCFraction} {
		// Length prefix separates the series.
		writeFloats(h, float64(len(s)))
		writeFloats(h, s...)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeFloats(h hash.Hash, vals ...float64) {
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
}
