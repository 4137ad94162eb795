// Package storage caches fetched bars, indicators and analysis results in
// buntdb so repeated renders do not hit the backend.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/buntdb"
)

const storedIndex = "stored_index"

// Cache is a JSON key-value cache with a per-entry TTL
type Cache struct {
	db  *buntdb.DB
	ttl time.Duration
	now func() time.Time
}

type entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Data     json.RawMessage `json:"data"`
}

// FromMemory creates an in-memory cache
func FromMemory(ttl time.Duration) (*Cache, error) {
	return NewCache(":memory:", ttl)
}

// FromFile creates a cache persisted to file
func FromFile(file string, ttl time.Duration) (*Cache, error) {
	return NewCache(file, ttl)
}

// NewCache opens a buntdb database. A non-positive ttl keeps entries forever.
func NewCache(source string, ttl time.Duration) (*Cache, error) {
	db, err := buntdb.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	if err := db.CreateIndex(storedIndex, "*", buntdb.IndexJSON("stored_at")); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Put stores value under key as JSON
func (c *Cache) Put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	content, err := json.Marshal(entry{StoredAt: c.now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	var opts *buntdb.SetOptions
	if c.ttl > 0 {
		opts = &buntdb.SetOptions{Expires: true, TTL: c.ttl}
	}

	return c.db.Update(func(tx *buntdb.Tx) error {
		if _, _, err := tx.Set(key, string(content), opts); err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
		return nil
	})
}

// Get decodes the value stored under key into out. It returns false when the
// key is absent or expired.
func (c *Cache) Get(key string, out any) (bool, error) {
	var content string
	err := c.db.View(func(tx *buntdb.Tx) error {
		var err error
		content, err = tx.Get(key)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var e entry
	if err := json.Unmarshal([]byte(content), &e); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(key string) error {
	err := c.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil
	}
	return err
}

// Keys returns the keys with prefix, oldest entry first
func (c *Cache) Keys(prefix string) ([]string, error) {
	var keys []string
	err := c.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend(storedIndex, func(key, _ string) bool {
			if strings.HasPrefix(key, prefix) {
				keys = append(keys, key)
			}
			return true
		})
	})
	return keys, err
}

// Close closes the underlying database
func (c *Cache) Close() error {
	return c.db.Close()
}

// BarsKey is the cache key of a ticker's bars
func BarsKey(ticker string) string {
	return "bars:" + strings.ToUpper(ticker)
}

// IndicatorsKey is the cache key of a ticker's indicator columns. The order
// of the requested columns does not matter.
func IndicatorsKey(ticker string, specs []string) string {
	sorted := make([]string, len(specs))
	for i, spec := range specs {
		sorted[i] = strings.ToUpper(spec)
	}
	sort.Strings(sorted)
	return "indicators:" + strings.ToUpper(ticker) + ":" + strings.Join(sorted, ",")
}

// ResultKey is the cache key of a scenario's last result
func ResultKey(scenarioID string) string {
	return "result:" + scenarioID
}
