// Package cache stores LLM responses keyed by a hash of their input.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// BillNamespace prefixes keys for bill extraction results. Bump the version
// when the extraction prompt changes.
const BillNamespace = "claimtrackr:bill:v1"

// Key hashes content and prefixes it with namespace
func Key(namespace, content string) string {
	hash := sha256.Sum256([]byte(content))
	return namespace + ":" + hex.EncodeToString(hash[:])
}

// GetJSON decodes a cached value into out. A corrupt entry counts as a miss.
func GetJSON(c Cache, key string, out any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetJSON encodes v and stores it under key
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	return c.Set(key, data, ttl)
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }

func (Nop) Set(string, []byte, time.Duration) error { return nil }

func (Nop) Delete(string) error { return nil }

func (Nop) Clear() error { return nil }
