// Package cache stores rendered artifacts and fetched records.
//
// Three backends share the [Cache] interface:
//
//   - [FileCache] keeps entries on disk for the CLI
//   - [RedisCache] shares entries between server replicas
//   - [NullCache] disables caching
//
// Keys come from a [Keyer], so callers never build key strings by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs.
const (
	ArtifactTTL = 7 * 24 * time.Hour
	SourceTTL   = time.Hour
)
