// Package kvstore is the key-value persistence used when no relational
// database backs the marketplace. Values are whole JSON documents.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrInvalidKey  = errors.New("invalid key")
)

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// Store reads and writes whole values by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Options selects a Store implementation.
type Options struct {
	Driver      string // file, redis, memory
	Path        string
	RedisURL    string
	RedisPrefix string
}

// Open builds the Store described by opts.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "file":
		return NewFileStore(opts.Path)
	case "redis":
		return NewRedisStore(opts.RedisURL, opts.RedisPrefix)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown kv driver %q", opts.Driver)
	}
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
