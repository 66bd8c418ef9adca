package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"photomarket/internal/logger"
)

// CurrentVersion is the schema version written into every document envelope.
const CurrentVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported document version")

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Document is a typed JSON value stored as one blob under key.
// Updates from one process are serialized; concurrent writers in other
// processes are last-write-wins.
type Document[T any] struct {
	store Store
	key   string
	empty func() T
	mu    sync.Mutex
}

func NewDocument[T any](store Store, key string, empty func() T) *Document[T] {
	return &Document[T]{store: store, key: key, empty: empty}
}

// Load returns the stored value. Missing or corrupt blobs yield the empty value.
func (d *Document[T]) Load(ctx context.Context) (T, error) {
	raw, err := d.store.Get(ctx, d.key)
	if errors.Is(err, ErrKeyNotFound) {
		return d.empty(), nil
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return d.decode(ctx, raw)
}

// Save replaces the whole document.
func (d *Document[T]) Save(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	b, err := json.Marshal(envelope{Version: CurrentVersion, Data: data})
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	return d.store.Set(ctx, d.key, b)
}

// Update runs load-modify-save under the document lock. fn errors abort the save.
func (d *Document[T]) Update(ctx context.Context, fn func(v *T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(&v); err != nil {
		return err
	}
	return d.Save(ctx, v)
}

// View loads the document under the same lock as Update.
func (d *Document[T]) View(ctx context.Context, fn func(v T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.Load(ctx)
	if err != nil {
		return err
	}
	return fn(v)
}

func (d *Document[T]) decode(ctx context.Context, raw []byte) (T, error) {
	if !gjson.ValidBytes(raw) {
		logger.CtxWarn(ctx, "corrupt kv document, using empty default", "key", d.key)
		return d.empty(), nil
	}

	payload := raw
	if version := gjson.GetBytes(raw, "version"); version.Exists() && gjson.GetBytes(raw, "data").Exists() {
		if version.Int() > CurrentVersion {
			var zero T
			return zero, fmt.Errorf("%w: %s has version %d", ErrUnsupportedVersion, d.key, version.Int())
		}
		payload = []byte(gjson.GetBytes(raw, "data").Raw)
	}
	// Unversioned blobs predate the envelope and hold the data directly.

	v := d.empty()
	if err := json.Unmarshal(payload, &v); err != nil {
		logger.CtxWarn(ctx, "kv document does not match schema, using empty default", "key", d.key, "error", err.Error())
		return d.empty(), nil
	}
	return v, nil
}
