// Package orncache persists resolved records in a key-value store, keyed by
// the name they were requested with.
package orncache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/openstax/openstax-resource-names/internal/db"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
)

const keySpace = "orn:"

// Shared codecs; both are safe for concurrent use and costly to build.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	decoder, _ = zstd.NewReader(nil)
)

// store is the consumer interface for the lookup cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, prefix string) ([]string, error)
}

// Repo implements the lookup cache on a key-value store.
type Repo struct {
	store  store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a cache repository. Keys are prefix + "orn:" + name. A zero ttl
// keeps entries until they are evicted.
func New(s store, prefix string, ttl time.Duration, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{store: s, prefix: prefix, ttl: ttl, logger: logger}
}

func (r *Repo) key(name string) string {
	return r.prefix + keySpace + name
}

// GetItem returns the cached record for name, or (nil, nil) on a miss.
// Entries that no longer decode are reported as misses and get overwritten on
// the next resolve.
func (r *Repo) GetItem(ctx context.Context, name string) (resource.Resource, error) {
	data, err := r.store.Get(ctx, r.key(name))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached %s: %w", name, err)
	}

	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		r.logger.Warn("Failed to decompress cached record", zap.String("orn", name), zap.Error(err))
		return nil, nil
	}
	item, err := resource.Decode(raw)
	if err != nil {
		r.logger.Warn("Failed to decode cached record", zap.String("orn", name), zap.Error(err))
		return nil, nil
	}
	return item, nil
}

// PutItem stores item under name. Writing the same item twice is harmless.
func (r *Repo) PutItem(ctx context.Context, name string, item resource.Resource) error {
	raw, err := resource.Encode(item)
	if err != nil {
		return err //nolint:wrapcheck // already names the record type
	}
	data := encoder.EncodeAll(raw, nil)

	if r.ttl > 0 {
		err = r.store.SetWithTTL(ctx, r.key(name), data, r.ttl)
	} else {
		err = r.store.Set(ctx, r.key(name), data)
	}
	if err != nil {
		return fmt.Errorf("put cached %s: %w", name, err)
	}
	return nil
}

// Evict removes the cached record for name.
func (r *Repo) Evict(ctx context.Context, name string) error {
	if err := r.store.Del(ctx, r.key(name)); err != nil {
		return fmt.Errorf("evict %s: %w", name, err)
	}
	return nil
}

// Purge removes every cached record and returns how many were removed.
func (r *Repo) Purge(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.prefix+keySpace)
	if err != nil {
		return 0, fmt.Errorf("list cached records: %w", err)
	}
	for i, k := range keys {
		if err := r.store.Del(ctx, k); err != nil {
			return i, fmt.Errorf("purge %s: %w", k, err)
		}
	}
	return len(keys), nil
}
