package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openstax/openstax-resource-names/internal/config"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
)

func testConfig(driver string) config.Config {
	cfg := config.Config{
		HTTP:  config.HTTPConfig{Port: 8080},
		Cache: config.CacheConfig{Driver: driver},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestOpenStore_None(t *testing.T) {
	store, err := OpenStore(context.Background(), testConfig(config.CacheNone).Cache, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.CacheConfig{Driver: "etcd"}, zap.NewNop())
	assert.ErrorContains(t, err, `unknown cache driver "etcd"`)
}

func TestOpenStore_BadgerInMemory(t *testing.T) {
	store, err := OpenStore(context.Background(), testConfig(config.CacheBadger).Cache, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}

func TestNew_WithoutCache(t *testing.T) {
	a, err := New(context.Background(), testConfig(config.CacheNone), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Cache)
	assert.NotNil(t, a.Engine)
	assert.NotNil(t, a.Search)
	assert.NotNil(t, a.Health)
}

func TestNew_BadgerCacheIsWired(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(config.CacheBadger), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Cache)

	name := "https://openstax.org/orn/book/physics"
	want := &resource.Book{ID: "physics", ORN: name, Type: resource.TypeBook, Title: "Physics"}
	require.NoError(t, a.Cache.PutItem(ctx, name, want))

	// A cached book resolves without touching the network.
	got, err := a.Engine.Locate(ctx, name)
	require.NoError(t, err)
	book, ok := got.(*resource.Book)
	require.True(t, ok)
	assert.Equal(t, "Physics", book.Title)
}

func TestNew_UnmatchedNameIsNotFound(t *testing.T) {
	a, err := New(context.Background(), testConfig(config.CacheNone), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	got, err := a.Engine.Locate(context.Background(), "https://example.com/nothing")
	require.NoError(t, err)
	assert.Equal(t, resource.TypeNotFound, got.Kind())
}
