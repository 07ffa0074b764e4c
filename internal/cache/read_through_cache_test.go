package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeCacheManager is a minimal hand-rolled CacheManager for exercising
// ReadThroughCache without pulling in a generated mock package.
type fakeCacheManager struct {
	values       map[string][]*ExampleStruct
	refreshCalls int
	setCalls     int
}

func newFakeCacheManager() *fakeCacheManager {
	return &fakeCacheManager{values: map[string][]*ExampleStruct{}}
}

func (f *fakeCacheManager) Get(_ context.Context, key string) ([]*ExampleStruct, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeCacheManager) GetMultiple(_ context.Context, keys []string) (map[string][]*ExampleStruct, bool) {
	out := map[string][]*ExampleStruct{}
	for _, k := range keys {
		if v, ok := f.values[k]; ok {
			out[k] = v
		}
	}
	return out, len(out) > 0
}

func (f *fakeCacheManager) GetWithRefresh(ctx context.Context, key string, _ time.Duration) ([]*ExampleStruct, bool) {
	f.refreshCalls++
	return f.Get(ctx, key)
}

func (f *fakeCacheManager) Set(_ context.Context, key string, value []*ExampleStruct, _ time.Duration) {
	f.setCalls++
	f.values[key] = value
}

func (f *fakeCacheManager) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeCacheManager) Flush(_ context.Context) error {
	f.values = map[string][]*ExampleStruct{}
	return nil
}

type wrappedInput struct {
	Id int
}

func fetchByID(_ context.Context, input wrappedInput) ([]*ExampleStruct, error) {
	return []*ExampleStruct{{ID: input.Id}}, nil
}

func TestReadThroughCache_Get_WithCacheDisabled(t *testing.T) {
	manager := newFakeCacheManager()
	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](manager, fetchByID, true)

	examples, err := readThroughCache.Get(context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1}}, examples)
	require.Zero(t, manager.setCalls, "a disabled cache must never populate the backing store")
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	manager := newFakeCacheManager()
	manager.values["key"] = []*ExampleStruct{{ID: 1, Name: "Example"}}
	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](manager, fetchByID, false)

	examples, err := readThroughCache.Get(context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1, Name: "Example"}}, examples)
}

func TestReadThroughCache_Get_EmptyCache(t *testing.T) {
	manager := newFakeCacheManager()
	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](manager, fetchByID, false)

	examples, err := readThroughCache.Get(context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1}}, examples)
	require.Equal(t, 1, manager.setCalls)
}

func TestReadThroughCache_Get_FetchError(t *testing.T) {
	manager := newFakeCacheManager()
	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(context.Context, wrappedInput) ([]*ExampleStruct, error) {
			return nil, errors.New("failed to get data")
		},
		false,
	)

	_, err := readThroughCache.Get(context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.Error(t, err)
	require.Zero(t, manager.setCalls)
}

func TestReadThroughCache_GetWithRefresh_WithValueInCache(t *testing.T) {
	manager := newFakeCacheManager()
	manager.values["key"] = []*ExampleStruct{{ID: 1, Name: "Example"}}
	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](manager, fetchByID, false)

	examples, err := readThroughCache.GetWithRefresh(context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1, Name: "Example"}}, examples)
	require.Equal(t, 1, manager.refreshCalls)
}

func TestReadThroughCache_GetWithRefresh_EmptyCache(t *testing.T) {
	manager := newFakeCacheManager()
	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](manager, fetchByID, false)

	examples, err := readThroughCache.GetWithRefresh(context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1}}, examples)
	require.Equal(t, 1, manager.setCalls)
}

func TestReadThroughCache_GetWithRefresh_FetchError(t *testing.T) {
	manager := newFakeCacheManager()
	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(context.Context, wrappedInput) ([]*ExampleStruct, error) {
			return nil, errors.New("failed to get data")
		},
		false,
	)

	_, err := readThroughCache.GetWithRefresh(context.Background(), "key", wrappedInput{Id: 1}, time.Minute)
	require.Error(t, err)
}
