package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/misrsweets/sweetbot-go/internal/errors"
	"github.com/misrsweets/sweetbot-go/internal/logger"
)

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore(logger.New("error"))
	idx := s.Current()
	require.NotNil(t, idx)
	assert.Equal(t, 0, idx.Len())
}

func TestReloadSwapsIndex(t *testing.T) {
	s := NewStore(logger.New("error"))

	n, err := s.Reload(context.Background(), func(context.Context) ([]Product, error) {
		return testProducts(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, s.Current().Len())
}

func TestReloadFailureKeepsOldIndex(t *testing.T) {
	s := NewStore(logger.New("error"))
	_, err := s.Reload(context.Background(), func(context.Context) ([]Product, error) {
		return testProducts(), nil
	})
	require.NoError(t, err)

	_, err = s.Reload(context.Background(), func(context.Context) ([]Product, error) {
		return nil, errors.New("feed gone")
	})
	require.Error(t, err)
	assert.Equal(t, 4, s.Current().Len(), "failed reload must not touch the live index")
}

func TestReloadRejectsEmptyFeed(t *testing.T) {
	s := NewStore(logger.New("error"))
	_, err := s.Reload(context.Background(), func(context.Context) ([]Product, error) {
		return testProducts(), nil
	})
	require.NoError(t, err)

	_, err = s.Reload(context.Background(), func(context.Context) ([]Product, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, apperrors.ErrCatalogEmpty)
	assert.Equal(t, 4, s.Current().Len(), "empty feed must not replace the live index")
}

// Concurrent reload triggers collapse into a single feed read.
func TestReloadDeduplicatesConcurrentCalls(t *testing.T) {
	s := NewStore(logger.New("error"))

	var calls atomic.Int64
	release := make(chan struct{})
	load := func(context.Context) ([]Product, error) {
		calls.Add(1)
		<-release
		return testProducts(), nil
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			n, err := s.Reload(context.Background(), load)
			assert.NoError(t, err)
			assert.Equal(t, 4, n)
		}()
	}

	// Let every goroutine join the in-flight load before releasing it
	close(start)
	for calls.Load() == 0 {
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent reloads must share one load")
}

// Concurrent readers during a reload must observe either the fully-old or
// the fully-new index, never a partial one.
func TestReloadAtomicity(t *testing.T) {
	s := NewStore(logger.New("error"))
	_, err := s.Reload(context.Background(), func(context.Context) ([]Product, error) {
		return testProducts()[:2], nil
	})
	require.NoError(t, err)

	var wrong atomic.Int64
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				idx := s.Current()
				// Each valid generation has exactly 2 or 4 products, and
				// every product is reachable via its own alias set.
				n := idx.Len()
				if n != 2 && n != 4 {
					wrong.Add(1)
				}
				if len(idx.Aliases()) < n {
					wrong.Add(1)
				}
			}
		}()
	}

	for range 50 {
		_, err := s.Reload(context.Background(), func(context.Context) ([]Product, error) {
			return testProducts(), nil
		})
		require.NoError(t, err)
		_, err = s.Reload(context.Background(), func(context.Context) ([]Product, error) {
			return testProducts()[:2], nil
		})
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()

	assert.Zero(t, wrong.Load(), "readers observed a partially built index")
}
