package catalog

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/misrsweets/sweetbot-go/internal/errors"
	"github.com/misrsweets/sweetbot-go/internal/logger"
)

// LoadFunc produces the source records for a (re)build, typically by
// parsing the catalog feed file.
type LoadFunc func(ctx context.Context) ([]Product, error)

// Store holds the live Index behind an atomic pointer. Readers call
// Current and never block; Reload builds a complete replacement Index and
// swaps the pointer, so a query observes either the fully-old or the
// fully-new index and never a mix.
type Store struct {
	idx    atomic.Pointer[Index]
	group  singleflight.Group
	logger *logger.Logger
}

// NewStore creates a Store starting from an empty index.
func NewStore(log *logger.Logger) *Store {
	s := &Store{logger: log.WithModule("catalog")}
	s.idx.Store(Build(nil, log))
	return s
}

// Current returns the live index. Never nil.
func (s *Store) Current() *Index {
	return s.idx.Load()
}

// Swap installs a pre-built index, returning the previous one.
func (s *Store) Swap(idx *Index) *Index {
	return s.idx.Swap(idx)
}

// Reload rebuilds the index from load and swaps it in. Concurrent calls
// are deduplicated; every caller gets the outcome of the single build.
// On failure the previous index stays live and the error is returned.
func (s *Store) Reload(ctx context.Context, load LoadFunc) (int, error) {
	v, err, _ := s.group.Do("reload", func() (any, error) {
		src, err := load(ctx)
		if err != nil {
			return 0, errors.Wrap(err, "load catalog feed")
		}
		if len(src) == 0 {
			// A feed that parses to nothing is treated as broken: the
			// previous index stays live rather than serving an empty menu.
			return 0, errors.ErrCatalogEmpty
		}

		idx := Build(src, s.logger)
		s.idx.Store(idx)
		s.logger.WithField("products", idx.Len()).
			WithField("aliases", len(idx.Aliases())).
			Info("Catalog reloaded")
		return idx.Len(), nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}
