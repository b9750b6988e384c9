package variation

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader computes the known variations of one phenotype from storage.
type Loader func(ctx context.Context) ([]string, error)

// KnownVariations serves known variations per phenotype, possibly memoized.
type KnownVariations interface {
	Get(ctx context.Context, phenotypeID string, load Loader) ([]string, error)
	Invalidate(phenotypeID string)
}

// Recompute runs the loader on every call.
type Recompute struct{}

func (Recompute) Get(ctx context.Context, _ string, load Loader) ([]string, error) {
	return load(ctx)
}

func (Recompute) Invalidate(string) {}

// Cache memoizes loader results per phenotype ID.
//
// Every Invalidate bumps the phenotype's generation. A load only populates the
// cache if the generation it started under is still current, so a read that
// races with a write can never pin a result that misses the write.
type Cache struct {
	mu          sync.Mutex
	entries     map[string][]string
	generations map[string]uint64
	group       singleflight.Group
}

func NewCache() *Cache {
	return &Cache{
		entries:     make(map[string][]string),
		generations: make(map[string]uint64),
	}
}

func (c *Cache) Get(ctx context.Context, phenotypeID string, load Loader) ([]string, error) {
	c.mu.Lock()
	if known, ok := c.entries[phenotypeID]; ok {
		c.mu.Unlock()
		return slices.Clone(known), nil
	}
	generation := c.generations[phenotypeID]
	c.mu.Unlock()

	// Callers arriving after an Invalidate use a new flight key, so they never
	// join a load that started before the write.
	flight := phenotypeID + "#" + strconv.FormatUint(generation, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		known, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generations[phenotypeID] == generation {
			c.entries[phenotypeID] = known
		}
		c.mu.Unlock()
		return known, nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Clone(v.([]string)), nil
}

// Invalidate drops the cached value for phenotypeID. It must be called after
// every new report for that phenotype is committed.
func (c *Cache) Invalidate(phenotypeID string) {
	c.mu.Lock()
	delete(c.entries, phenotypeID)
	c.generations[phenotypeID]++
	c.mu.Unlock()
}

// Len reports how many phenotypes currently have a cached value.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
