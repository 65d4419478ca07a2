package internal

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/dcrodman/nb3cut/internal/nb3"
)

// paletteCache holds the palettes already decoded during a run, keyed by the
// path of the archive they came from. Entries never expire.
type paletteCache struct {
	cacheInstance *gocache.Cache
}

func newPaletteCache() *paletteCache {
	return &paletteCache{cacheInstance: gocache.New(gocache.NoExpiration, 0)}
}

func (c *paletteCache) Put(path string, p *nb3.Palette) {
	c.cacheInstance.Set(path, p, gocache.NoExpiration)
}

// Get fetches a palette from the cache, returning the value as well as whether
// or not the value was found (semantics similar to map).
func (c *paletteCache) Get(path string) (*nb3.Palette, bool) {
	v, ok := c.cacheInstance.Get(path)
	if !ok {
		return nil, false
	}
	return v.(*nb3.Palette), true
}
