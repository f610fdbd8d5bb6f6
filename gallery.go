package charsheet

import (
	"context"
	"fmt"
	"path"
)

// GalleryEntry is a built-in portrait offered to users.
type GalleryEntry struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

var galleryEntries = []GalleryEntry{
	{Name: "Human ♂", Key: "human.m.png"}, {Name: "Human ♀", Key: "human.f.png"},
	{Name: "Elf ♂", Key: "elf.m.png"}, {Name: "Elf ♀", Key: "elf.f.png"},
	{Name: "Dwarf ♂", Key: "dwarf.m.png"}, {Name: "Dwarf ♀", Key: "dwarf.f.png"},
	{Name: "Kitsune ♂", Key: "kitsune.m.png"}, {Name: "Kitsune ♀", Key: "kitsune.f.png"},
	{Name: "Minas ♂", Key: "minas.m.png"}, {Name: "Minas ♀", Key: "minas.f.png"},
	{Name: "Serpent ♂", Key: "serpent.m.png"}, {Name: "Serpent ♀", Key: "serpent.f.png"},
}

var galleryKeys = func() map[string]struct{} {
	m := make(map[string]struct{}, len(galleryEntries))
	for _, e := range galleryEntries {
		m[e.Key] = struct{}{}
	}
	return m
}()

// GalleryEntries returns the built-in gallery in display order.
func GalleryEntries() []GalleryEntry {
	out := make([]GalleryEntry, len(galleryEntries))
	copy(out, galleryEntries)
	return out
}

// GalleryDir is the asset directory holding gallery images.
const GalleryDir = "portraits"

// Gallery resolves gallery keys to normalized portraits. Results are kept
// in a PortraitCache since normalization is deterministic.
type Gallery struct {
	assets AssetSource
	cache  PortraitCache

	// OnCacheError, when set, receives cache failures. They never fail a
	// lookup.
	OnCacheError func(op string, err error)
}

// NewGallery returns a Gallery reading images from assets. A nil cache
// disables caching.
func NewGallery(assets AssetSource, cache PortraitCache) *Gallery {
	return &Gallery{assets: assets, cache: cache}
}

// Entries returns the gallery listing.
func (g *Gallery) Entries() []GalleryEntry {
	return GalleryEntries()
}

// Portrait returns the normalized portrait for key.
func (g *Gallery) Portrait(ctx context.Context, key string) (Portrait, error) {
	if _, ok := galleryKeys[key]; !ok {
		return Portrait{}, fmt.Errorf("%w: %q", ErrUnknownPortrait, key)
	}
	if g.cache != nil {
		p, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			g.cacheError("get", err)
		} else if ok {
			return p, nil
		}
	}
	p, err := IngestAsset(ctx, g.assets, path.Join(GalleryDir, key))
	if err != nil {
		return Portrait{}, err
	}
	if g.cache != nil {
		if err := g.cache.Set(ctx, key, p); err != nil {
			g.cacheError("set", err)
		}
	}
	return p, nil
}

func (g *Gallery) cacheError(op string, err error) {
	if g.OnCacheError != nil {
		g.OnCacheError(op, err)
	}
}
