package storage

import (
	"context"
	"sort"
	"sync"

	"postergen/internal/domain/entity"
)

type paletteEntry struct {
	palette entity.Palette
	seq     int
}

// MemoryPaletteRepository in-memory хранилище палитр. Используется, когда база не настроена.
type MemoryPaletteRepository struct {
	mu       sync.Mutex
	palettes map[[4]string]*paletteEntry
	seq      int
}

// NewMemoryPaletteRepository создаёт пустое хранилище
func NewMemoryPaletteRepository() *MemoryPaletteRepository {
	return &MemoryPaletteRepository{
		palettes: make(map[[4]string]*paletteEntry),
	}
}

// Increment создаёт палитру или увеличивает её счётчик
func (r *MemoryPaletteRepository) Increment(ctx context.Context, palette entity.Palette) error {
	palette = palette.Normalize()
	key := palette.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.palettes[key]; ok {
		e.palette.UsageCount++
		return nil
	}
	r.seq++
	palette.UsageCount = 1
	r.palettes[key] = &paletteEntry{palette: palette, seq: r.seq}

	return nil
}

// Top возвращает limit самых используемых палитр, при равенстве раньше идёт добавленная первой
func (r *MemoryPaletteRepository) Top(ctx context.Context, limit int) ([]entity.Palette, error) {
	r.mu.Lock()
	entries := make([]paletteEntry, 0, len(r.palettes))
	for _, e := range r.palettes {
		entries = append(entries, *e)
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].palette.UsageCount != entries[j].palette.UsageCount {
			return entries[i].palette.UsageCount > entries[j].palette.UsageCount
		}
		return entries[i].seq < entries[j].seq
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]entity.Palette, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.palette)
	}
	return out, nil
}

// Close ничего не делает
func (r *MemoryPaletteRepository) Close() error { return nil }

var _ PaletteStore = (*MemoryPaletteRepository)(nil)
