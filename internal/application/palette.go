package app

import (
	"context"
	"errors"
	"fmt"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
)

// DefaultFrequentLimit сколько палитр показывать по умолчанию
const DefaultFrequentLimit = 6

// ErrIncompletePalette задан не каждый из четырёх цветов
var ErrIncompletePalette = errors.New("palette must have primary, secondary, accent and background colors")

// PaletteService учёт популярных палитр
type PaletteService struct {
	repo port.PaletteRepository
}

func NewPaletteService(repo port.PaletteRepository) *PaletteService {
	return &PaletteService{repo: repo}
}

// Record увеличивает счётчик палитры
func (s *PaletteService) Record(ctx context.Context, palette entity.Palette) error {
	palette = palette.Normalize()
	if !palette.Complete() {
		return ErrIncompletePalette
	}
	if err := s.repo.Increment(ctx, palette); err != nil {
		return fmt.Errorf("record palette: %w", err)
	}
	return nil
}

// Frequent возвращает самые популярные палитры. limit <= 0 означает DefaultFrequentLimit.
func (s *PaletteService) Frequent(ctx context.Context, limit int) ([]entity.Palette, error) {
	if limit <= 0 {
		limit = DefaultFrequentLimit
	}
	palettes, err := s.repo.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("frequent palettes: %w", err)
	}
	if palettes == nil {
		palettes = []entity.Palette{}
	}
	return palettes, nil
}
