package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"postergen/internal/domain/entity"
	"postergen/internal/infrastructure/storage"
)

type failingPaletteRepo struct{}

func (failingPaletteRepo) Increment(context.Context, entity.Palette) error {
	return errors.New("disk full")
}

func (failingPaletteRepo) Top(context.Context, int) ([]entity.Palette, error) {
	return nil, errors.New("disk full")
}

func TestPaletteService_RecordAndFrequent(t *testing.T) {
	svc := NewPaletteService(storage.NewMemoryPaletteRepository())
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		p := entity.Palette{Primary: "#000", Secondary: "#111", Accent: "#222", Background: "#fff"}
		if i%2 == 0 {
			p.Primary = "#a0" + string(rune('0'+i))
		}
		require.NoError(t, svc.Record(ctx, p))
	}

	palettes, err := svc.Frequent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, palettes, 5)
	require.Equal(t, "#000", palettes[0].Primary)
	require.Equal(t, 4, palettes[0].UsageCount)

	palettes, err = svc.Frequent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, palettes, 2)
}

func TestPaletteService_DefaultLimit(t *testing.T) {
	svc := NewPaletteService(storage.NewMemoryPaletteRepository())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, svc.Record(ctx, entity.Palette{
			Primary: "#" + string(rune('a'+i)) + "00", Secondary: "#111", Accent: "#222", Background: "#fff",
		}))
	}

	palettes, err := svc.Frequent(ctx, -1)
	require.NoError(t, err)
	require.Len(t, palettes, DefaultFrequentLimit)
}

func TestPaletteService_Empty(t *testing.T) {
	svc := NewPaletteService(storage.NewMemoryPaletteRepository())

	palettes, err := svc.Frequent(context.Background(), 6)
	require.NoError(t, err)
	require.NotNil(t, palettes)
	require.Empty(t, palettes)
}

func TestPaletteService_Incomplete(t *testing.T) {
	svc := NewPaletteService(storage.NewMemoryPaletteRepository())

	err := svc.Record(context.Background(), entity.Palette{Primary: "#fff", Secondary: " ", Accent: "#000", Background: "#fff"})
	require.ErrorIs(t, err, ErrIncompletePalette)
}

func TestPaletteService_RepositoryErrors(t *testing.T) {
	svc := NewPaletteService(failingPaletteRepo{})
	ctx := context.Background()

	err := svc.Record(ctx, entity.Palette{Primary: "#1", Secondary: "#2", Accent: "#3", Background: "#4"})
	require.ErrorContains(t, err, "disk full")

	_, err = svc.Frequent(ctx, 6)
	require.ErrorContains(t, err, "disk full")
}
