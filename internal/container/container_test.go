package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"postergen/config"
	app "postergen/internal/application"
	"postergen/internal/domain/entity"
	"postergen/internal/infrastructure/storage"
)

func TestNew(t *testing.T) {
	c := New(Deps{
		Palettes: storage.NewMemoryPaletteRepository(),
		Sessions: storage.NewMemorySessionRepository(),
	}, nil)

	ctx := context.Background()
	session, err := c.SessionService.BeginPoster(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, session.State)

	v := c.Checker.Check(ctx, `<h1>Fresh</h1>`, nil, entity.ComplianceContext{})
	require.False(t, v.Passed)
	require.Contains(t, v.Reason, "compliance engine failed")

	result, err := c.PosterService.Generate(ctx, app.PosterRequest{Form: entity.PosterForm{Headline: "Fresh"}})
	require.NoError(t, err)
	require.False(t, result.Passed)
	require.True(t, result.Layouts[0].Fallback)
}

func TestBuild(t *testing.T) {
	cfg := &config.Config{
		PaletteDSN:          filepath.Join(t.TempDir(), "palettes.db"),
		AdjudicationTimeout: config.DefaultAdjudicationTimeout,
	}

	c, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.PaletteService.Record(ctx, entity.Palette{Primary: "#1", Secondary: "#2", Accent: "#3", Background: "#4"}))
	palettes, err := c.PaletteService.Frequent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, palettes, 1)
}

func TestBuild_BadRules(t *testing.T) {
	cfg := &config.Config{RulesFile: filepath.Join(t.TempDir(), "missing.yaml")}

	_, err := Build(context.Background(), cfg, nil)
	require.Error(t, err)
}
