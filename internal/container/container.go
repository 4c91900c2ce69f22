package container

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"postergen/config"
	app "postergen/internal/application"
	"postergen/internal/compliance"
	"postergen/internal/domain/port"
	"postergen/internal/infrastructure/gemini"
	"postergen/internal/infrastructure/rembg"
	"postergen/internal/infrastructure/storage"
	"postergen/internal/infrastructure/vision"
)

const rembgTimeout = 30 * time.Second

// Deps внешние зависимости. Любая, кроме хранилищ, может быть nil.
type Deps struct {
	Palettes  port.PaletteRepository
	Sessions  port.SessionRepository
	Reasoner  port.Reasoner
	Generator port.LayoutGenerator
	Analyzer  port.ProductAnalyzer
	Inspector port.ImageInspector
	Remover   port.BackgroundRemover
	Rules     *compliance.Rules
	Timeout   time.Duration
}

type Container struct {
	Checker         *compliance.Checker
	PaletteService  *app.PaletteService
	SessionService  *app.SessionService
	AnalysisService *app.AnalysisService
	PosterService   *app.PosterService

	closers []func() error
}

func New(deps Deps, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	checker := compliance.NewChecker(deps.Reasoner, deps.Rules, logger.Named("compliance"))
	paletteService := app.NewPaletteService(deps.Palettes)

	return &Container{
		Checker:         checker,
		PaletteService:  paletteService,
		SessionService:  app.NewSessionService(deps.Sessions),
		AnalysisService: app.NewAnalysisService(deps.Remover, deps.Inspector, deps.Analyzer, logger.Named("analysis")),
		PosterService:   app.NewPosterService(paletteService, deps.Generator, checker, deps.Timeout, logger.Named("poster")),
	}
}

// Build создаёт инфраструктуру по конфигурации и собирает сервисы.
// Без ключа Gemini постеры собираются по шаблону, а проверка всегда завершается FAIL.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rules, err := compliance.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}

	palettes, err := storage.OpenPaletteStore(ctx, cfg.PaletteDSN)
	if err != nil {
		return nil, err
	}

	deps := Deps{
		Palettes:  palettes,
		Sessions:  storage.NewMemorySessionRepository(),
		Inspector: vision.NewGoCVInspector(),
		Rules:     rules,
		Timeout:   cfg.AdjudicationTimeout,
	}

	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:         cfg.GeminiAPIKey,
			ReasoningModel: cfg.GeminiReasoningModel,
			LayoutModel:    cfg.GeminiLayoutModel,
			VisionModel:    cfg.GeminiVisionModel,
		}, logger.Named("gemini"))
		if err != nil {
			_ = palettes.Close()
			return nil, err
		}
		deps.Reasoner = client
		deps.Generator = client
		deps.Analyzer = client
	} else {
		logger.Warn("GEMINI_API_KEY is not set, compliance checks will fail closed")
	}

	if cfg.RembgURL != "" {
		deps.Remover = rembg.NewClient(cfg.RembgURL, rembgTimeout)
	}

	c := New(deps, logger)
	c.closers = append(c.closers, palettes.Close)
	return c, nil
}

// Close освобождает ресурсы хранилищ
func (c *Container) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
