package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
)

// DefaultAdjudicationTimeout сколько ждать проверки постера моделью
const DefaultAdjudicationTimeout = 60 * time.Second

// ComplianceChecker проверка разметки постера. Ошибок не возвращает, только вердикт.
type ComplianceChecker interface {
	Check(ctx context.Context, markup string, objects []entity.DetectedObject, cctx entity.ComplianceContext) entity.Verdict
}

// PosterRequest данные для генерации постера
type PosterRequest struct {
	Form    entity.PosterForm
	Objects []entity.DetectedObject
}

// PosterResult итог генерации. Если проверка не пройдена, Layouts содержит только первый вариант.
type PosterResult struct {
	ID         string          `json:"id"`
	Passed     bool            `json:"passed"`
	Compliance entity.Verdict  `json:"compliance"`
	Layouts    []entity.Layout `json:"layouts"`
}

// PosterService генерирует постер, проверяет его и досоздаёт остальные форматы
type PosterService struct {
	palettes  *PaletteService
	generator port.LayoutGenerator
	checker   ComplianceChecker
	timeout   time.Duration
	logger    *zap.Logger
}

// NewPosterService создаёт сервис. generator может быть nil, тогда постеры собираются по шаблону.
func NewPosterService(palettes *PaletteService, generator port.LayoutGenerator, checker ComplianceChecker, timeout time.Duration, logger *zap.Logger) *PosterService {
	if timeout <= 0 {
		timeout = DefaultAdjudicationTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PosterService{
		palettes:  palettes,
		generator: generator,
		checker:   checker,
		timeout:   timeout,
		logger:    logger,
	}
}

// Generate создаёт квадратный постер и проверяет его. Вертикальный и горизонтальный
// варианты генерируются параллельно и только после успешной проверки.
func (s *PosterService) Generate(ctx context.Context, req PosterRequest) (*PosterResult, error) {
	id := uuid.NewString()
	log := s.logger.With(zap.String("poster_id", id))
	result := &PosterResult{ID: id}

	if s.palettes != nil {
		if err := s.palettes.Record(ctx, req.Form.Palette()); err != nil {
			if errors.Is(err, ErrIncompletePalette) {
				log.Debug("palette not recorded", zap.Error(err))
			} else {
				log.Warn("palette not recorded", zap.Error(err))
			}
		}
	}

	first, err := s.layout(ctx, log, entity.CanvasSquare, req)
	if err != nil {
		return nil, err
	}
	result.Layouts = []entity.Layout{*first}

	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	verdict := s.checker.Check(checkCtx, first.Content, req.Objects, entity.ComplianceContext{
		UserInputs: req.Form.UserInputs(),
		Format:     first.Format,
	})
	cancel()
	result.Compliance = verdict

	if !verdict.Passed {
		log.Info("poster failed compliance", zap.String("reason", verdict.Reason))
		return result, nil
	}

	variants := []entity.Format{entity.CanvasStory, entity.CanvasLandscape}
	layouts := make([]entity.Layout, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	for i, canvas := range variants {
		g.Go(func() error {
			l, err := s.layout(gctx, log, canvas, req)
			if err != nil {
				return err
			}
			layouts[i] = *l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Passed = true
	result.Layouts = append(result.Layouts, layouts...)
	log.Info("poster generated", zap.Int("layouts", len(result.Layouts)))
	return result, nil
}

// layout генерирует вариант моделью, при ошибке собирает его по шаблону.
// Ошибку возвращает только при отмене контекста.
func (s *PosterService) layout(ctx context.Context, log *zap.Logger, canvas entity.Format, req PosterRequest) (*entity.Layout, error) {
	if s.generator != nil {
		l, err := s.generator.GenerateLayout(ctx, entity.LayoutRequest{
			Canvas:  canvas,
			Form:    req.Form,
			Objects: req.Objects,
		})
		if err == nil && l != nil {
			return l, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn("layout generation failed, using template",
			zap.Int("width", canvas.Width), zap.Int("height", canvas.Height), zap.Error(err))
	}
	return renderFallback(canvas, req.Form)
}
