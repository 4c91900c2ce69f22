package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
)

// ErrEmptyImage изображение не передано
var ErrEmptyImage = errors.New("image is empty")

// fallbackProductType тип товара, когда анализ недоступен
const fallbackProductType = "Product"

// AnalysisService готовит фото товара: удаляет фон, измеряет и распознаёт объекты.
// Любой из шагов может быть не настроен или упасть, тогда используется запасной результат.
type AnalysisService struct {
	remover   port.BackgroundRemover
	inspector port.ImageInspector
	analyzer  port.ProductAnalyzer
	logger    *zap.Logger
}

// AnalysisOutput результат анализа и изображение, с которым дальше работать
type AnalysisOutput struct {
	Analysis *entity.ProductAnalysis
	Image    []byte
}

// NewAnalysisService создаёт сервис. Любая зависимость может быть nil.
func NewAnalysisService(remover port.BackgroundRemover, inspector port.ImageInspector, analyzer port.ProductAnalyzer, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		remover:   remover,
		inspector: inspector,
		analyzer:  analyzer,
		logger:    logger,
	}
}

// Analyze обрабатывает фото товара
func (s *AnalysisService) Analyze(ctx context.Context, image []byte, mimeType string) (*AnalysisOutput, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	out := &AnalysisOutput{Image: image}
	removed := false
	if s.remover != nil {
		cutout, err := s.remover.RemoveBackground(ctx, image)
		if err != nil {
			s.logger.Warn("background removal failed, using original image", zap.Error(err))
		} else if len(cutout) > 0 {
			out.Image = cutout
			mimeType = "image/png"
			removed = true
		}
	}

	analysis := s.analyze(ctx, out.Image, mimeType)
	analysis.BackgroundRemoved = removed
	analysis.Image = s.inspect(ctx, out.Image)
	out.Analysis = analysis

	return out, nil
}

func (s *AnalysisService) analyze(ctx context.Context, image []byte, mimeType string) *entity.ProductAnalysis {
	if s.analyzer != nil {
		analysis, err := s.analyzer.AnalyzeProduct(ctx, image, mimeType)
		if err == nil && analysis != nil {
			if analysis.Objects == nil {
				analysis.Objects = []entity.DetectedObject{}
			}
			return analysis
		}
		s.logger.Warn("product analysis failed, using fallback", zap.Error(err))
	}
	return &entity.ProductAnalysis{
		ProductType: fallbackProductType,
		Objects:     []entity.DetectedObject{},
	}
}

func (s *AnalysisService) inspect(ctx context.Context, image []byte) *entity.ImageInfo {
	if s.inspector != nil {
		info, err := s.inspector.Inspect(ctx, image)
		if err == nil && info != nil {
			return info
		}
		s.logger.Debug("image inspection unavailable", zap.Error(err))
	}
	return &entity.ImageInfo{SuggestedScale: entity.DefaultSuggestedScale}
}
