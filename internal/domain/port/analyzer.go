package port

import (
	"context"

	"postergen/internal/domain/entity"
)

// ProductAnalyzer интерфейс анализа фото товара
type ProductAnalyzer interface {
	// AnalyzeProduct определяет тип товара и объекты на изображении
	AnalyzeProduct(ctx context.Context, image []byte, mimeType string) (*entity.ProductAnalysis, error)
}

// ImageInspector интерфейс чтения параметров изображения
type ImageInspector interface {
	// Inspect возвращает размеры изображения и область товара
	Inspect(ctx context.Context, image []byte) (*entity.ImageInfo, error)
}

// BackgroundRemover интерфейс внешнего сервиса удаления фона
type BackgroundRemover interface {
	// RemoveBackground возвращает PNG без фона
	RemoveBackground(ctx context.Context, image []byte) ([]byte, error)
}
