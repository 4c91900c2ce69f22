package port

import (
	"context"

	"postergen/internal/domain/entity"
)

// LayoutGenerator интерфейс генератора HTML-макетов постера
type LayoutGenerator interface {
	// GenerateLayout возвращает готовый HTML для заданного холста
	GenerateLayout(ctx context.Context, req entity.LayoutRequest) (*entity.Layout, error)
}
