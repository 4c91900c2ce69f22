//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
)

// GoCVInspector заглушка для сборки без OpenCV
type GoCVInspector struct {
	MinAlpha   float32
	MinContour int
}

// NewGoCVInspector создаёт инспектор-заглушку (без OpenCV).
func NewGoCVInspector() *GoCVInspector {
	return &GoCVInspector{
		MinAlpha:   10,
		MinContour: 16,
	}
}

// Inspect возвращает ошибку, если сборка без тега gocv.
func (i *GoCVInspector) Inspect(ctx context.Context, imageData []byte) (*entity.ImageInfo, error) {
	_ = ctx
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

var _ port.ImageInspector = (*GoCVInspector)(nil)
