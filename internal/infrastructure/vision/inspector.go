//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"image"

	"gocv.io/x/gocv"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
)

// GoCVInspector определяет размеры изображения и область товара по альфа-каналу.
type GoCVInspector struct {
	MinAlpha   float32 // пиксели прозрачнее считаются фоном
	MinContour int     // контуры меньшей площади отбрасываются как шум
}

// NewGoCVInspector создаёт инспектор с порогами по умолчанию.
func NewGoCVInspector() *GoCVInspector {
	return &GoCVInspector{
		MinAlpha:   10,
		MinContour: 16,
	}
}

// Inspect возвращает сведения об изображении. Область товара заполняется,
// только если у изображения есть альфа-канал (фон уже удалён).
func (i *GoCVInspector) Inspect(ctx context.Context, imageData []byte) (*entity.ImageInfo, error) {
	_ = ctx
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	info := &entity.ImageInfo{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
	}
	if mat.Channels() == 4 {
		info.Content = i.contentRect(mat)
	}
	info.SuggestedScale = SuggestScale(info.Width, info.Height, info.Content)

	return info, nil
}

// contentRect объединяет рамки всех непрозрачных контуров.
func (i *GoCVInspector) contentRect(mat gocv.Mat) *entity.Rect {
	channels := gocv.Split(mat)
	for k := range channels {
		defer channels[k].Close()
	}

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(channels[3], &mask, i.MinAlpha, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var bounds image.Rectangle
	for k := 0; k < contours.Size(); k++ {
		rect := gocv.BoundingRect(contours.At(k))
		if rect.Dx()*rect.Dy() < i.MinContour {
			continue
		}
		bounds = bounds.Union(rect)
	}
	if bounds.Empty() {
		return nil
	}

	return &entity.Rect{
		X:      bounds.Min.X,
		Y:      bounds.Min.Y,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
}

// decodeToMat превращает байты изображения в gocv.Mat, сохраняя альфа-канал.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadUnchanged)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

var _ port.ImageInspector = (*GoCVInspector)(nil)
