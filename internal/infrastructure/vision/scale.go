package vision

import (
	"math"

	"postergen/internal/domain/entity"
)

// productShare доля меньшей стороны холста, которую должен занимать товар
const productShare = 0.5

// SuggestScale рассчитывает масштаб товара по его области на изображении.
// Без области возвращается масштаб по умолчанию.
func SuggestScale(width, height int, content *entity.Rect) float64 {
	if content == nil {
		return entity.DefaultSuggestedScale
	}
	objSize := min(content.Width, content.Height)
	if objSize <= 0 {
		return 1.0
	}
	canvasSize := min(width, height)
	return math.Round(productShare*float64(canvasSize)/float64(objSize)*100) / 100
}
