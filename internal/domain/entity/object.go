package entity

// BBox рамка объекта в формате [x1, y1, x2, y2]
type BBox [4]float64

// Center возвращает координаты центра рамки
func (b BBox) Center() (x, y float64) {
	return (b[0] + b[2]) / 2, (b[1] + b[3]) / 2
}

// DetectedObject объект, найденный на фото товара внешним анализом
type DetectedObject struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence,omitempty"`
	BBox       *BBox    `json:"bbox,omitempty"`
}
