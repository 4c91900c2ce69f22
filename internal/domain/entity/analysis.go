package entity

// Rect прямоугольная область изображения
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageInfo сведения об изображении товара после удаления фона.
type ImageInfo struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Channels       int     `json:"channels,omitempty"`
	Content        *Rect   `json:"bbox,omitempty"` // непрозрачная область, если есть альфа-канал
	SuggestedScale float64 `json:"suggested_scale"`
}

// DefaultSuggestedScale масштаб товара, когда изображение не удалось разобрать
const DefaultSuggestedScale = 0.6

// ProductAnalysis результат анализа фото товара
type ProductAnalysis struct {
	ProductType       string           `json:"product_type"`
	Objects           []DetectedObject `json:"objects"`
	DominantColors    []string         `json:"dominant_colors,omitempty"`
	Image             *ImageInfo       `json:"image_info,omitempty"`
	BackgroundRemoved bool             `json:"background_removed"`
}
