package entity

// Format размер холста постера в пикселях
type Format struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Поддерживаемые форматы постеров
var (
	CanvasSquare    = Format{Width: 1080, Height: 1080}
	CanvasStory     = Format{Width: 1080, Height: 1920}
	CanvasLandscape = Format{Width: 1200, Height: 628}
)

// ComplianceContext метаданные, передаваемые сканеру и модели
type ComplianceContext struct {
	UserInputs map[string]string `json:"user_inputs"`
	Format     Format            `json:"format"`
}
