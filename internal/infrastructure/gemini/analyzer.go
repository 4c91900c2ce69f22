package gemini

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
	"postergen/internal/llmjson"
)

// ErrNoAnalysis в ответе модели не нашлось JSON-объекта с анализом
var ErrNoAnalysis = errors.New("no analysis json in model output")

const analysisPrompt = `Analyze this product image. Return ONLY a valid JSON object with this structure:

{
  "product_type": "brief description of the product",
  "dominant_colors": ["#RRGGBB", "..."],
  "objects": [
    {"label": "...", "confidence": 0.95, "bbox": [x1, y1, x2, y2]}
  ]
}

"confidence" and "bbox" are optional. Detect all visible objects including products, packshots, people, bottles, glasses and logos.
Be concise and return only JSON.`

type analysisPayload struct {
	ProductType    string                  `json:"product_type"`
	DominantColors []string                `json:"dominant_colors"`
	Objects        []entity.DetectedObject `json:"objects"`
}

// AnalyzeProduct определяет тип товара и объекты на фото
func (c *Client) AnalyzeProduct(ctx context.Context, image []byte, mimeType string) (*entity.ProductAnalysis, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(analysisPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	raw, err := c.generate(ctx, c.visionModel, contents)
	if err != nil {
		return nil, err
	}

	var payload analysisPayload
	if !llmjson.DecodeObject(raw, &payload) {
		return nil, ErrNoAnalysis
	}
	if payload.Objects == nil {
		payload.Objects = []entity.DetectedObject{}
	}
	return &entity.ProductAnalysis{
		ProductType:    payload.ProductType,
		Objects:        payload.Objects,
		DominantColors: payload.DominantColors,
	}, nil
}

var _ port.ProductAnalyzer = (*Client)(nil)
