package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"postergen/internal/domain/entity"
)

type fakeModels struct {
	text string
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func TestClient_ReasonOverText(t *testing.T) {
	fake := &fakeModels{text: `  {"passed": true}  `}
	c := newClient(fake, Config{}, nil)

	out, err := c.ReasonOverText(context.Background(), "check this")
	require.NoError(t, err)
	require.Equal(t, `{"passed": true}`, out)
	require.Equal(t, DefaultReasoningModel, fake.model)
	require.Equal(t, "check this", fake.contents[0].Parts[0].Text)
	require.Equal(t, float32(1.0), *fake.config.Temperature)
	require.Equal(t, float32(0.95), *fake.config.TopP)
	require.EqualValues(t, maxOutputTokens, fake.config.MaxOutputTokens)
}

func TestClient_Errors(t *testing.T) {
	c := newClient(&fakeModels{err: errors.New("quota exceeded")}, Config{ReasoningModel: "custom"}, nil)
	_, err := c.ReasonOverText(context.Background(), "p")
	require.ErrorContains(t, err, "custom")
	require.ErrorContains(t, err, "quota exceeded")

	c = newClient(&fakeModels{text: "   "}, Config{}, nil)
	_, err = c.ReasonOverText(context.Background(), "p")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, nil)
	require.Error(t, err)
}

func TestClient_GenerateLayout(t *testing.T) {
	fake := &fakeModels{text: "```html\n<!DOCTYPE html><html><head><style>h1{}</style></head><body><h1>Fresh</h1></body></html>\n```"}
	c := newClient(fake, Config{LayoutModel: "layout-model"}, nil)

	layout, err := c.GenerateLayout(context.Background(), entity.LayoutRequest{
		Canvas:  entity.CanvasStory,
		Form:    entity.PosterForm{Headline: "Fresh", Offer: "£1.50", BgColor: "#fafafa"},
		Objects: []entity.DetectedObject{{Label: "juice"}},
	})
	require.NoError(t, err)
	require.Equal(t, "layout-model", fake.model)
	require.Equal(t, entity.CanvasStory, layout.Format)
	require.Equal(t, "html", layout.Type)
	require.False(t, layout.Fallback)
	require.Contains(t, layout.Content, "width: 1080px; height: 1920px")
	require.NotContains(t, layout.Content, "```")

	prompt := fake.contents[0].Parts[0].Text
	require.Contains(t, prompt, "Headline: Fresh")
	require.Contains(t, prompt, "  - juice")
	require.Contains(t, prompt, "Clubcard Prices")
	require.Contains(t, prompt, "#fafafa")
	require.Contains(t, prompt, "top 200px")
}

func TestClient_GenerateLayout_NotHTML(t *testing.T) {
	c := newClient(&fakeModels{text: "Sorry, I can't draw that."}, Config{}, nil)

	_, err := c.GenerateLayout(context.Background(), entity.LayoutRequest{Canvas: entity.CanvasSquare})
	require.ErrorIs(t, err, ErrNotHTML)
}

func TestLayoutPrompt_WhiteTile(t *testing.T) {
	prompt, err := layoutPrompt(entity.LayoutRequest{
		Canvas: entity.CanvasLandscape,
		Form:   entity.PosterForm{Price: "£2", BackgroundImageURL: "http://cdn/bg.png"},
	})
	require.NoError(t, err)
	require.Contains(t, prompt, "White value tile")
	require.Contains(t, prompt, "http://cdn/bg.png as the full-bleed background")
	require.Contains(t, prompt, "Logo URL: none")
	require.Contains(t, prompt, "  - (none detected)")
	require.NotContains(t, prompt, "top 200px")
}

func TestCleanHTML(t *testing.T) {
	canvas := entity.CanvasSquare

	out, err := CleanHTML("<html><style>body { width: 1080px; height: 1080px; }</style></html>", canvas)
	require.NoError(t, err)
	require.Equal(t, "<html><style>body { width: 1080px; height: 1080px; }</style></html>", out)

	out, err = CleanHTML("<!doctype html><html><head></head><body></body></html>", canvas)
	require.NoError(t, err)
	require.Contains(t, out, "<style>\nbody { margin: 0; padding: 0; width: 1080px; height: 1080px; overflow: hidden; }\n</style>\n</head>")

	_, err = CleanHTML("```html\n<div>no document</div>\n```", canvas)
	require.ErrorIs(t, err, ErrNotHTML)
}

func TestClient_AnalyzeProduct(t *testing.T) {
	fake := &fakeModels{text: "Here you go:\n```json\n{\"product_type\": \"Orange juice\", \"dominant_colors\": [\"#FFA500\"], \"objects\": [{\"label\": \"bottle\", \"confidence\": 0.9, \"bbox\": [1, 2, 3, 4]}]}\n```"}
	c := newClient(fake, Config{VisionModel: "vision"}, nil)

	analysis, err := c.AnalyzeProduct(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png")
	require.NoError(t, err)
	require.Equal(t, "vision", fake.model)
	require.Equal(t, "Orange juice", analysis.ProductType)
	require.Equal(t, []string{"#FFA500"}, analysis.DominantColors)
	require.Len(t, analysis.Objects, 1)
	require.Equal(t, "bottle", analysis.Objects[0].Label)
	require.InDelta(t, 0.9, *analysis.Objects[0].Confidence, 1e-9)
	require.Equal(t, entity.BBox{1, 2, 3, 4}, *analysis.Objects[0].BBox)

	parts := fake.contents[0].Parts
	require.Len(t, parts, 2)
	require.Equal(t, "image/png", parts[1].InlineData.MIMEType)
}

func TestClient_AnalyzeProduct_NoJSON(t *testing.T) {
	c := newClient(&fakeModels{text: "a bottle of juice"}, Config{}, nil)

	_, err := c.AnalyzeProduct(context.Background(), []byte("img"), "image/jpeg")
	require.ErrorIs(t, err, ErrNoAnalysis)
}

func TestClient_AnalyzeProduct_NoObjects(t *testing.T) {
	c := newClient(&fakeModels{text: `{"product_type": "Soap"}`}, Config{}, nil)

	analysis, err := c.AnalyzeProduct(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.NotNil(t, analysis.Objects)
	require.Empty(t, analysis.Objects)
}
