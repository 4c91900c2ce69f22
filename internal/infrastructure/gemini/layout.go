package gemini

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
)

//go:embed layout.tmpl
var layoutSource string

var layoutTemplate = template.Must(template.New("layout").Parse(layoutSource))

// ErrNotHTML модель вернула не HTML-документ
var ErrNotHTML = errors.New("model output is not an html document")

var (
	leadingFence  = regexp.MustCompile("(?i)^```html\\s*")
	trailingFence = regexp.MustCompile("```\\s*$")
)

type layoutData struct {
	Form       entity.PosterForm
	ImageURL   string
	LogoURL    string
	Background string
	Width      int
	Height     int
	Objects    string
}

// GenerateLayout просит модель свёрстать постер под заданный холст
func (c *Client) GenerateLayout(ctx context.Context, req entity.LayoutRequest) (*entity.Layout, error) {
	prompt, err := layoutPrompt(req)
	if err != nil {
		return nil, err
	}
	raw, err := c.generate(ctx, c.layoutModel, genai.Text(prompt))
	if err != nil {
		return nil, err
	}
	content, err := CleanHTML(raw, req.Canvas)
	if err != nil {
		return nil, err
	}
	return &entity.Layout{Format: req.Canvas, Type: "html", Content: content}, nil
}

func layoutPrompt(req entity.LayoutRequest) (string, error) {
	var sb strings.Builder
	err := layoutTemplate.Execute(&sb, layoutData{
		Form:       req.Form,
		ImageURL:   req.Form.ImageURL,
		LogoURL:    req.Form.LogoURL,
		Background: backgroundInstruction(req.Form),
		Width:      req.Canvas.Width,
		Height:     req.Canvas.Height,
		Objects:    objectLines(req.Objects),
	})
	if err != nil {
		return "", fmt.Errorf("render layout prompt: %w", err)
	}
	return sb.String(), nil
}

func backgroundInstruction(f entity.PosterForm) string {
	if f.BackgroundImageURL != "" {
		return "use " + f.BackgroundImageURL + " as the full-bleed background image; add overlays, blur or gradients so the product, badges and text stay legible"
	}
	bg := f.BgColor
	if bg == "" {
		bg = "#FFFFFF"
	}
	return "use " + bg + " as the base colour and build a rich background on top of it (gradients, soft glows, subtle patterns or abstract shapes) while keeping the base colour visible; no plain flat colour"
}

func objectLines(objects []entity.DetectedObject) string {
	lines := make([]string, 0, len(objects))
	for _, o := range objects {
		if label := strings.TrimSpace(o.Label); label != "" {
			lines = append(lines, "  - "+label)
		}
	}
	if len(lines) == 0 {
		return "  - (none detected)"
	}
	return strings.Join(lines, "\n")
}

// CleanHTML снимает markdown-обёртку и добавляет размеры холста в стили, если модель их забыла.
func CleanHTML(raw string, canvas entity.Format) (string, error) {
	html := strings.TrimSpace(raw)
	html = leadingFence.ReplaceAllString(html, "")
	html = trailingFence.ReplaceAllString(html, "")
	html = strings.TrimSpace(html)

	lower := strings.ToLower(html)
	if !strings.Contains(lower, "<html") && !strings.Contains(lower, "<!doctype") {
		return "", ErrNotHTML
	}

	width := fmt.Sprintf("width: %dpx", canvas.Width)
	height := fmt.Sprintf("height: %dpx", canvas.Height)
	if strings.Contains(html, width) && strings.Contains(html, height) {
		return html, nil
	}

	rule := fmt.Sprintf("body { margin: 0; padding: 0; %s; %s; overflow: hidden; }", width, height)
	switch {
	case strings.Contains(html, "<style>"):
		return strings.Replace(html, "<style>", "<style>\n"+rule+"\n", 1), nil
	case strings.Contains(lower, "</head>"):
		i := strings.Index(lower, "</head>")
		return html[:i] + "<style>\n" + rule + "\n</style>\n" + html[i:], nil
	default:
		return html, nil
	}
}

var _ port.LayoutGenerator = (*Client)(nil)
