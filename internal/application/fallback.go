package app

import (
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"postergen/internal/domain/entity"
)

//go:embed templates/fallback_poster.html
var templatesFS embed.FS

var fallbackTemplate = template.Must(template.ParseFS(templatesFS, "templates/fallback_poster.html"))

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Тексты плашки магазина
const (
	clubcardTag = "Available in selected stores. Clubcard/app required. Ends 31/01"
	defaultTag  = "Available at Tesco"
)

type fallbackData struct {
	Form            entity.PosterForm
	Width           int
	Height          int
	Background      template.CSS
	Primary         template.CSS
	Text            template.CSS
	Tag             string
	HeadlineSize    int
	SubheadlineSize int
	PriceSize       int
	TagSize         int
	TileHeight      int
}

// renderFallback собирает постер по шаблону, без модели. Цены попадают только в плашку.
func renderFallback(canvas entity.Format, form entity.PosterForm) (*entity.Layout, error) {
	h := canvas.Height
	data := fallbackData{
		Form:            form,
		Width:           canvas.Width,
		Height:          h,
		Background:      cssColor(form.BgColor, "#87CEEB"),
		Primary:         cssColor(form.PrimaryColor, "#FFD700"),
		Text:            cssColor(form.SecondaryColor, "#000000"),
		Tag:             fallbackTag(form),
		HeadlineSize:    max(20, h*65/1000),
		SubheadlineSize: max(20, h*28/1000),
		PriceSize:       max(20, h*42/1000),
		TagSize:         max(20, h*22/1000),
		TileHeight:      max(80, h*12/100),
	}

	var sb strings.Builder
	if err := fallbackTemplate.Execute(&sb, data); err != nil {
		return nil, fmt.Errorf("render fallback poster: %w", err)
	}
	return &entity.Layout{
		Format:   canvas,
		Type:     "html",
		Content:  sb.String(),
		Fallback: true,
	}, nil
}

func fallbackTag(form entity.PosterForm) string {
	switch {
	case form.Offer != "":
		return clubcardTag
	case strings.TrimSpace(form.Description) != "":
		return form.Description
	default:
		return defaultTag
	}
}

func cssColor(c, def string) template.CSS {
	c = strings.TrimSpace(c)
	if !hexColor.MatchString(c) {
		c = def
	}
	return template.CSS(c)
}
