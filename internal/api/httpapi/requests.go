package httpapi

import "postergen/internal/domain/entity"

type checkRequest struct {
	HTML       string                  `json:"html" validate:"required"`
	Objects    []entity.DetectedObject `json:"objects"`
	UserInputs map[string]string       `json:"user_inputs"`
	Format     *formatRequest          `json:"format"`
}

type formatRequest struct {
	Width  int `json:"width" validate:"gte=0"`
	Height int `json:"height" validate:"gte=0"`
}

type productAnalysisRequest struct {
	Objects []entity.DetectedObject `json:"objects"`
}

type generateRequest struct {
	Headline           string                  `json:"headline" validate:"required,max=200"`
	Subheadline        string                  `json:"subheadline" validate:"max=300"`
	Price              string                  `json:"price" validate:"max=50"`
	Offer              string                  `json:"offer" validate:"max=50"`
	Description        string                  `json:"description" validate:"max=500"`
	PrimaryColor       string                  `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor     string                  `json:"secondaryColor" validate:"omitempty,hexcolor"`
	AccentColor        string                  `json:"accentColor" validate:"omitempty,hexcolor"`
	BgColor            string                  `json:"bgColor" validate:"omitempty,hexcolor"`
	BackgroundMode     string                  `json:"backgroundMode" validate:"max=20"`
	ImageURL           string                  `json:"imageUrl" validate:"omitempty,url"`
	LogoURL            string                  `json:"logoUrl" validate:"omitempty,url"`
	BackgroundImageURL string                  `json:"backgroundImage" validate:"omitempty,url"`
	ProductAnalysis    *productAnalysisRequest `json:"product_analysis"`
}

func (r generateRequest) form() entity.PosterForm {
	return entity.PosterForm{
		Headline:           r.Headline,
		Subheadline:        r.Subheadline,
		Price:              r.Price,
		Offer:              r.Offer,
		Description:        r.Description,
		PrimaryColor:       r.PrimaryColor,
		SecondaryColor:     r.SecondaryColor,
		AccentColor:        r.AccentColor,
		BgColor:            r.BgColor,
		BackgroundMode:     r.BackgroundMode,
		ImageURL:           r.ImageURL,
		LogoURL:            r.LogoURL,
		BackgroundImageURL: r.BackgroundImageURL,
	}
}

func (r generateRequest) objects() []entity.DetectedObject {
	if r.ProductAnalysis == nil {
		return nil
	}
	return r.ProductAnalysis.Objects
}

type paletteRequest struct {
	PrimaryColor   string `json:"primaryColor" validate:"required"`
	SecondaryColor string `json:"secondaryColor" validate:"required"`
	AccentColor    string `json:"accentColor" validate:"required"`
	BgColor        string `json:"bgColor" validate:"required"`
}

func (r paletteRequest) palette() entity.Palette {
	return entity.Palette{
		Primary:    r.PrimaryColor,
		Secondary:  r.SecondaryColor,
		Accent:     r.AccentColor,
		Background: r.BgColor,
	}
}
