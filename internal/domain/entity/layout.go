package entity

// PosterForm данные, которые пользователь ввёл для постера
type PosterForm struct {
	Headline           string `json:"headline"`
	Subheadline        string `json:"subheadline"`
	Price              string `json:"price"`
	Offer              string `json:"offer"` // цена по Clubcard, включает Clubcard-плашку
	Description        string `json:"description"`
	PrimaryColor       string `json:"primaryColor"`
	SecondaryColor     string `json:"secondaryColor"`
	AccentColor        string `json:"accentColor"`
	BgColor            string `json:"bgColor"`
	BackgroundMode     string `json:"backgroundMode"`
	ImageURL           string `json:"imageUrl"`
	LogoURL            string `json:"logoUrl"`
	BackgroundImageURL string `json:"backgroundImage"`
}

// Palette возвращает палитру, выбранную в форме
func (f PosterForm) Palette() Palette {
	return Palette{
		Primary:    f.PrimaryColor,
		Secondary:  f.SecondaryColor,
		Accent:     f.AccentColor,
		Background: f.BgColor,
	}
}

// UserInputs возвращает непустые поля формы в виде словаря для проверки и промпта.
func (f PosterForm) UserInputs() map[string]string {
	all := map[string]string{
		"headline":        f.Headline,
		"subheadline":     f.Subheadline,
		"price":           f.Price,
		"offer":           f.Offer,
		"description":     f.Description,
		"primaryColor":    f.PrimaryColor,
		"secondaryColor":  f.SecondaryColor,
		"accentColor":     f.AccentColor,
		"bgColor":         f.BgColor,
		"backgroundMode":  f.BackgroundMode,
		"imageUrl":        f.ImageURL,
		"logoUrl":         f.LogoURL,
		"backgroundImage": f.BackgroundImageURL,
	}
	out := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// LayoutRequest запрос на генерацию одного варианта постера
type LayoutRequest struct {
	Canvas  Format
	Form    PosterForm
	Objects []DetectedObject
}

// Layout готовый вариант постера
type Layout struct {
	Format   Format `json:"format"`
	Type     string `json:"type"` // всегда "html"
	Content  string `json:"content"`
	Fallback bool   `json:"fallback"` // собран по шаблону, без модели
}
