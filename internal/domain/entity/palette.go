package entity

import "strings"

// Palette цветовая палитра постера и счётчик её использования
type Palette struct {
	Primary    string `json:"primaryColor"`
	Secondary  string `json:"secondaryColor"`
	Accent     string `json:"accentColor"`
	Background string `json:"bgColor"`
	UsageCount int    `json:"usageCount,omitempty"`
}

// Normalize приводит цвета к единому виду, чтобы "#FFF" и " #fff" считались одной палитрой.
func (p Palette) Normalize() Palette {
	p.Primary = normalizeColor(p.Primary)
	p.Secondary = normalizeColor(p.Secondary)
	p.Accent = normalizeColor(p.Accent)
	p.Background = normalizeColor(p.Background)
	return p
}

// Complete сообщает, заданы ли все четыре цвета
func (p Palette) Complete() bool {
	return p.Primary != "" && p.Secondary != "" && p.Accent != "" && p.Background != ""
}

// Key уникальный ключ палитры
func (p Palette) Key() [4]string {
	return [4]string{p.Primary, p.Secondary, p.Accent, p.Background}
}

func normalizeColor(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
