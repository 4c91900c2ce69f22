package compliance

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// PricePattern именованное регулярное выражение для поиска цен
type PricePattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

type rulesFile struct {
	SnippetLimit        int            `yaml:"snippet_limit"`
	MaxDepth            int            `yaml:"max_depth"`
	AllowedTileClasses  []string       `yaml:"allowed_tile_classes"`
	AllowedIDSubstrings []string       `yaml:"allowed_id_substrings"`
	BannedPhrases       []string       `yaml:"banned_phrases"`
	FlatPriceKeywords   []string       `yaml:"flat_price_keywords"`
	PricePatterns       []PricePattern `yaml:"price_patterns"`
}

type bannedPhrase struct {
	phrase string
	re     *regexp.Regexp
}

type pricePattern struct {
	name string
	re   *regexp.Regexp
}

// Rules скомпилированный набор правил локального сканера. Не изменяется после загрузки,
// поэтому один экземпляр можно использовать из разных горутин.
type Rules struct {
	snippetLimit int
	maxDepth     int
	tileClasses  map[string]struct{}
	idSubstrings []string
	banned       []bannedPhrase
	flatKeywords []string
	prices       []pricePattern
}

// DefaultRules возвращает встроенный набор правил
func DefaultRules() *Rules {
	r, err := ParseRules(nil)
	if err != nil {
		panic(fmt.Sprintf("compliance: embedded rules are invalid: %v", err))
	}
	return r
}

// LoadRules читает файл правил поверх встроенных значений.
// Пустой путь означает встроенные правила.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return ParseRules(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules разбирает YAML с переопределениями правил.
func ParseRules(override []byte) (*Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(defaultRulesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse default rules: %w", err)
	}
	if len(override) > 0 {
		if err := yaml.Unmarshal(override, &f); err != nil {
			return nil, fmt.Errorf("parse rules: %w", err)
		}
	}
	return compileRules(f)
}

func compileRules(f rulesFile) (*Rules, error) {
	if f.SnippetLimit <= 0 {
		return nil, fmt.Errorf("snippet_limit must be positive, got %d", f.SnippetLimit)
	}
	if f.MaxDepth <= 0 {
		return nil, fmt.Errorf("max_depth must be positive, got %d", f.MaxDepth)
	}

	r := &Rules{
		snippetLimit: f.SnippetLimit,
		maxDepth:     f.MaxDepth,
		tileClasses:  make(map[string]struct{}, len(f.AllowedTileClasses)),
	}
	for _, c := range f.AllowedTileClasses {
		if c = strings.TrimSpace(c); c != "" {
			r.tileClasses[c] = struct{}{}
		}
	}
	for _, s := range f.AllowedIDSubstrings {
		if s = strings.TrimSpace(s); s != "" {
			r.idSubstrings = append(r.idSubstrings, s)
		}
	}
	for _, k := range f.FlatPriceKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			r.flatKeywords = append(r.flatKeywords, k)
		}
	}

	for _, p := range f.BannedPhrases {
		b, err := compileBanned(p)
		if err != nil {
			return nil, err
		}
		if b.phrase != "" {
			r.banned = append(r.banned, b)
		}
	}
	// Длинные фразы проверяются первыми, чтобы в причине была самая точная.
	sort.SliceStable(r.banned, func(i, j int) bool {
		return len(r.banned[i].phrase) > len(r.banned[j].phrase)
	})

	for _, p := range f.PricePatterns {
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("price pattern %q: %w", p.Name, err)
		}
		r.prices = append(r.prices, pricePattern{name: p.Name, re: re})
	}
	if len(r.prices) == 0 {
		return nil, fmt.Errorf("at least one price pattern is required")
	}

	return r, nil
}

func compileBanned(raw string) (bannedPhrase, error) {
	phrase := strings.ToLower(strings.TrimSpace(raw))
	prefix := strings.HasSuffix(phrase, "*")
	phrase = strings.TrimSuffix(phrase, "*")
	if phrase == "" {
		return bannedPhrase{}, nil
	}

	var expr strings.Builder
	expr.WriteString("(?i)")
	if isWordRune(firstRune(phrase)) {
		expr.WriteString(`\b`)
	}
	expr.WriteString(regexp.QuoteMeta(phrase))
	if !prefix && isWordRune(lastRune(phrase)) {
		expr.WriteString(`\b`)
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return bannedPhrase{}, fmt.Errorf("banned phrase %q: %w", raw, err)
	}
	return bannedPhrase{phrase: phrase, re: re}, nil
}

// matchBanned возвращает первую запрещённую фразу, найденную в тексте
func (r *Rules) matchBanned(text string) (string, bool) {
	for _, b := range r.banned {
		if b.re.MatchString(text) {
			return b.phrase, true
		}
	}
	return "", false
}

// matchPrice возвращает самое левое совпадение среди всех ценовых шаблонов
func (r *Rules) matchPrice(text string) (string, bool) {
	best := -1
	var match string
	for _, p := range r.prices {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if best < 0 || loc[0] < best {
			best = loc[0]
			match = text[loc[0]:loc[1]]
		}
	}
	return match, best >= 0
}

// matchFlatKeyword ищет ценовые слова в тексте без структуры документа
func (r *Rules) matchFlatKeyword(lower string) (string, bool) {
	for _, k := range r.flatKeywords {
		if strings.Contains(lower, k) {
			return k, true
		}
	}
	return "", false
}

func (r *Rules) tileClass(class string) bool {
	_, ok := r.tileClasses[class]
	return ok
}

func (r *Rules) tileID(id string) bool {
	if id == "" {
		return false
	}
	for _, s := range r.idSubstrings {
		if strings.Contains(id, s) {
			return true
		}
	}
	return false
}

func (r *Rules) snippet(s string) string {
	runes := []rune(s)
	if len(runes) <= r.snippetLimit {
		return s
	}
	return string(runes[:r.snippetLimit])
}

func isWordRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	return runes[len(runes)-1]
}
