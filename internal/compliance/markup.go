package compliance

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ErrTooDeep возвращается, когда вложенность разметки превышает лимит правил.
var ErrTooDeep = errors.New("markup nesting too deep")

// Node узел документа: *Element или *Text
type Node interface {
	Parent() *Element
}

// Element HTML-элемент с классами и id
type Element struct {
	Tag      string
	Classes  []string
	ID       string
	Children []Node
	parent   *Element
}

// Parent возвращает родителя или nil для корня
func (e *Element) Parent() *Element { return e.parent }

// HasClass проверяет наличие класса у элемента
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Closest возвращает ближайший элемент, начиная с самого e и вверх до корня, для которого match истинно.
func (e *Element) Closest(match func(*Element) bool) *Element {
	for cur := e; cur != nil; cur = cur.parent {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// Path возвращает подсказку вида tag.class1.class2#id
func (e *Element) Path() string {
	var sb strings.Builder
	sb.WriteString(e.Tag)
	if len(e.Classes) > 0 {
		sb.WriteByte('.')
		sb.WriteString(strings.Join(e.Classes, "."))
	}
	if e.ID != "" {
		sb.WriteByte('#')
		sb.WriteString(e.ID)
	}
	return sb.String()
}

// Text текстовый узел
type Text struct {
	Data   string
	parent *Element
}

// Parent возвращает элемент, содержащий текст
func (t *Text) Parent() *Element { return t.parent }

// Document дерево разметки. Корень не соответствует ни одному тегу.
type Document struct {
	Root *Element
}

// Texts возвращает все текстовые узлы в порядке документа
func (d *Document) Texts() []*Text {
	var out []*Text
	var walk func(*Element)
	walk = func(e *Element) {
		for _, c := range e.Children {
			switch n := c.(type) {
			case *Text:
				out = append(out, n)
			case *Element:
				walk(n)
			}
		}
	}
	walk(d.Root)
	return out
}

// Parse разбирает разметку в дерево. Незакрытые и лишние теги восстанавливаются
// по правилам HTML5; ошибка возвращается только если дерево построить нельзя.
func Parse(markup string, maxDepth int) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	doc := &Document{Root: &Element{}}
	if err := convert(root, doc.Root, 1, maxDepth); err != nil {
		return nil, err
	}
	return doc, nil
}

func convert(src *html.Node, dst *Element, depth, maxDepth int) error {
	if depth > maxDepth {
		return ErrTooDeep
	}
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			el := &Element{Tag: c.Data, parent: dst}
			for _, a := range c.Attr {
				switch a.Key {
				case "class":
					el.Classes = strings.Fields(a.Val)
				case "id":
					el.ID = strings.TrimSpace(a.Val)
				}
			}
			dst.Children = append(dst.Children, el)
			if err := convert(c, el, depth+1, maxDepth); err != nil {
				return err
			}
		case html.TextNode:
			dst.Children = append(dst.Children, &Text{Data: c.Data, parent: dst})
		}
	}
	return nil
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Flatten убирает все теги регулярным выражением. Используется, когда дерево построить не удалось.
func Flatten(markup string) string {
	text := html.UnescapeString(tagPattern.ReplaceAllString(markup, " "))
	return strings.Join(strings.Fields(text), " ")
}

// Membership принадлежность текста к плашке с ценой
type Membership int

const (
	MembershipUnknown Membership = iota // структура документа недоступна
	OutsideTile
	InTile
)

// TextSpan фрагмент видимого текста
type TextSpan struct {
	Text       string
	Membership Membership
	Path       string // элемент, содержащий текст; пусто в деградированном режиме
}

// ParsedMarkup результат разбора: либо Document, либо плоский текст.
type ParsedMarkup struct {
	Document *Document
	Flat     string
	Err      error // причина перехода в деградированный режим
}

// ParseMarkup строит дерево, а при неудаче переходит к плоскому тексту.
func ParseMarkup(markup string, rules *Rules) ParsedMarkup {
	doc, err := Parse(markup, rules.maxDepth)
	if err != nil {
		return ParsedMarkup{Flat: Flatten(markup), Err: err}
	}
	return ParsedMarkup{Document: doc}
}

// Degraded сообщает, что дерево недоступно и принадлежность к плашкам неизвестна
func (p ParsedMarkup) Degraded() bool { return p.Document == nil }

// Spans возвращает видимый текст, размеченный принадлежностью к плашкам. Текст блока,
// разбитый строчными тегами (<b>, <span>, ...), склеивается в один фрагмент, пока
// принадлежность к плашке не меняется.
func (p ParsedMarkup) Spans(rules *Rules) []TextSpan {
	if p.Degraded() {
		if p.Flat == "" {
			return nil
		}
		return []TextSpan{{Text: p.Flat, Membership: MembershipUnknown}}
	}

	c := &spanCollector{rules: rules}
	c.block(p.Document.Root)
	return c.spans
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "cite": true,
	"code": true, "data": true, "del": true, "dfn": true, "em": true, "font": true,
	"i": true, "ins": true, "kbd": true, "mark": true, "q": true, "s": true,
	"samp": true, "small": true, "span": true, "strong": true, "sub": true,
	"sup": true, "time": true, "u": true, "var": true,
}

// spanCollector обходит дерево и копит текущий отрезок текста блока.
type spanCollector struct {
	rules *Rules
	spans []TextSpan

	run    strings.Builder
	nodes  int      // непустые текстовые узлы в отрезке
	holder *Element // родитель единственного непустого узла
	owner  *Element // блок, которому принадлежит отрезок
	tile   bool
}

func (c *spanCollector) block(e *Element) {
	c.flush()
	c.owner, c.tile = e, inTile(e, c.rules)
	c.children(e)
	c.flush()
}

func (c *spanCollector) children(e *Element) {
	owner, tile := c.owner, c.tile
	for _, child := range e.Children {
		switch n := child.(type) {
		case *Text:
			c.run.WriteString(n.Data)
			if strings.TrimSpace(n.Data) != "" {
				c.nodes++
				c.holder = e
			}
		case *Element:
			switch {
			case n.Tag == "script" || n.Tag == "style":
				continue
			case inlineTags[n.Tag] && inTile(n, c.rules) == tile:
				c.children(n)
			default:
				c.block(n)
				c.owner, c.tile = owner, tile
			}
		}
	}
}

func (c *spanCollector) flush() {
	defer func() {
		c.run.Reset()
		c.nodes, c.holder = 0, nil
	}()
	if c.nodes == 0 || c.owner == nil {
		return
	}
	text := strings.TrimSpace(c.run.String())
	path := c.owner.Path()
	if c.nodes == 1 {
		path = c.holder.Path()
	} else {
		text = strings.Join(strings.Fields(text), " ")
	}
	span := TextSpan{Text: text, Membership: OutsideTile, Path: path}
	if c.tile {
		span.Membership = InTile
	}
	c.spans = append(c.spans, span)
}

// inTile поднимается по предкам до корня документа без ограничения глубины.
func inTile(e *Element, rules *Rules) bool {
	return e.Closest(func(cur *Element) bool {
		for _, c := range cur.Classes {
			if rules.tileClass(c) {
				return true
			}
		}
		return rules.tileID(cur.ID)
	}) != nil
}
