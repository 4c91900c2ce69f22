// Package llmjson извлекает JSON-объект из ответа языковой модели, в котором
// могут быть пояснения, markdown-блоки и обрезанный текст.
package llmjson

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?is)```json\\s*(.*?)```")

// Extract перебирает кандидатов по порядку и возвращает первого, которого принял accept:
//  1. весь текст целиком;
//  2. содержимое блоков ```json;
//  3. подстроки со сбалансированными фигурными скобками, слева направо.
func Extract(text string, accept func(raw []byte) bool) ([]byte, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	if raw := []byte(trimmed); accept(raw) {
		return raw, true
	}

	for _, m := range fencedJSON.FindAllStringSubmatch(text, -1) {
		if raw := []byte(strings.TrimSpace(m[1])); accept(raw) {
			return raw, true
		}
	}

	depth, start := 0, -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				if raw := []byte(text[start : i+1]); accept(raw) {
					return raw, true
				}
			}
		}
	}

	return nil, false
}

// IsObject сообщает, является ли raw корректным JSON-объектом
func IsObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{' && json.Valid(raw)
}

// DecodeObject декодирует первый подходящий JSON-объект из text в v.
// При неудаче v может остаться частично заполненным.
func DecodeObject(text string, v any) bool {
	_, ok := Extract(text, func(raw []byte) bool {
		return IsObject(raw) && json.Unmarshal(raw, v) == nil
	})
	return ok
}
