package compliance

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"postergen/internal/domain/entity"
)

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("adjudication").Parse(promptSource))

const noObjectsPlaceholder = "- (none detected)"

type promptData struct {
	Markup     string
	Objects    string
	UserInputs string
	Format     string
}

// BuildPrompt собирает промпт для модели. Одинаковые входные данные дают одинаковый текст:
// ключи словарей сериализуются в отсортированном порядке.
func BuildPrompt(markup string, objects []entity.DetectedObject, cctx entity.ComplianceContext) (string, error) {
	inputs := cctx.UserInputs
	if inputs == nil {
		inputs = map[string]string{}
	}
	userInputs, err := compactJSON(inputs)
	if err != nil {
		return "", fmt.Errorf("encode user inputs: %w", err)
	}
	format, err := compactJSON(cctx.Format)
	if err != nil {
		return "", fmt.Errorf("encode format: %w", err)
	}

	var sb strings.Builder
	err = promptTemplate.Execute(&sb, promptData{
		Markup:     markup,
		Objects:    objectList(objects),
		UserInputs: userInputs,
		Format:     format,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}

// compactJSON кодирует значение без экранирования &, < и >: модель видит текст как есть.
func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func objectList(objects []entity.DetectedObject) string {
	lines := make([]string, 0, len(objects))
	for _, o := range objects {
		if label := strings.TrimSpace(o.Label); label != "" {
			lines = append(lines, "- "+label)
		}
	}
	if len(lines) == 0 {
		return noObjectsPlaceholder
	}
	return strings.Join(lines, "\n")
}
