package port

import "context"

// Reasoner внешняя модель, которая выносит решение по текстовому промпту
type Reasoner interface {
	// ReasonOverText отправляет промпт и возвращает сырой ответ модели
	ReasonOverText(ctx context.Context, prompt string) (string, error)
}
