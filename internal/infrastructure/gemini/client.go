// Package gemini адаптер к Gemini API: проверка постера, генерация макета и анализ фото товара.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"postergen/internal/domain/port"
)

// Модели по умолчанию
const (
	DefaultReasoningModel = "gemini-2.5-flash-lite"
	DefaultLayoutModel    = "gemma-3-27b-it"
	DefaultVisionModel    = "gemini-2.5-flash-lite"
)

const maxOutputTokens = 4000

// ErrEmptyResponse модель вернула пустой ответ
var ErrEmptyResponse = errors.New("empty model response")

// contentGenerator часть genai.Models, которой пользуется адаптер
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config параметры подключения
type Config struct {
	APIKey         string
	ReasoningModel string
	LayoutModel    string
	VisionModel    string
}

// Client один клиент Gemini на все три задачи. Модели фиксируются при создании.
type Client struct {
	models         contentGenerator
	reasoningModel string
	layoutModel    string
	visionModel    string
	logger         *zap.Logger
}

// NewClient создаёт клиента Gemini API
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(gc.Models, cfg, logger), nil
}

func newClient(models contentGenerator, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		models:         models,
		reasoningModel: orDefault(cfg.ReasoningModel, DefaultReasoningModel),
		layoutModel:    orDefault(cfg.LayoutModel, DefaultLayoutModel),
		visionModel:    orDefault(cfg.VisionModel, DefaultVisionModel),
		logger:         logger,
	}
}

func generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](1.0),
		TopP:            genai.Ptr[float32](0.95),
		MaxOutputTokens: maxOutputTokens,
	}
}

// generate отправляет запрос и возвращает текст ответа
func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	resp, err := c.models.GenerateContent(ctx, model, contents, generationConfig())
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", model, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini %s: %w", model, ErrEmptyResponse)
	}
	c.logger.Debug("gemini response", zap.String("model", model), zap.Int("chars", len(text)))
	return text, nil
}

// ReasonOverText отправляет промпт проверки и возвращает сырой ответ
func (c *Client) ReasonOverText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.reasoningModel, genai.Text(prompt))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var _ port.Reasoner = (*Client)(nil)
