// Package rembg удаляет фон с фото товара через HTTP-сервер rembg (`rembg s`).
package rembg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"postergen/internal/domain/port"
)

const (
	removePath = "/api/remove"
	maxRetries = 2
)

// Client клиент сервера rembg
type Client struct {
	baseURL    string
	httpClient *http.Client
	backoff    func() retry.Backoff // новый бэкофф на каждый запрос
}

// NewClient создаёт клиента для сервера по адресу baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		backoff:    defaultBackoff,
	}
}

func defaultBackoff() retry.Backoff {
	return retry.WithMaxRetries(maxRetries, retry.NewExponential(300*time.Millisecond))
}

// RemoveBackground отправляет изображение и возвращает PNG с прозрачным фоном.
// Ошибки 5xx и сетевые ошибки повторяются.
func (c *Client) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	body, contentType, err := multipartImage(image)
	if err != nil {
		return nil, err
	}

	var out []byte
	err = retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+removePath, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("rembg request: %w", err))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("read rembg response: %w", err))
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("rembg status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("rembg status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func multipartImage(image []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "image")
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var _ port.BackgroundRemover = (*Client)(nil)
