// Package mcpapi открывает проверку постеров и палитры как MCP-инструменты.
package mcpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	app "postergen/internal/application"
	"postergen/internal/compliance"
	"postergen/internal/container"
	"postergen/internal/domain/entity"
)

const serverName = "postergen"

// NewServer создаёт MCP-сервер со всеми инструментами
func NewServer(c *container.Container, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	RegisterTools(srv, c)
	return srv
}

// ServeStdio обслуживает одного клиента через stdin/stdout до отмены ctx
func ServeStdio(ctx context.Context, srv *mcp.Server) error {
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func RegisterTools(srv *mcp.Server, c *container.Container) {
	registerCheckTool(srv, c.Checker)
	registerFrequentTool(srv, c.PaletteService)
	registerSaveTool(srv, c.PaletteService)
}

func inputSchema(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool регистрирует инструмент с типизированными аргументами. Ошибки отдаются клиенту
// как результат инструмента, а не как ошибка протокола.
func addTool[T any](srv *mcp.Server, tool *mcp.Tool, handle func(context.Context, *T) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args T
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		out, err := handle(ctx, &args)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(out)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

type checkArgs struct {
	HTML       string                  `json:"html"`
	Objects    []entity.DetectedObject `json:"objects"`
	UserInputs map[string]string       `json:"user_inputs"`
	Format     entity.Format           `json:"format"`
}

func registerCheckTool(srv *mcp.Server, checker *compliance.Checker) {
	tool := &mcp.Tool{
		Name:        "poster_check_compliance",
		Description: "Check poster HTML against retail media compliance rules. Returns a verdict with passed, reason and per-rule details.",
		InputSchema: inputSchema(map[string]any{
			"html": map[string]any{"type": "string", "description": "Poster HTML markup"},
			"objects": map[string]any{
				"type":        "array",
				"description": "Objects detected on the product image",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label":      map[string]any{"type": "string"},
						"confidence": map[string]any{"type": "number"},
						"bbox":       map[string]any{"type": "array", "items": map[string]any{"type": "number"}},
					},
				},
			},
			"user_inputs": map[string]any{
				"type":                 "object",
				"description":          "Form fields the poster was built from",
				"additionalProperties": map[string]any{"type": "string"},
			},
			"format": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"width":  map[string]any{"type": "integer"},
					"height": map[string]any{"type": "integer"},
				},
			},
		}, "html"),
	}

	addTool(srv, tool, func(ctx context.Context, a *checkArgs) (any, error) {
		if a.HTML == "" {
			return nil, errors.New("html is required")
		}
		return checker.Check(ctx, a.HTML, a.Objects, entity.ComplianceContext{
			UserInputs: a.UserInputs,
			Format:     a.Format,
		}), nil
	})
}

type frequentArgs struct {
	Limit int `json:"limit"`
}

func registerFrequentTool(srv *mcp.Server, palettes *app.PaletteService) {
	tool := &mcp.Tool{
		Name:        "poster_frequent_palettes",
		Description: "List the most frequently used poster colour palettes.",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Maximum number of palettes (default 6)"},
		}),
	}

	addTool(srv, tool, func(ctx context.Context, a *frequentArgs) (any, error) {
		list, err := palettes.Frequent(ctx, a.Limit)
		if err != nil {
			return nil, err
		}
		return list, nil
	})
}

type saveArgs struct {
	Primary    string `json:"primaryColor"`
	Secondary  string `json:"secondaryColor"`
	Accent     string `json:"accentColor"`
	Background string `json:"bgColor"`
}

func registerSaveTool(srv *mcp.Server, palettes *app.PaletteService) {
	color := map[string]any{"type": "string", "description": "Hex colour, e.g. #E31837"}
	tool := &mcp.Tool{
		Name:        "poster_save_palette",
		Description: "Record one use of a poster colour palette.",
		InputSchema: inputSchema(map[string]any{
			"primaryColor":   color,
			"secondaryColor": color,
			"accentColor":    color,
			"bgColor":        color,
		}, "primaryColor", "secondaryColor", "accentColor", "bgColor"),
	}

	addTool(srv, tool, func(ctx context.Context, a *saveArgs) (any, error) {
		err := palettes.Record(ctx, entity.Palette{
			Primary:    a.Primary,
			Secondary:  a.Secondary,
			Accent:     a.Accent,
			Background: a.Background,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true}, nil
	})
}
