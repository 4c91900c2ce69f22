// Package httpapi HTTP-интерфейс генератора постеров.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	app "postergen/internal/application"
	"postergen/internal/compliance"
	"postergen/internal/container"
	"postergen/internal/domain/entity"
)

const (
	maxJSONBody  = 2 << 20
	maxImageBody = 10 << 20

	shutdownTimeout = 10 * time.Second
)

type Server struct {
	checker  *compliance.Checker
	posters  *app.PosterService
	analysis *app.AnalysisService
	palettes *app.PaletteService
	validate *validator.Validate
	logger   *zap.Logger
}

func New(c *container.Container, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		checker:  c.Checker,
		posters:  c.PosterService,
		analysis: c.AnalysisService,
		palettes: c.PaletteService,
		validate: validator.New(),
		logger:   logger,
	}
}

// Routes собирает роутер со всеми эндпоинтами
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/compliance/check", s.handleCheck)
		r.Post("/generate-layout", s.handleGenerate)
		r.Post("/analyze-image", s.handleAnalyze)

		r.Route("/palettes", func(r chi.Router) {
			r.Post("/save", s.handleSavePalette)
			r.Get("/frequent", s.handleFrequentPalettes)
		})
	})
	return r
}

// ListenAndServe обслуживает запросы до отмены ctx, затем корректно останавливает сервер
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"reasoner_configured": s.checker.Configured(),
	})
}

// handleCheck проверяет готовую разметку без генерации
// POST /api/compliance/check
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !s.decode(w, r, &req) {
		return
	}

	cctx := entity.ComplianceContext{UserInputs: req.UserInputs}
	if req.Format != nil {
		cctx.Format = entity.Format{Width: req.Format.Width, Height: req.Format.Height}
	}

	verdict := s.checker.Check(r.Context(), req.HTML, req.Objects, cctx)
	writeJSON(w, http.StatusOK, verdict)
}

// handleGenerate генерирует постер и проверяет его. Непрошедший проверку постер отдаётся с кодом 400.
// POST /api/generate-layout
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.posters.Generate(r.Context(), app.PosterRequest{
		Form:    req.form(),
		Objects: req.objects(),
	})
	if err != nil {
		s.logger.Error("generate poster", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate poster")
		return
	}

	if !result.Passed {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success":    false,
			"error":      "Poster failed compliance rules",
			"id":         result.ID,
			"compliance": result.Compliance,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"id":         result.ID,
		"compliance": result.Compliance,
		"layouts":    result.Layouts,
	})
}

// handleAnalyze принимает фото товара телом запроса
// POST /api/analyze-image
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}

	out, err := s.analysis.Analyze(r.Context(), image, mimeType)
	if errors.Is(err, app.ErrEmptyImage) {
		writeError(w, http.StatusBadRequest, "no image provided")
		return
	}
	if err != nil {
		s.logger.Error("analyze image", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to analyze image")
		return
	}

	resp := map[string]any{
		"success":  true,
		"analysis": out.Analysis,
	}
	if out.Analysis.BackgroundRemoved {
		resp["image"] = out.Image
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/palettes/save
func (s *Server) handleSavePalette(w http.ResponseWriter, r *http.Request) {
	var req paletteRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.palettes.Record(r.Context(), req.palette()); err != nil {
		if errors.Is(err, app.ErrIncompletePalette) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("save palette", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save palette")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// GET /api/palettes/frequent?limit=N
func (s *Server) handleFrequentPalettes(w http.ResponseWriter, r *http.Request) {
	limit := app.DefaultFrequentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	palettes, err := s.palettes.Frequent(r.Context(), limit)
	if err != nil {
		s.logger.Error("frequent palettes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load palettes")
		return
	}
	writeJSON(w, http.StatusOK, palettes)
}

// decode читает JSON-тело и проверяет его. При ошибке сам пишет ответ и возвращает false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
