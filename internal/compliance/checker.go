// Package compliance проверяет сгенерированные постеры на соответствие правилам
// ретейлера: быстрый локальный сканер отсекает очевидные нарушения, остальное
// решает языковая модель.
package compliance

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
)

// ErrNotConfigured модель для проверки не подключена
var ErrNotConfigured = errors.New("reasoning backend is not configured")

const reasonEngineFailed = "compliance engine failed"

type stage string

const (
	stageLocalScan  stage = "local_scan"
	stageAdjudicate stage = "adjudicate"
	stageDone       stage = "done"
)

// Checker последовательно запускает локальный сканер и модель.
// Не хранит изменяемого состояния и безопасен для параллельных вызовов.
type Checker struct {
	rules    *Rules
	scanner  *Scanner
	reasoner port.Reasoner
	logger   *zap.Logger
}

// NewChecker создаёт проверку с моделью reasoner. Модель задаётся один раз и не меняется.
func NewChecker(reasoner port.Reasoner, rules *Rules, logger *zap.Logger) *Checker {
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		rules:    rules,
		scanner:  NewScanner(rules),
		reasoner: reasoner,
		logger:   logger,
	}
}

// Configured сообщает, подключена ли модель. Без неё проверка не может завершиться PASS.
func (c *Checker) Configured() bool { return c.reasoner != nil }

// Check возвращает вердикт для разметки постера. Ошибок не возвращает: любой сбой
// превращается в FAIL с понятной причиной. Одобрение возможно только по ответу модели.
func (c *Checker) Check(ctx context.Context, markup string, objects []entity.DetectedObject, cctx entity.ComplianceContext) (verdict entity.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("compliance check panicked", zap.Any("panic", r))
			verdict = entity.FailVerdict(fmt.Sprintf("%s: %v", reasonEngineFailed, r))
		}
	}()

	parsed := ParseMarkup(markup, c.rules)
	if parsed.Degraded() {
		c.logger.Warn("markup parse failed, scanning flat text", zap.Error(parsed.Err))
	}

	local := c.scanner.Scan(parsed, objects, cctx)
	if local != nil && !local.Passed {
		c.logVerdict(stageLocalScan, *local)
		return local.Clone()
	}
	if local != nil {
		c.logger.Debug("local scan passed, adjudicating anyway", zap.Int("details", len(local.Details)))
	}

	raw, err := c.adjudicate(ctx, markup, objects, cctx)
	if err != nil {
		c.logger.Warn("adjudication failed", zap.String("stage", string(stageAdjudicate)), zap.Error(err))
		v := c.fallback(parsed, objects, cctx, err)
		c.logVerdict(stageAdjudicate, v)
		return v
	}

	v := ParseResponse(raw)
	c.logVerdict(stageDone, v)
	return v
}

func (c *Checker) adjudicate(ctx context.Context, markup string, objects []entity.DetectedObject, cctx entity.ComplianceContext) (string, error) {
	if c.reasoner == nil {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt, err := BuildPrompt(markup, objects, cctx)
	if err != nil {
		return "", err
	}
	return c.reasoner.ReasonOverText(ctx, prompt)
}

// fallback повторяет локальную проверку после сбоя модели. Локальное одобрение
// здесь не принимается: без ответа модели результат всегда FAIL.
func (c *Checker) fallback(parsed ParsedMarkup, objects []entity.DetectedObject, cctx entity.ComplianceContext, cause error) entity.Verdict {
	if again := c.scanner.Scan(parsed, objects, cctx); again != nil && !again.Passed {
		return again.Clone()
	}
	return entity.FailVerdict(fmt.Sprintf("%s: %v", reasonEngineFailed, cause))
}

func (c *Checker) logVerdict(s stage, v entity.Verdict) {
	c.logger.Info("compliance verdict",
		zap.String("stage", string(s)),
		zap.Bool("passed", v.Passed),
		zap.String("reason", v.Reason),
	)
}
