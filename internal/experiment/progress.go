package experiment

import (
	"log/slog"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
)

// ProgressLogger logs the run position every few steps at debug level.
type ProgressLogger struct {
	logger *slog.Logger
	model  string
	steps  int
	every  int
	seen   int
}

func NewProgressLogger(logger *slog.Logger, model string, steps, every int) *ProgressLogger {
	if every < 1 {
		every = 1
	}
	return &ProgressLogger{logger: logger, model: model, steps: steps, every: every}
}

func (p *ProgressLogger) OnStep(s *dynamo.State, z float64) {
	p.seen++
	if p.seen%p.every != 0 && p.seen != p.steps {
		return
	}
	attrs := []any{
		"model", p.model,
		"step", s.Step + 1,
		"of", p.steps,
		"z", z,
	}
	if s.InputEnergy != 0 {
		attrs = append(attrs, "energy", s.TotalEnergy()/s.InputEnergy)
	}
	p.logger.Debug("propagating", attrs...)
}
