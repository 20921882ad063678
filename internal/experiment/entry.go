package experiment

import (
	"context"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/analysis"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/config"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
)

// SHG propagates a sech pump through a quadratic crystal and returns the
// pump/signal evolution and energy fractions.
func SHG(ctx context.Context, p config.SHGParams) (*analysis.SHGReport, error) {
	cfg := config.DefaultConfig()
	cfg.Model = config.ModelSHG
	cfg.SHG = p

	result, err := run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return analysis.NewSHGReport(result)
}

// Kerr propagates a sech pulse under dispersion and self-phase modulation.
func Kerr(ctx context.Context, p config.KerrParams) (*analysis.KerrReport, error) {
	cfg := config.DefaultConfig()
	cfg.Model = config.ModelKerr
	cfg.Kerr = p

	result, err := run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return analysis.NewKerrReport(result)
}

// RunConfig sets up and runs a full configuration with default metrics.
func RunConfig(ctx context.Context, cfg *config.Config, observers ...dynamo.Observer) (*dynamo.Result, error) {
	exp := New(cfg)
	if err := exp.Setup(nil); err != nil {
		return nil, err
	}
	for _, o := range observers {
		exp.Simulator().AddObserver(o)
	}
	return exp.Run(ctx)
}

func run(ctx context.Context, cfg *config.Config) (*dynamo.Result, error) {
	exp := New(cfg)
	if err := exp.Setup([]dynamo.Metric{}); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
