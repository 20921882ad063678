package experiment

import (
	"fmt"
	"sort"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/config"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/grid"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/metrics"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/physics"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/spectral"
)

type ModelBuilder func(cfg *config.Config, g *grid.Grid, b spectral.Backend) (dynamo.Model, error)

type Registry struct {
	models map[string]ModelBuilder
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]ModelBuilder),
	}

	r.models[config.ModelSHG] = func(cfg *config.Config, g *grid.Grid, b spectral.Backend) (dynamo.Model, error) {
		return physics.NewSHG(cfg.SHG.Physics(), g, b)
	}
	r.models[config.ModelKerr] = func(cfg *config.Config, g *grid.Grid, b spectral.Backend) (dynamo.Model, error) {
		return physics.NewKerr(cfg.Kerr.Physics(), g, b)
	}

	return r
}

func (r *Registry) GetModel(cfg *config.Config, g *grid.Grid, b spectral.Backend) (dynamo.Model, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: unknown model: %s (available: %v)", dynamo.ErrParameterBounds, cfg.Model, r.ListModels())
	}
	return fn(cfg, g, b)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(model dynamo.Model) []dynamo.Metric {
	return metrics.Default(model.FieldNames())
}
