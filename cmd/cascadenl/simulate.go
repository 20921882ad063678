package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/analysis"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/automation"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/config"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/experiment"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/grid"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/storage"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/viz"
)

// loadConfig starts from defaults, then a preset, then overlays a config
// file, and finally applies every flag the user set explicitly.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.Overlay(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.Model = model
	}

	flags := cmd.Flags()
	gp := &cfg.SHG.GridParams
	if model == config.ModelKerr {
		gp = &cfg.Kerr.GridParams
	}
	if flags.Changed("length") {
		gp.Length = length
	}
	if flags.Changed("t-max") {
		gp.TMax = tMax
	}
	if flags.Changed("t-precision") {
		gp.TPrecision = tPrecision
	}
	if flags.Changed("z-precision") {
		gp.ZPrecision = zPrecision
	}

	if flags.Changed("beta21") {
		cfg.SHG.Beta21 = beta21
	}
	if flags.Changed("beta22") {
		cfg.SHG.Beta22 = beta22
	}
	if flags.Changed("dbeta0") {
		cfg.SHG.DBeta0 = dbeta0
	}
	if flags.Changed("nl-length1") {
		cfg.SHG.NLLength1 = nlLength1
	}
	if flags.Changed("nl-length2") {
		cfg.SHG.NLLength2 = nlLength2
	}
	if flags.Changed("beta2") {
		cfg.Kerr.Beta2 = beta2
	}
	if flags.Changed("gamma") {
		cfg.Kerr.Gamma = gamma
	}

	if flags.Changed("backend") || cfg.Backend == "" {
		cfg.Backend = backend
	}
	if flags.Changed("save") {
		cfg.Output.Save = save
	}
	if flags.Changed("stride") {
		cfg.Output.Stride = stride
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validate
	}

	return cfg, cfg.Validate()
}

func runSHG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, config.ModelSHG)
	if err != nil {
		return err
	}
	return simulate(cfg)
}

func runKerr(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, config.ModelKerr)
	if err != nil {
		return err
	}
	return simulate(cfg)
}

func runFromConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return simulate(cfg)
}

func simulate(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg)
	if err := exp.Setup(nil); err != nil {
		return err
	}

	g := exp.Grid()
	if verbose {
		exp.Simulator().AddObserver(experiment.NewProgressLogger(slog.Default(), cfg.Model, g.Steps(), max(g.Steps()/20, 1)))
	}

	slog.Info("running", "model", cfg.Model, "backend", exp.Backend().Name(), "points", g.N(), "steps", g.Steps(), "dz", g.Dz)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		var simErr *dynamo.SimulationError
		if errors.As(err, &simErr) {
			slog.Error("propagation diverged", "step", simErr.Step, "z", simErr.Z)
		}
		if errors.Is(err, context.Canceled) && result != nil {
			slog.Warn("interrupted", "steps", result.StepsTaken)
		}
		return err
	}

	slog.Info("completed", "elapsed", time.Since(start), "steps", result.StepsTaken)

	fmt.Println(viz.Summary(cfg.Model, cfg.Params(), result.Metrics))

	if plot {
		if err := plotResult(result, g); err != nil {
			return err
		}
	}

	if cfg.Output.Save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Backend().Name(), cfg.Output.Stride, cfg.Params(), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return nil
}

func plotResult(result *dynamo.Result, g *grid.Grid) error {
	if result.Energy != nil {
		curves, err := analysis.EnergyCurves(result)
		if err != nil {
			return err
		}
		fmt.Println(viz.EnergyPlot(curves, 80, 12))
		fmt.Println()
	}

	last := result.StepsTaken - 1
	for f, name := range result.Fields {
		profile, err := analysis.Profile(result, f, last)
		if err != nil {
			return err
		}
		fmt.Println(viz.ProfilePlot(profile, fmt.Sprintf("|%s(τ)| at z = %.4g", name, g.Z(last)), 80, 8))
		fmt.Println()
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanPoints < 1 {
		return fmt.Errorf("points must be positive, got %d", scanPoints)
	}

	cfg, err := loadConfig(cmd, config.ModelSHG)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	values := experiment.Span(scanFrom, scanTo, scanPoints)
	slog.Info("scanning", "from", scanFrom, "to", scanTo, "points", len(values))

	points, err := experiment.PhaseMismatchScan(ctx, cfg, values)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DBETA0\tCONVERSION\tENERGY DRIFT")
	conversions := make([]float64, len(points))
	for i, p := range points {
		conversions[i] = p.Conversion
		fmt.Fprintf(w, "%.4g\t%.6f\t%.3e\n", p.DBeta0, p.Conversion, p.EnergyDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := experiment.Best(points); ok {
		fmt.Printf("\nbest: dbeta0=%.4g conversion=%.6f\n", best.DBeta0, best.Conversion)
	}

	if len(conversions) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(conversions,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.LowerBound(0),
			asciigraph.Caption("conversion vs dbeta0"),
		))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(ctx, scenario, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tRUN\tENERGY DRIFT\tCONVERSION")
	for _, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		conversion := "-"
		if c, ok := r.Metrics["conversion"]; ok {
			conversion = fmt.Sprintf("%.6f", c)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3e\t%s\n", r.Name, r.Model, runID, r.Metrics["energy_drift"], conversion)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
