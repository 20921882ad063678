package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/config"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/spectral"
)

var (
	dataDir string
	verbose bool

	// grid
	length     float64
	tMax       float64
	tPrecision int
	zPrecision int

	// shg
	beta21    float64
	beta22    float64
	dbeta0    float64
	nlLength1 float64
	nlLength2 float64

	// kerr
	beta2 float64
	gamma float64

	configFile string
	preset     string
	backend    string
	save       bool
	plot       bool
	stride     int
	validate   bool

	// scan
	scanFrom   float64
	scanTo     float64
	scanPoints int

	// export
	outPath string
	field   string
	width   int
	height  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cascadenl",
		Short: "split-step propagation of cascaded optical nonlinearities",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cascadenl", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log propagation progress")

	shgCmd := &cobra.Command{
		Use:   "shg",
		Short: "second-harmonic generation in a quadratic crystal",
		Args:  cobra.NoArgs,
		RunE:  runSHG,
	}
	addGridFlags(shgCmd)
	addRunFlags(shgCmd)
	shgCmd.Flags().Float64Var(&beta21, "beta21", 1, "pump group-velocity dispersion")
	shgCmd.Flags().Float64Var(&beta22, "beta22", 1, "signal group-velocity dispersion")
	shgCmd.Flags().Float64Var(&dbeta0, "dbeta0", 0, "phase mismatch")
	shgCmd.Flags().Float64Var(&nlLength1, "nl-length1", config.DefaultNLLength, "pump nonlinear length")
	shgCmd.Flags().Float64Var(&nlLength2, "nl-length2", config.DefaultNLLength, "signal nonlinear length")

	kerrCmd := &cobra.Command{
		Use:   "kerr",
		Short: "self-phase modulation under dispersion",
		Args:  cobra.NoArgs,
		RunE:  runKerr,
	}
	addGridFlags(kerrCmd)
	addRunFlags(kerrCmd)
	kerrCmd.Flags().Float64Var(&beta2, "beta2", 1, "group-velocity dispersion")
	kerrCmd.Flags().Float64Var(&gamma, "gamma", 1, "nonlinear coefficient")

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "run a model from a config file",
		Args:  cobra.ExactArgs(1),
		RunE:  runFromConfig,
	}
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot energy and final profiles")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "sweep the SHG phase mismatch",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	addGridFlags(scanCmd)
	scanCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	scanCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	scanCmd.Flags().StringVar(&backend, "backend", spectral.DefaultBackend, "fft backend")
	scanCmd.Flags().Float64Var(&scanFrom, "from", -2e6, "first phase mismatch")
	scanCmd.Flags().Float64Var(&scanTo, "to", 2e6, "last phase mismatch")
	scanCmd.Flags().IntVar(&scanPoints, "points", 9, "number of runs")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [scenario.yaml]",
		Short: "run a scripted sequence of configurations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "", "field to map (default all)")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "scrub through a stored run interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  viewRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run report to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export heatmaps and energy curves to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output directory (default run directory)")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 600, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := []string{config.ModelKerr, config.ModelSHG}
			if len(args) > 0 {
				models = args
			}
			for _, m := range models {
				presets := config.ListPresets(m)
				if len(presets) == 0 {
					fmt.Printf("no presets for model: %s\n", m)
					continue
				}
				fmt.Printf("presets for %s:\n", m)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list fft backends",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range spectral.Backends() {
				marker := " "
				if name == spectral.DefaultBackend {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, name)
			}
		},
	}

	rootCmd.AddCommand(shgCmd, kerrCmd, runCmd, scanCmd, scenarioCmd, listCmd, plotCmd, viewCmd, exportJSONCmd, exportSVGCmd, presetsCmd, backendsCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&length, "length", config.DefaultLength, "propagation length")
	cmd.Flags().Float64Var(&tMax, "t-max", config.DefaultTMax, "time window half-width")
	cmd.Flags().IntVar(&tPrecision, "t-precision", config.DefaultTPrecision, "time samples (even)")
	cmd.Flags().IntVar(&zPrecision, "z-precision", config.DefaultZPrecision, "propagation steps")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&backend, "backend", spectral.DefaultBackend, "fft backend")
	cmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot energy and final profiles")
	cmd.Flags().IntVar(&stride, "stride", config.DefaultStride, "keep every n-th step when saving")
	cmd.Flags().BoolVar(&validate, "validate", false, "stop at the first non-finite sample")
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
