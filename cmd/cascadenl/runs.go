package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/analysis"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/export"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/storage"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/tui"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/viz"
)

// resolveRun returns the store and the requested run id, defaulting to the
// most recent run.
func resolveRun(args []string) (*storage.Store, string, error) {
	st := storage.New(dataDir)
	if len(args) > 0 {
		return st, args[0], nil
	}
	runID, err := st.Latest()
	return st, runID, err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tBACKEND\tPOINTS\tSTEPS\tDZ\tCONVERSION")

	for _, run := range runs {
		conversion := "-"
		if c, ok := run.Metrics["conversion"]; ok {
			conversion = fmt.Sprintf("%.4f", c)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.3e\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Backend,
			run.Points,
			run.Steps,
			run.Dz,
			conversion,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, runID, err := resolveRun(args)
	if err != nil {
		return err
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Summary(meta.ID, meta.Params, meta.Metrics))

	if e, err := st.LoadEnergy(runID); err == nil && len(e.Values) == 2 {
		curves := &analysis.Curves{
			Z:      analysis.NormalizedAxis(len(e.Z)),
			Pump:   e.Values[0],
			Signal: e.Values[1],
			Sum:    make([]float64, len(e.Z)),
		}
		for i := range curves.Sum {
			curves.Sum[i] = curves.Pump[i] + curves.Signal[i]
		}
		fmt.Println(viz.EnergyPlot(curves, 80, 12))
	}

	for _, name := range meta.Fields {
		if field != "" && field != name {
			continue
		}
		for _, domain := range []string{storage.Time, storage.Spectrum} {
			m, err := st.LoadMagnitudes(runID, name, domain)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s %s (z downwards)\n", name, domain)
			fmt.Print(viz.Heatmap(m.Rows, 100, 30))
		}
	}
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	st, runID, err := resolveRun(args)
	if err != nil {
		return err
	}

	run, err := tui.LoadRun(st, runID)
	if err != nil {
		return err
	}
	return tui.View(run)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, runID, err := resolveRun(args)
	if err != nil {
		return err
	}

	rep, err := export.ReportFromStore(st, runID)
	if err != nil {
		return err
	}

	if outPath == "" {
		return export.WriteJSON(os.Stdout, rep)
	}
	if err := export.JSONFile(outPath, rep); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, runID, err := resolveRun(args)
	if err != nil {
		return err
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	dir := outPath
	if dir == "" {
		dir = st.Dir(runID)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	write := func(name, svg string) error {
		if svg == "" {
			return nil
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	}

	for _, name := range meta.Fields {
		for _, domain := range []string{storage.Time, storage.Spectrum} {
			m, err := st.LoadMagnitudes(runID, name, domain)
			if err != nil {
				return err
			}
			if err := write(fmt.Sprintf("%s_%s.svg", name, domain), export.HeatmapSVG(m.Rows, width, height)); err != nil {
				return err
			}
		}
	}

	if e, err := st.LoadEnergy(runID); err == nil {
		colors := []string{"#00ff00", "#ff00ff", "#00ccff"}
		series := make([]export.Series, len(e.Fields))
		for f, name := range e.Fields {
			series[f] = export.Series{Name: name, Color: colors[f%len(colors)], Y: e.Values[f]}
		}
		if err := write("energy.svg", export.CurvesSVG(e.Z, series, width, height)); err != nil {
			return err
		}
	}

	return nil
}
