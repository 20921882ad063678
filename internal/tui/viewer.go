package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/analysis"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/storage"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/viz"
)

const (
	canvasWidth  = 60
	canvasHeight = 14
	jump         = 10
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(36)
)

// Run is a stored propagation loaded for viewing. Grids are indexed
// [field][row][sample].
type Run struct {
	ID       string
	Model    string
	Fields   []string
	Dz       float64
	Z        []float64
	Time     [][][]float64
	Spectrum [][][]float64
	Energy   *storage.Energy
	Metrics  map[string]float64
}

// LoadRun reads every magnitude grid of a stored run.
func LoadRun(st *storage.Store, runID string) (*Run, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:      meta.ID,
		Model:   meta.Model,
		Fields:  meta.Fields,
		Dz:      meta.Dz,
		Metrics: meta.Metrics,
	}

	for _, field := range meta.Fields {
		tm, err := st.LoadMagnitudes(runID, field, storage.Time)
		if err != nil {
			return nil, err
		}
		sp, err := st.LoadMagnitudes(runID, field, storage.Spectrum)
		if err != nil {
			return nil, err
		}
		run.Z = tm.Z
		run.Time = append(run.Time, tm.Rows)
		run.Spectrum = append(run.Spectrum, sp.Rows)
	}

	if e, err := st.LoadEnergy(runID); err == nil {
		run.Energy = e
	}

	if len(run.Z) == 0 {
		return nil, fmt.Errorf("run %s has no stored slices", runID)
	}
	return run, nil
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Viewer scrubs through the z-slices of a run.
type Viewer struct {
	run      *Run
	row      int
	field    int
	spectral bool
	playing  bool
	theme    viz.Theme
	canvas   *viz.Canvas
	peaks    [2][]float64
}

func NewViewer(run *Run) Viewer {
	v := Viewer{
		run:    run,
		theme:  viz.Themes[0],
		canvas: viz.NewCanvas(canvasWidth, canvasHeight),
	}
	v.peaks[0] = gridPeaks(run.Time)
	v.peaks[1] = gridPeaks(run.Spectrum)
	return v
}

// gridPeaks returns the largest finite value of each field's grid so the
// vertical scale stays fixed while scrubbing.
func gridPeaks(grids [][][]float64) []float64 {
	peaks := make([]float64, len(grids))
	for f, grid := range grids {
		for _, row := range grid {
			for _, v := range row {
				if !math.IsInf(v, 0) && v > peaks[f] {
					peaks[f] = v
				}
			}
		}
	}
	return peaks
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tickMsg:
		if !v.playing {
			return v, nil
		}
		if v.row >= len(v.run.Z)-1 {
			v.playing = false
			return v, nil
		}
		v.row++
		return v, tick()
	}
	return v, nil
}

func (v Viewer) handleKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	last := len(v.run.Z) - 1

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return v, tea.Quit
	case "right", "l":
		v.row = min(v.row+1, last)
	case "left", "h":
		v.row = max(v.row-1, 0)
	case "]":
		v.row = min(v.row+jump, last)
	case "[":
		v.row = max(v.row-jump, 0)
	case "home", "g":
		v.row = 0
	case "end", "G":
		v.row = last
	case "tab":
		v.field = (v.field + 1) % len(v.run.Fields)
	case "s":
		v.spectral = !v.spectral
	case "t":
		v.theme = viz.NextTheme(v.theme.Name)
	case " ", "p":
		v.playing = !v.playing
		if v.playing {
			if v.row >= last {
				v.row = 0
			}
			return v, tick()
		}
	}
	return v, nil
}

func (v Viewer) domain() string {
	if v.spectral {
		return storage.Spectrum
	}
	return storage.Time
}

func (v Viewer) profile() []float64 {
	if v.spectral {
		return v.run.Spectrum[v.field][v.row]
	}
	return v.run.Time[v.field][v.row]
}

// energyAt returns the energy fractions at the current slice, or nil.
func (v Viewer) energyAt() []float64 {
	e := v.run.Energy
	if e == nil || v.run.Dz == 0 {
		return nil
	}
	i := int(math.Round(v.run.Z[v.row]/v.run.Dz)) - 1
	if i < 0 || i >= len(e.Z) {
		return nil
	}
	out := make([]float64, len(e.Values))
	for f := range e.Values {
		out[f] = e.Values[f][i]
	}
	return out
}

func (v Viewer) View() string {
	idx := 0
	if v.spectral {
		idx = 1
	}
	v.canvas.Clear()
	v.canvas.DrawProfile(v.profile(), v.peaks[idx][v.field])

	color := v.theme.Pump
	if v.field > 0 {
		color = v.theme.Signal
	}
	canvasView := lipgloss.NewStyle().Foreground(color).Padding(1, 2).Render(v.canvas.String())

	var s strings.Builder
	s.WriteString(viz.GradientText(strings.ToUpper(v.run.Model), v.theme.Primary, v.theme.Secondary) + "\n\n")

	status := "PAUSED"
	if v.playing {
		status = "PLAYING"
	}
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(v.theme.Accent).Render(status) + "\n\n")

	s.WriteString(labelStyle.Render("field") + valueStyle.Render(v.run.Fields[v.field]) + "\n")
	s.WriteString(labelStyle.Render("domain") + valueStyle.Render(v.domain()) + "\n")
	s.WriteString(labelStyle.Render("slice") + valueStyle.Render(fmt.Sprintf("%d/%d", v.row+1, len(v.run.Z))) + "\n")
	s.WriteString(labelStyle.Render("z") + valueStyle.Render(fmt.Sprintf("%.4g", v.run.Z[v.row])) + "\n")

	profile := v.profile()
	s.WriteString(labelStyle.Render("rms width") + valueStyle.Render(fmt.Sprintf("%.2f", analysis.RMSWidth(profile))) + "\n")
	s.WriteString(labelStyle.Render("peak bin") + valueStyle.Render(fmt.Sprintf("%d", analysis.PeakIndex(profile))) + "\n")

	if fractions := v.energyAt(); fractions != nil {
		s.WriteString("\n")
		for f, frac := range fractions {
			s.WriteString(labelStyle.Render(v.run.Fields[f]) + viz.ProgressBar(frac, 16) + valueStyle.Render(fmt.Sprintf(" %.3f", frac)) + "\n")
		}
	}

	if v.run.Energy != nil && len(v.run.Energy.Values) > 1 {
		s.WriteString("\n" + labelStyle.Render("signal") + viz.Sparkline(v.run.Energy.Values[1], 20) + "\n")
	}

	s.WriteString(viz.KeyHint.Render("\n←/→ step  [/] jump  g/G ends\ntab field  s domain  space play\nt theme  q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// View opens the viewer on the terminal's alternate screen.
func View(run *Run) error {
	_, err := tea.NewProgram(NewViewer(run), tea.WithAltScreen()).Run()
	return err
}
