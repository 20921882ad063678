package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
)

const (
	Time     = "time"
	Spectrum = "spectrum"

	metadataFile = "metadata.json"
	energyFile   = "energy.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Backend   string             `json:"backend"`
	Timestamp time.Time          `json:"timestamp"`
	Fields    []string           `json:"fields"`
	Steps     int                `json:"steps"`
	Points    int                `json:"points"`
	Dz        float64            `json:"dz"`
	Stride    int                `json:"stride"`
	Params    map[string]float64 `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Energy is the per-step energy table of a stored run.
type Energy struct {
	Z      []float64
	Fields []string
	// Values is indexed [field][step].
	Values [][]float64
}

// Magnitudes is one decimated magnitude grid of a stored run.
type Magnitudes struct {
	Z    []float64
	Rows [][]float64
}

// Save writes a run to its own directory. Magnitude grids keep every
// stride-th step and always the final one; the energy table keeps every step.
func (s *Store) Save(backend string, stride int, params map[string]float64, result *dynamo.Result) (string, error) {
	if stride < 1 {
		stride = 1
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", result.Model, now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	points := 0
	if len(result.Time) > 0 {
		points = result.Time[0].Cols
	}

	meta := RunMetadata{
		ID:        runID,
		Model:     result.Model,
		Backend:   backend,
		Timestamp: now,
		Fields:    result.Fields,
		Steps:     result.StepsTaken,
		Points:    points,
		Dz:        result.Dz,
		Stride:    stride,
		Params:    params,
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if result.Energy != nil {
		if err := writeEnergy(filepath.Join(runDir, energyFile), result); err != nil {
			return "", err
		}
	}

	rows := decimate(result.StepsTaken, stride)
	for f, name := range result.Fields {
		timeRows := make([][]float64, len(rows))
		specRows := make([][]float64, len(rows))
		for j, i := range rows {
			timeRows[j] = dynamo.Field(result.Time[f].Row(i)).Abs(nil)
			specRows[j] = result.Spectrum[f].Row(i)
		}
		z := zAxis(rows, result.Dz)

		if err := writeGrid(gridPath(runDir, name, Time), z, timeRows); err != nil {
			return "", err
		}
		if err := writeGrid(gridPath(runDir, name, Spectrum), z, specRows); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

// Latest returns the most recent run id.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs in %s", s.baseDir)
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadEnergy(runID string) (*Energy, error) {
	records, err := readCSV(filepath.Join(s.Dir(runID), energyFile))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty energy table", runID)
	}

	header := records[0]
	e := &Energy{
		Fields: header[1:],
		Values: make([][]float64, len(header)-1),
	}
	for _, record := range records[1:] {
		vals, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", energyFile, err)
		}
		if len(vals) != len(header) {
			return nil, fmt.Errorf("%w: %s row has %d columns, want %d", dynamo.ErrDimensionMismatch, energyFile, len(vals), len(header))
		}
		e.Z = append(e.Z, vals[0])
		for f := range e.Values {
			e.Values[f] = append(e.Values[f], vals[f+1])
		}
	}

	return e, nil
}

// LoadMagnitudes reads the decimated time or spectrum grid of one field.
func (s *Store) LoadMagnitudes(runID, field, domain string) (*Magnitudes, error) {
	if domain != Time && domain != Spectrum {
		return nil, fmt.Errorf("unknown domain %q", domain)
	}

	records, err := readCSV(gridPath(s.Dir(runID), field, domain))
	if err != nil {
		return nil, err
	}

	m := &Magnitudes{}
	for i, record := range records {
		if i == 0 {
			continue
		}
		vals, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s_%s: %w", field, domain, err)
		}
		if len(vals) < 1 {
			continue
		}
		m.Z = append(m.Z, vals[0])
		m.Rows = append(m.Rows, vals[1:])
	}

	return m, nil
}

func gridPath(runDir, field, domain string) string {
	return filepath.Join(runDir, fmt.Sprintf("%s_%s.csv", field, domain))
}

// decimate returns the step indices kept for a given stride.
func decimate(steps, stride int) []int {
	rows := make([]int, 0, steps/stride+1)
	for i := 0; i < steps; i += stride {
		rows = append(rows, i)
	}
	if steps > 0 && rows[len(rows)-1] != steps-1 {
		rows = append(rows, steps-1)
	}
	return rows
}

func zAxis(rows []int, dz float64) []float64 {
	z := make([]float64, len(rows))
	for j, i := range rows {
		z[j] = float64(i+1) * dz
	}
	return z
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEnergy(path string, result *dynamo.Result) error {
	header := append([]string{"z"}, result.Fields...)

	rows := make([][]float64, result.StepsTaken)
	for i := range rows {
		row := make([]float64, len(result.Fields))
		for f := range result.Fields {
			row[f] = result.Energy[f][i]
		}
		rows[i] = row
	}

	return writeTable(path, header, zAxis(decimate(result.StepsTaken, 1), result.Dz), rows)
}

func writeGrid(path string, z []float64, rows [][]float64) error {
	header := []string{"z"}
	if len(rows) > 0 {
		for k := range rows[0] {
			header = append(header, fmt.Sprintf("k%d", k))
		}
	}
	return writeTable(path, header, z, rows)
}

func writeTable(path string, header []string, z []float64, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, vals := range rows {
		record := make([]string, 0, len(vals)+1)
		record = append(record, formatFloat(z[i]))
		for _, v := range vals {
			record = append(record, formatFloat(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseRow(record []string) ([]float64, error) {
	vals := make([]float64, len(record))
	for i, s := range record {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
