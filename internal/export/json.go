package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/storage"
)

// Report is the JSON form of a run: energy curves plus the final
// magnitude profiles of every field.
type Report struct {
	Model         string               `json:"model"`
	Backend       string               `json:"backend"`
	Dz            float64              `json:"dz"`
	Steps         int                  `json:"steps"`
	Params        map[string]float64   `json:"params,omitempty"`
	Metrics       map[string]float64   `json:"metrics"`
	Z             []float64            `json:"z,omitempty"`
	Energy        map[string][]float64 `json:"energy,omitempty"`
	FinalTime     map[string][]float64 `json:"final_time"`
	FinalSpectrum map[string][]float64 `json:"final_spectrum"`
}

func ReportFromResult(result *dynamo.Result, backend string, params map[string]float64) *Report {
	rep := &Report{
		Model:         result.Model,
		Backend:       backend,
		Dz:            result.Dz,
		Steps:         result.StepsTaken,
		Params:        params,
		Metrics:       result.Metrics,
		FinalTime:     make(map[string][]float64),
		FinalSpectrum: make(map[string][]float64),
	}
	if result.StepsTaken == 0 {
		return rep
	}

	last := result.StepsTaken - 1
	for f, name := range result.Fields {
		rep.FinalTime[name] = dynamo.Field(result.Time[f].Row(last)).Abs(nil)
		rep.FinalSpectrum[name] = append([]float64(nil), result.Spectrum[f].Row(last)...)
	}

	if result.Energy != nil {
		rep.Z = make([]float64, result.StepsTaken)
		rep.Energy = make(map[string][]float64)
		for i := range rep.Z {
			rep.Z[i] = float64(i+1) * result.Dz
		}
		for f, name := range result.Fields {
			rep.Energy[name] = result.Energy[f][:result.StepsTaken]
		}
	}
	return rep
}

// ReportFromStore rebuilds a report from a saved run.
func ReportFromStore(st *storage.Store, runID string) (*Report, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Model:         meta.Model,
		Backend:       meta.Backend,
		Dz:            meta.Dz,
		Steps:         meta.Steps,
		Params:        meta.Params,
		Metrics:       meta.Metrics,
		FinalTime:     make(map[string][]float64),
		FinalSpectrum: make(map[string][]float64),
	}

	for _, field := range meta.Fields {
		for _, domain := range []string{storage.Time, storage.Spectrum} {
			m, err := st.LoadMagnitudes(runID, field, domain)
			if err != nil {
				return nil, err
			}
			if len(m.Rows) == 0 {
				continue
			}
			final := m.Rows[len(m.Rows)-1]
			if domain == storage.Time {
				rep.FinalTime[field] = final
			} else {
				rep.FinalSpectrum[field] = final
			}
		}
	}

	if e, err := st.LoadEnergy(runID); err == nil {
		rep.Z = e.Z
		rep.Energy = make(map[string][]float64)
		for f, name := range e.Fields {
			rep.Energy[name] = e.Values[f]
		}
	}

	return rep, nil
}

func WriteJSON(w io.Writer, rep *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rep)
}

func JSONFile(path string, rep *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, rep)
}
