package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/springlab/internal/sampler"
)

// ExportData is a run with its samples split per entity.
type ExportData struct {
	ID           string             `json:"id"`
	Scene        string             `json:"scene"`
	Ticks        uint64             `json:"ticks"`
	SamplingRate int                `json:"sampling_rate"`
	Series       map[string]Series  `json:"series"`
	Summary      map[string]float64 `json:"summary"`
}

// Series holds one entity's accumulated force over time.
type Series struct {
	Times []float64 `json:"times"`
	FX    []float64 `json:"fx"`
	FY    []float64 `json:"fy"`
}

func NewExportData(meta *RunMetadata, samples []sampler.Sample) ExportData {
	data := ExportData{
		ID:           meta.ID,
		Scene:        meta.Scene,
		Ticks:        meta.Ticks,
		SamplingRate: meta.SamplingRate,
		Series:       SplitByEntity(samples),
		Summary:      meta.Summary,
	}
	return data
}

// SplitByEntity groups samples by entity name, keeping their order.
func SplitByEntity(samples []sampler.Sample) map[string]Series {
	out := make(map[string]Series)
	for _, smp := range samples {
		s := out[smp.Entity]
		s.Times = append(s.Times, smp.Time)
		s.FX = append(s.FX, smp.X)
		s.FY = append(s.FY, smp.Y)
		out[smp.Entity] = s
	}
	return out
}

func ExportJSON(w io.Writer, meta *RunMetadata, samples []sampler.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, samples))
}

func ExportJSONFile(path string, meta *RunMetadata, samples []sampler.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, samples)
}
