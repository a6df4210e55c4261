package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/springlab/internal/sampler"
	"github.com/san-kum/springlab/internal/scene"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	samples := []sampler.Sample{
		{Time: 0, X: 0, Y: 0, Entity: "box1"},
		{Time: 2, X: -30, Y: 1.5, Entity: "box1"},
	}
	meta := RunMetadata{
		Scene:        "triple",
		Ticks:        4,
		SamplingRate: 2,
		Targets:      []string{"box1"},
		Bodies:       []scene.BodyState{{Name: "box1", X: 99, Y: 100}},
		Summary:      map[string]float64{"peak_force": 30},
	}

	runID, err := st.Save(meta, samples)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Scene != "triple" || loaded.Ticks != 4 || loaded.Samples != 2 {
		t.Errorf("unexpected metadata: %+v", loaded)
	}
	if loaded.Summary["peak_force"] != 30 {
		t.Errorf("expected peak_force 30, got %f", loaded.Summary["peak_force"])
	}
	if len(loaded.Bodies) != 1 || loaded.Bodies[0].X != 99 {
		t.Errorf("unexpected bodies: %+v", loaded.Bodies)
	}

	got, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[1] != samples[1] {
		t.Errorf("expected %+v, got %+v", samples[1], got[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Unix(1700000000, 0)
	st.now = func() time.Time { return base }
	if _, err := st.Save(RunMetadata{Scene: "late"}, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	st.now = func() time.Time { return base.Add(-time.Hour) }
	if _, err := st.Save(RunMetadata{Scene: "early"}, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(st.baseDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(st.baseDir, "broken"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Scene != "early" || runs[1].Scene != "late" {
		t.Errorf("expected oldest first, got %s then %s", runs[0].Scene, runs[1].Scene)
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestLoadSamplesSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	runDir := filepath.Join(dir, "manual")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	data := "time,fx,fy,entity\n0,1,2,box1\nbad,1,2,box1\n2,3\n4,5,6\n"
	if err := os.WriteFile(filepath.Join(runDir, samplesFile), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	samples, err := st.LoadSamples("manual")
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1].Entity != "" || samples[1].Y != 6 {
		t.Errorf("unexpected sample: %+v", samples[1])
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "triple_1", Scene: "triple", Ticks: 6, SamplingRate: 2}
	samples := []sampler.Sample{
		{Time: 0, X: 1, Y: 2, Entity: "box1"},
		{Time: 0, X: 3, Y: 4, Entity: "box2"},
		{Time: 2, X: 5, Y: 6, Entity: "box1"},
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, samples); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.ID != "triple_1" || got.Ticks != 6 {
		t.Errorf("unexpected header: %+v", got)
	}
	box1 := got.Series["box1"]
	if len(box1.Times) != 2 || box1.Times[1] != 2 || box1.FY[1] != 6 {
		t.Errorf("unexpected box1 series: %+v", box1)
	}
	if len(got.Series["box2"].FX) != 1 {
		t.Errorf("unexpected box2 series: %+v", got.Series["box2"])
	}
}

func TestExportJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSONFile(path, &RunMetadata{Scene: "single"}, nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file: %v", err)
	}
}
