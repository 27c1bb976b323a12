package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/orrery/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		BodyIDs: []string{"mercury", "earth"},
		Times:   []float64{0.0, 0.5, 1.0},
		Samples: []sim.Sample{
			{0, 0},
			{0.2075, 0.05},
			{0.415, 0.1},
		},
		Metrics: map[string]float64{"frames": 2},
		Frames:  2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Preset: "default", Dt: 0.5, Duration: 1}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "default_") {
		t.Errorf("expected run id to start with preset name, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("expected id %q, got %q", runID, meta.ID)
	}
	if meta.Frames != 2 {
		t.Errorf("expected 2 frames, got %d", meta.Frames)
	}
	if meta.Metrics["frames"] != 2 {
		t.Errorf("expected frames metric 2, got %f", meta.Metrics["frames"])
	}

	result, err := st.LoadAngles(runID)
	if err != nil {
		t.Fatalf("load angles failed: %v", err)
	}
	if len(result.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(result.Samples))
	}
	if len(result.BodyIDs) != 2 || result.BodyIDs[1] != "earth" {
		t.Errorf("unexpected body ids %v", result.BodyIDs)
	}
	if got := result.Samples[2][1]; got != 0.1 {
		t.Errorf("expected earth angle 0.1, got %f", got)
	}
	if got := result.Times[1]; got != 0.5 {
		t.Errorf("expected time 0.5, got %f", got)
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

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Dt: 0.5, Duration: 1}, sampleResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("expected distinct run ids")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Preset: "frozen"}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "angles.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(runDir, "angles.csv"))
	if err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(string(data), "\n", 2)[0]
	if first != "time,mercury,earth" {
		t.Errorf("unexpected header %q", first)
	}
}

func TestStoreExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Preset: "default", Dt: 0.5, Duration: 1}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(runID, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.ID != runID {
		t.Errorf("expected id %q, got %q", runID, data.ID)
	}
	if data.Steps != 3 {
		t.Errorf("expected 3 steps, got %d", data.Steps)
	}
	if len(data.Angles) != 3 || len(data.Angles[0]) != 2 {
		t.Errorf("unexpected angles shape %v", data.Angles)
	}
}

func TestRunMetadataFixedSpeed(t *testing.T) {
	meta := RunMetadata{Speeds: map[string]float64{"earth": 2}}
	if v, ok := meta.FixedSpeed("earth"); !ok || v != 2 {
		t.Errorf("expected earth 2, got %v (ok=%v)", v, ok)
	}
	if v, ok := meta.FixedSpeed("mars"); !ok || v != 1 {
		t.Errorf("expected default 1 for mars, got %v (ok=%v)", v, ok)
	}

	meta.VariableSpeed = true
	if _, ok := meta.FixedSpeed("earth"); ok {
		t.Error("expected no fixed speed once speeds changed mid-run")
	}
}

func TestStoreSaveVariableSpeed(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Preset: "tour", Dt: 0.5, Duration: 1, VariableSpeed: true}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !meta.VariableSpeed {
		t.Error("expected variable speed flag to survive a reload")
	}
}
