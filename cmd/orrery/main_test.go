package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/spf13/cobra"
)

func withFlags(t *testing.T, data, file string) {
	t.Helper()
	oldData, oldFile, oldPreset := dataDir, configFile, preset
	dataDir, configFile, preset = data, file, ""
	t.Cleanup(func() { dataDir, configFile, preset = oldData, oldFile, oldPreset })
}

func TestOpenStoreUsesConfigDataDir(t *testing.T) {
	dir := t.TempDir()
	runs := filepath.Join(dir, "runs")
	path := filepath.Join(dir, "orrery.yaml")
	if err := os.WriteFile(path, []byte("data_dir: "+runs+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	withFlags(t, ".orrery", path)

	cmd := &cobra.Command{}
	st, err := openStore(cmd)
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	if st.Dir() != runs {
		t.Fatalf("expected store in %s, got %s", runs, st.Dir())
	}

	result := &sim.Result{
		BodyIDs: []string{"earth"},
		Times:   []float64{0, 1},
		Samples: []sim.Sample{{0}, {0.1}},
		Frames:  1,
	}
	runID, err := storage.New(runs).Save(storage.RunMetadata{Preset: "default", Dt: 1, Duration: 1}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	listed, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != runID {
		t.Errorf("expected run %s to be listed, got %v", runID, listed)
	}
}

func TestOpenStoreFallsBackToFlag(t *testing.T) {
	dir := t.TempDir()
	withFlags(t, dir, "")

	st, err := openStore(&cobra.Command{})
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	if st.Dir() != dir {
		t.Errorf("expected store in %s, got %s", dir, st.Dir())
	}
}
