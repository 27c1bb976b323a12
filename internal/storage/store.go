package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/sim"
)

const (
	metadataFile = "metadata.json"
	anglesFile   = "angles.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Paused    bool               `json:"paused"`
	BodyIDs   []string           `json:"bodies"`
	Speeds    map[string]float64 `json:"speeds"`
	Metrics   map[string]float64 `json:"metrics"`

	// VariableSpeed marks runs whose multipliers changed mid-run; Speeds then
	// holds the final values only.
	VariableSpeed bool `json:"variable_speed,omitempty"`
}

// FixedSpeed returns the multiplier a body held for the whole run. ok is
// false when the speeds changed during the run.
func (m RunMetadata) FixedSpeed(id string) (speed float64, ok bool) {
	if m.VariableSpeed {
		return 0, false
	}
	if v, found := m.Speeds[id]; found {
		return v, true
	}
	return orrery.DefaultSpeedMultiplier, true
}

// Save writes the run under a fresh id and returns it. ID, Timestamp,
// BodyIDs, Frames and Metrics in meta are filled from the store and result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	label := meta.Preset
	if label == "" {
		label = "run"
	}
	runID := fmt.Sprintf("%s_%s", label, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	meta.ID = runID
	meta.Timestamp = s.now()
	meta.BodyIDs = result.BodyIDs
	meta.Frames = result.Frames
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeAngles(filepath.Join(runDir, anglesFile), result); err != nil {
		return "", fmt.Errorf("write angles: %w", err)
	}

	return runID, nil
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

func writeAngles(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"time"}, result.BodyIDs...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, sample := range result.Samples {
		row := make([]string, 0, len(sample)+1)
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for _, v := range sample {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadAngles reads angles.csv back into a result. Metrics come from the
// metadata file.
func (s *Store) LoadAngles(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, anglesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read angles %s: %w", runID, err)
	}

	result := &sim.Result{
		Times:   []float64{},
		Samples: []sim.Sample{},
		Metrics: meta.Metrics,
		Frames:  meta.Frames,
	}
	if len(records) == 0 {
		result.BodyIDs = meta.BodyIDs
		return result, nil
	}
	result.BodyIDs = records[0][1:]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		sample := make(sim.Sample, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				v = 0
			}
			sample = append(sample, v)
		}
		result.Times = append(result.Times, t)
		result.Samples = append(result.Samples, sample)
	}

	return result, nil
}

type ExportData struct {
	ID       string             `json:"id,omitempty"`
	Preset   string             `json:"preset"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Bodies   []string           `json:"bodies"`
	Speeds   map[string]float64 `json:"speeds,omitempty"`
	Times    []float64          `json:"times"`
	Angles   [][]float64        `json:"angles"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a stored run as one JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	result, err := s.LoadAngles(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, *meta, result)
}

func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		ID:       meta.ID,
		Preset:   meta.Preset,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    len(result.Times),
		Bodies:   result.BodyIDs,
		Speeds:   meta.Speeds,
		Times:    result.Times,
		Angles:   make([][]float64, len(result.Samples)),
		Metrics:  result.Metrics,
	}
	for i, s := range result.Samples {
		data.Angles[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
