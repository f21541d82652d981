package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/rs/xid"

	"github.com/san-kum/gyropulse/internal/config"
	"github.com/san-kum/gyropulse/internal/sim"
)

const (
	metadataFile = "metadata.json"
	phasesFile   = "phases.csv"
	sceneFile    = "scene.yaml"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Preset          string             `json:"preset,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
	BPM             float64            `json:"bpm"`
	BeatsPerMeasure int                `json:"beats_per_measure"`
	Rings           int                `json:"rings"`
	Mode            string             `json:"mode"`
	Variant         string             `json:"variant"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	Steps           int                `json:"steps"`
	Samples         int                `json:"samples"`
	BeatTimes       []float64          `json:"beat_times"`
	Metrics         map[string]float64 `json:"metrics"`
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Save writes a run directory: metadata.json, phases.csv and the scene that
// produced it. The returned id is unique even for runs saved in the same
// second.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%s", unsafeName.ReplaceAllString(name, "_"), xid.New().String())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Name:            name,
		Preset:          cfg.Preset,
		Timestamp:       time.Now(),
		BPM:             cfg.Tempo.BPM,
		BeatsPerMeasure: cfg.Tempo.BeatsPerMeasure,
		Rings:           cfg.Scene.Rings,
		Mode:            cfg.Motion.Mode,
		Variant:         cfg.Motion.Variant,
		Dt:              cfg.Dt,
		Duration:        cfg.Duration,
		Steps:           result.StepsTaken,
		Samples:         len(result.Times),
		BeatTimes:       result.BeatTimes,
		Metrics:         result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, phasesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(runDir, sceneFile), cfg); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns every readable run, oldest first.
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
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrace reads the recorded samples back into a result. Metrics and beat
// times come from the metadata.
func (s *Store) LoadTrace(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, phasesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	res, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	res.Metrics = meta.Metrics
	res.BeatTimes = meta.BeatTimes
	res.StepsTaken = meta.Steps
	return res, nil
}

// LoadScene returns the scene a run was recorded with.
func (s *Store) LoadScene(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, sceneFile))
}
