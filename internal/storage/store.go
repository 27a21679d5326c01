// Package storage persists generated tasks as one directory per task under
// <output_dir>/<domain>_task/.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/render"
)

const (
	FirstFrameFile = "first_frame.png"
	FinalFrameFile = "final_frame.png"
	PromptFile     = "prompt.txt"
	MetadataFile   = "metadata.json"
	TrajectoryFile = "trajectory.csv"
	VideoBase      = "ground_truth"

	stagingPrefix = ".staging-"
)

var ErrTaskNotFound = errors.New("storage: task not found")

type Store struct {
	baseDir string
}

// New roots the store at <outputDir>/<domain>_task.
func New(outputDir, domain string) *Store {
	return &Store{baseDir: filepath.Join(outputDir, domain+"_task")}
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	TaskID         string             `json:"task_id"`
	BatchID        string             `json:"batch_id"`
	Domain         string             `json:"domain"`
	Index          int                `json:"index"`
	Seed           int64              `json:"seed"`
	Timestamp      time.Time          `json:"timestamp"`
	Scenario       dynamo.Scenario    `json:"scenario"`
	CollisionType  string             `json:"collision_type"`
	Restitution    float64            `json:"restitution"`
	Integrator     string             `json:"integrator"`
	Dt             float64            `json:"dt"`
	Steps          int                `json:"steps"`
	FrameIndex     int                `json:"frame_index"`
	CollisionIndex int                `json:"collision_index"`
	Pass           string             `json:"selection_pass"`
	Degenerate     bool               `json:"degenerate"`
	ContactSteps   []int              `json:"contact_steps"`
	Video          string             `json:"video,omitempty"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Task is everything written for one generated sample.
type Task struct {
	Meta       Metadata
	Prompt     string
	First      image.Image
	Final      image.Image
	Trajectory dynamo.Trajectory
	// VideoPath is an encoded clip to move into the task directory, if any.
	VideoPath string
}

// Scratch reserves a temporary file inside the store so a later Save can
// rename it into place.
func (s *Store) Scratch(ext string) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(s.baseDir, stagingPrefix+"*."+ext)
	if err != nil {
		return "", err
	}
	name := f.Name()
	return name, f.Close()
}

// Save writes the task into a staging directory and renames it into place,
// replacing any earlier task with the same id.
func (s *Store) Save(task *Task) (err error) {
	if task.Meta.TaskID == "" {
		return errors.New("storage: empty task id")
	}
	if err := s.Init(); err != nil {
		return err
	}

	stage, err := os.MkdirTemp(s.baseDir, stagingPrefix+task.Meta.TaskID+"-")
	if err != nil {
		return fmt.Errorf("stage %s: %w", task.Meta.TaskID, err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(stage)
		}
	}()

	if err := writePNG(filepath.Join(stage, FirstFrameFile), task.First); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(stage, FinalFrameFile), task.Final); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(stage, PromptFile), []byte(task.Prompt+"\n"), 0644); err != nil {
		return err
	}
	if err := writeTrajectory(filepath.Join(stage, TrajectoryFile), task.Trajectory); err != nil {
		return err
	}

	meta := task.Meta
	if task.VideoPath != "" {
		meta.Video = VideoBase + filepath.Ext(task.VideoPath)
		if err := os.Rename(task.VideoPath, filepath.Join(stage, meta.Video)); err != nil {
			return fmt.Errorf("move video: %w", err)
		}
	}
	if err := writeJSON(filepath.Join(stage, MetadataFile), meta); err != nil {
		return err
	}

	final := filepath.Join(s.baseDir, task.Meta.TaskID)
	if err := os.RemoveAll(final); err != nil {
		return err
	}
	if err := os.Rename(stage, final); err != nil {
		return fmt.Errorf("commit %s: %w", task.Meta.TaskID, err)
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("missing image for %s", filepath.Base(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := render.EncodePNG(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

var trajectoryHeader = []string{"step", "time", "pos_a", "pos_b", "vel_a", "vel_b"}

func writeTrajectory(path string, traj dynamo.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}
	for i, smp := range traj.Samples {
		row := []string{
			strconv.Itoa(i),
			formatFloat(traj.Time(i)),
			formatFloat(smp.PositionA),
			formatFloat(smp.PositionB),
			formatFloat(smp.VelocityA),
			formatFloat(smp.VelocityB),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// List returns metadata for every committed task, ordered by task id.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	tasks := make([]Metadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		tasks = append(tasks, *meta)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].TaskID < tasks[j].TaskID })
	return tasks, nil
}

func (s *Store) Load(taskID string) (*Metadata, error) {
	data, err := os.ReadFile(s.path(taskID, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", taskID, err)
	}
	return &meta, nil
}

func (s *Store) LoadPrompt(taskID string) (string, error) {
	data, err := os.ReadFile(s.path(taskID, PromptFile))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// LoadTrajectory reads trajectory.csv back, restoring Dt and contact steps
// from the metadata.
func (s *Store) LoadTrajectory(taskID string) (dynamo.Trajectory, error) {
	meta, err := s.Load(taskID)
	if err != nil {
		return dynamo.Trajectory{}, err
	}

	f, err := os.Open(s.path(taskID, TrajectoryFile))
	if err != nil {
		return dynamo.Trajectory{}, err
	}
	defer f.Close()

	samples, err := readTrajectory(f)
	if err != nil {
		return dynamo.Trajectory{}, fmt.Errorf("read %s trajectory: %w", taskID, err)
	}
	return dynamo.Trajectory{
		Samples:      samples,
		Dt:           meta.Dt,
		ContactSteps: meta.ContactSteps,
	}, nil
}

func readTrajectory(r io.Reader) ([]dynamo.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(trajectoryHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, errors.New("missing header")
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for line, record := range records[1:] {
		vals := make([]float64, 4)
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line+2, err)
			}
			vals[j] = v
		}
		samples = append(samples, dynamo.Sample{
			PositionA: vals[0],
			PositionB: vals[1],
			VelocityA: vals[2],
			VelocityB: vals[3],
		})
	}
	return samples, nil
}

func (s *Store) path(taskID, name string) string {
	return filepath.Join(s.baseDir, taskID, name)
}
