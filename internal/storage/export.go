package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

type ExportData struct {
	Metadata
	Prompt  string          `json:"prompt"`
	Times   []float64       `json:"times"`
	Samples []dynamo.Sample `json:"samples"`
}

// ExportJSON writes a task's metadata, prompt and trajectory as one JSON
// document.
func (s *Store) ExportJSON(w io.Writer, taskID string) error {
	meta, err := s.Load(taskID)
	if err != nil {
		return err
	}
	prompt, err := s.LoadPrompt(taskID)
	if err != nil {
		return err
	}
	traj, err := s.LoadTrajectory(taskID)
	if err != nil {
		return err
	}

	data := ExportData{
		Metadata: *meta,
		Prompt:   prompt,
		Times:    make([]float64, traj.Len()),
		Samples:  traj.Samples,
	}
	for i := range data.Times {
		data.Times[i] = traj.Time(i)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
