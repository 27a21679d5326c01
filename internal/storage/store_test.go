package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTask(id string) *Task {
	sc := dynamo.Scenario{MassA: 3, MassB: 2, VelocityA: 5, VelocityB: -4, RadiusA: 30, RadiusB: 25.5, PosA: 2, PosB: 12}
	return &Task{
		Meta: Metadata{
			TaskID:         id,
			BatchID:        "batch-1",
			Domain:         "collision_physics",
			Seed:           42,
			Timestamp:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Scenario:       sc,
			CollisionType:  "elastic",
			Restitution:    1,
			Dt:             0.1,
			Steps:          3,
			FrameIndex:     2,
			CollisionIndex: 1,
			Pass:           "separated",
			ContactSteps:   []int{1},
			Metrics:        map[string]float64{"contacts": 1},
		},
		Prompt: "Two balls collide elastically.",
		First:  image.NewRGBA(image.Rect(0, 0, 8, 4)),
		Final:  image.NewRGBA(image.Rect(0, 0, 8, 4)),
		Trajectory: dynamo.Trajectory{
			Dt: 0.1,
			Samples: []dynamo.Sample{
				{PositionA: 2.5, PositionB: 11.6, VelocityA: 5, VelocityB: -4},
				{PositionA: 6.25, PositionB: 7.4, VelocityA: -2.2, VelocityB: 6.8},
				{PositionA: 6.03, PositionB: 8.08, VelocityA: -2.2, VelocityB: 6.8},
			},
			ContactSteps: []int{1},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	st := New(t.TempDir(), "collision_physics")
	task := sampleTask("collision_physics_0000")

	require.NoError(t, st.Save(task))

	for _, name := range []string{FirstFrameFile, FinalFrameFile, PromptFile, MetadataFile, TrajectoryFile} {
		assert.FileExists(t, filepath.Join(st.Dir(), task.Meta.TaskID, name))
	}

	meta, err := st.Load(task.Meta.TaskID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, task.Meta.Scenario, meta.Scenario)
	assert.Equal(t, "separated", meta.Pass)
	assert.Empty(t, meta.Video)

	prompt, err := st.LoadPrompt(task.Meta.TaskID)
	require.NoError(t, err)
	assert.Equal(t, task.Prompt, prompt)

	traj, err := st.LoadTrajectory(task.Meta.TaskID)
	require.NoError(t, err)
	assert.Equal(t, task.Trajectory, traj)
}

func TestSaveMovesVideo(t *testing.T) {
	st := New(t.TempDir(), "collision_physics")
	scratch, err := st.Scratch("gif")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(scratch, []byte("GIF89a"), 0644))

	task := sampleTask("collision_physics_0001")
	task.VideoPath = scratch
	require.NoError(t, st.Save(task))

	meta, err := st.Load(task.Meta.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "ground_truth.gif", meta.Video)
	assert.FileExists(t, filepath.Join(st.Dir(), task.Meta.TaskID, "ground_truth.gif"))
	assert.NoFileExists(t, scratch)
}

func TestSaveFailureLeavesNothing(t *testing.T) {
	st := New(t.TempDir(), "collision_physics")
	task := sampleTask("collision_physics_0002")
	task.Final = nil

	require.Error(t, st.Save(task))

	entries, err := os.ReadDir(st.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "failed save should not leave staging or task directories")
}

func TestSaveReplaces(t *testing.T) {
	st := New(t.TempDir(), "collision_physics")
	task := sampleTask("collision_physics_0003")
	require.NoError(t, st.Save(task))

	task.Prompt = "regenerated"
	require.NoError(t, st.Save(task))

	prompt, err := st.LoadPrompt(task.Meta.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "regenerated", prompt)
}

func TestList(t *testing.T) {
	st := New(t.TempDir(), "collision_physics")

	tasks, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	for _, id := range []string{"collision_physics_0002", "collision_physics_0000", "collision_physics_0001"} {
		require.NoError(t, st.Save(sampleTask(id)))
	}
	_, err = st.Scratch("mp4")
	require.NoError(t, err)

	tasks, err = st.List()
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "collision_physics_0000", tasks[0].TaskID)
	assert.Equal(t, "collision_physics_0002", tasks[2].TaskID)
}

func TestLoadMissing(t *testing.T) {
	st := New(t.TempDir(), "collision_physics")
	_, err := st.Load("nope")
	assert.True(t, errors.Is(err, ErrTaskNotFound))
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir(), "collision_physics")
	task := sampleTask("collision_physics_0000")
	require.NoError(t, st.Save(task))

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, task.Meta.TaskID))

	var out ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, task.Meta.TaskID, out.TaskID)
	assert.Equal(t, task.Prompt, out.Prompt)
	assert.Len(t, out.Samples, 3)
	assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.3}, out.Times, 1e-9)
}
