// Package generator turns configuration into stored collision tasks: it
// samples a scenario, simulates it, picks the final frame, renders the frame
// pair and optional clip, phrases the prompt and hands the result to the
// dataset store.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/san-kum/collisiongen/internal/config"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/experiment"
	"github.com/san-kum/collisiongen/internal/frame"
	"github.com/san-kum/collisiongen/internal/prompt"
	"github.com/san-kum/collisiongen/internal/render"
	"github.com/san-kum/collisiongen/internal/sim"
	"github.com/san-kum/collisiongen/internal/storage"
	"github.com/san-kum/collisiongen/internal/video"
)

type Generator struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    *storage.Store
	registry *experiment.Registry
	selector *frame.Selector
	renderer *render.Renderer
	encoder  video.Encoder
	batchID  string
	now      func() time.Time
}

func New(cfg *config.Config, store *storage.Store, log zerolog.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:      cfg,
		log:      log,
		store:    store,
		registry: experiment.NewRegistry(),
		selector: frame.NewSelector(cfg.World(), cfg.SeparationThreshold),
		renderer: render.New(render.Options{
			Width:      cfg.ImageWidth,
			Height:     cfg.ImageHeight,
			WorldWidth: cfg.WorldWidth,
			Arrows:     cfg.ShowVelocityArrows,
			Labels:     cfg.ShowMassLabels,
			FontPaths:  cfg.FontPaths,
		}, log),
		batchID: uuid.NewString(),
		now:     time.Now,
	}

	if cfg.GenerateVideos {
		enc, err := video.Select(cfg.VideoFormat)
		switch {
		case errors.Is(err, dynamo.ErrVideoBackendUnavailable):
			log.Warn().Err(err).Str("format", cfg.VideoFormat).Msg("video backend unavailable, skipping videos")
		case err != nil:
			return nil, err
		default:
			g.encoder = enc
		}
	}

	return g, nil
}

func (g *Generator) BatchID() string { return g.batchID }

// VideoEnabled reports whether tasks will carry a ground-truth clip.
func (g *Generator) VideoEnabled() bool { return g.encoder != nil }

func TaskID(domain string, idx int) string {
	return fmt.Sprintf("%s_%04d", domain, idx)
}

// Generate builds task idx from seed without committing it. A clip, if any,
// is left in the store's scratch space for Save to move into place.
func (g *Generator) Generate(ctx context.Context, idx int, seed int64) (*storage.Task, error) {
	log := g.log.With().Int("index", idx).Int64("seed", seed).Logger()
	rng := rand.New(rand.NewSource(seed))

	model, err := g.cfg.Model()
	if err != nil {
		return nil, err
	}
	sc := experiment.NewSampler(rng).Sample(g.cfg)

	simulator, err := g.registry.Simulator(g.cfg, sc)
	if err != nil {
		return nil, err
	}
	simCfg := sim.NewConfig(g.cfg.SampleRate(), g.cfg.Duration)
	res, err := simulator.Run(ctx, sc, simCfg)
	if err != nil {
		return nil, fmt.Errorf("simulate task %d: %w", idx, err)
	}
	traj := res.Trajectory
	if traj.Len() == 0 {
		return nil, fmt.Errorf("simulate task %d: empty trajectory: %w", idx, dynamo.ErrConfiguration)
	}

	sel := g.selector.Explain(sc, traj)
	if sel.Degenerate {
		log.Warn().Err(dynamo.ErrSimulationDegenerate).Int("frame", sel.Index).Str("pass", string(sel.Pass)).
			Msg("no contact recorded, using fallback frame")
	}
	if len(traj.ContactSteps) > 1 {
		log.Warn().Ints("contact_steps", traj.ContactSteps).Int("collision_index", sel.CollisionIndex).
			Msg("multiple contacts in window, selecting around global closest approach")
	}

	task := &storage.Task{
		Meta: storage.Metadata{
			TaskID:         TaskID(g.cfg.Domain, idx),
			BatchID:        g.batchID,
			Domain:         g.cfg.Domain,
			Index:          idx,
			Seed:           seed,
			Timestamp:      g.now().UTC(),
			Scenario:       sc,
			CollisionType:  model.String(),
			Restitution:    model.Restitution(g.cfg.Restitution),
			Integrator:     g.cfg.Integrator,
			Dt:             simCfg.Dt,
			Steps:          simCfg.Steps,
			FrameIndex:     sel.Index,
			CollisionIndex: sel.CollisionIndex,
			Pass:           string(sel.Pass),
			Degenerate:     sel.Degenerate,
			ContactSteps:   traj.ContactSteps,
			Metrics:        res.Metrics,
		},
		Prompt:     g.prompt(rng, sc, model),
		First:      g.renderer.Initial(sc),
		Final:      g.renderer.Final(sc, traj.Samples[sel.Index]),
		Trajectory: traj,
	}

	if g.encoder != nil {
		task.VideoPath = g.encodeVideo(log, sc, traj)
	}

	log.Debug().
		Float64("mass_a", sc.MassA).Float64("mass_b", sc.MassB).
		Float64("vel_a", sc.VelocityA).Float64("vel_b", sc.VelocityB).
		Int("frame", sel.Index).Str("pass", string(sel.Pass)).
		Msg("generated task")
	return task, nil
}

func (g *Generator) prompt(rng *rand.Rand, sc dynamo.Scenario, model dynamo.CollisionModel) string {
	if g.cfg.PromptStyle == "simple" {
		return prompt.Simple()
	}
	return prompt.NewBuilder(rng).Scenario(sc, model)
}

// encodeVideo returns the scratch path of the clip, or "" when encoding
// failed. Video failures never fail the task.
func (g *Generator) encodeVideo(log zerolog.Logger, sc dynamo.Scenario, traj dynamo.Trajectory) string {
	path, err := g.store.Scratch(g.encoder.Ext())
	if err != nil {
		log.Warn().Err(err).Msg("cannot reserve video file, skipping video")
		return ""
	}
	if err := g.encoder.Encode(path, g.renderer.Frames(sc, traj), g.cfg.VideoFPS); err != nil {
		log.Warn().Err(err).Str("encoder", g.encoder.Name()).Msg("video encoding failed, skipping video")
		os.Remove(path)
		return ""
	}
	return path
}

// Run generates and commits task idx.
func (g *Generator) Run(ctx context.Context, idx int, seed int64) error {
	task, err := g.Generate(ctx, idx, seed)
	if err != nil {
		return err
	}
	if err := g.store.Save(task); err != nil {
		if task.VideoPath != "" {
			os.Remove(task.VideoPath)
		}
		return fmt.Errorf("save %s: %w", task.Meta.TaskID, err)
	}
	g.log.Info().Str("task", task.Meta.TaskID).Int("frame", task.Meta.FrameIndex).
		Bool("video", task.VideoPath != "").Msg("saved task")
	return nil
}
