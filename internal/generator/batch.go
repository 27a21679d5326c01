package generator

import (
	"context"
	"errors"
	"time"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

type Summary struct {
	BatchID   string
	Seed      int64
	Generated int
	Failed    int
	Elapsed   time.Duration
}

// Batch generates cfg.NumSamples tasks over cfg.Workers goroutines. Task i
// uses seed+i, where a zero configured seed is replaced by the clock.
func (g *Generator) Batch(ctx context.Context) (Summary, error) {
	seed := g.cfg.Seed
	if seed == 0 {
		seed = g.now().UnixNano()
	}
	start := time.Now()

	g.log.Info().Str("batch", g.batchID).Int64("seed", seed).Int("samples", g.cfg.NumSamples).
		Int("workers", g.cfg.Workers).Str("dir", g.store.Dir()).Msg("starting batch")

	errs := dynamo.NewEnsemble(g.cfg.NumSamples, g.cfg.Workers, seed).Run(ctx, g.Run)

	sum := Summary{BatchID: g.batchID, Seed: seed}
	var failed []error
	for idx, err := range errs {
		if err != nil {
			sum.Failed++
			failed = append(failed, err)
			if !errors.Is(err, context.Canceled) {
				g.log.Error().Err(err).Int("index", idx).Msg("task failed")
			}
			continue
		}
		sum.Generated++
	}
	sum.Elapsed = time.Since(start)

	g.log.Info().Int("generated", sum.Generated).Int("failed", sum.Failed).
		Dur("elapsed", sum.Elapsed).Msg("batch finished")
	return sum, errors.Join(failed...)
}
