package generator_test

import (
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/collisiongen/internal/config"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/generator"
	"github.com/san-kum/collisiongen/internal/prompt"
	"github.com/san-kum/collisiongen/internal/storage"
)

func smallConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.OutputDir = dir
	cfg.NumSamples = 4
	cfg.Workers = 2
	cfg.Seed = 42
	cfg.ImageWidth, cfg.ImageHeight = 280, 100
	cfg.VideoFormat = "gif"
	cfg.FontPaths = nil
	return cfg
}

var _ = Describe("Generator", func() {
	var (
		cfg   *config.Config
		store *storage.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		dir := GinkgoT().TempDir()
		cfg = smallConfig(dir)
		store = storage.New(dir, cfg.Domain)
		ctx = context.Background()
	})

	newGenerator := func() *generator.Generator {
		g, err := generator.New(cfg, store, zerolog.Nop())
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	Describe("New", func() {
		It("rejects invalid configuration", func() {
			cfg.MinMass, cfg.MaxMass = 5, 1
			_, err := generator.New(cfg, store, zerolog.Nop())
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("skips video when the backend is missing", func() {
			cfg.VideoFormat = "mp4"
			DeferCleanup(os.Setenv, "PATH", os.Getenv("PATH"))
			os.Setenv("PATH", GinkgoT().TempDir())

			g := newGenerator()
			Expect(g.VideoEnabled()).To(BeFalse())
		})

		It("disables video on request", func() {
			cfg.GenerateVideos = false
			Expect(newGenerator().VideoEnabled()).To(BeFalse())
		})
	})

	Describe("Generate", func() {
		It("is reproducible for a seed", func() {
			a, err := newGenerator().Generate(ctx, 0, 7)
			Expect(err).NotTo(HaveOccurred())
			b, err := newGenerator().Generate(ctx, 0, 7)
			Expect(err).NotTo(HaveOccurred())

			Expect(a.Meta.Scenario).To(Equal(b.Meta.Scenario))
			Expect(a.Prompt).To(Equal(b.Prompt))
			Expect(a.Meta.FrameIndex).To(Equal(b.Meta.FrameIndex))
		})

		It("produces a colliding, conserving trajectory", func() {
			task, err := newGenerator().Generate(ctx, 3, 99)
			Expect(err).NotTo(HaveOccurred())

			sc := task.Meta.Scenario
			Expect(sc.VelocityA).To(BeNumerically(">", 0))
			Expect(sc.VelocityB).To(BeNumerically("<", 0))
			Expect(task.Trajectory.Len()).To(Equal(30))
			Expect(task.Meta.Degenerate).To(BeFalse())
			Expect(task.Meta.TaskID).To(Equal("collision_physics_0003"))

			p0 := sc.Momentum(sc.Initial())
			p1 := sc.Momentum(task.Trajectory.Last())
			Expect(p1).To(BeNumerically("~", p0, 1e-3*math.Abs(p0)+1e-9))

			e0 := sc.KineticEnergy(sc.Initial())
			e1 := sc.KineticEnergy(task.Trajectory.Last())
			Expect(e1).To(BeNumerically("~", e0, 1e-3*e0))

			Expect(task.Meta.FrameIndex).To(BeNumerically(">=", 0))
			Expect(task.Meta.FrameIndex).To(BeNumerically("<", task.Trajectory.Len()))
			Expect(task.Prompt).To(ContainSubstring("elastic"))
			Expect(task.Meta.Metrics).To(HaveKey("contacts"))
		})

		It("loses energy in inelastic runs", func() {
			cfg.CollisionType = "inelastic"
			task, err := newGenerator().Generate(ctx, 0, 5)
			Expect(err).NotTo(HaveOccurred())

			sc := task.Meta.Scenario
			Expect(task.Meta.Restitution).To(Equal(0.5))
			Expect(sc.KineticEnergy(task.Trajectory.Last())).To(BeNumerically("<", sc.KineticEnergy(sc.Initial())))
		})

		It("flags runs that never touch", func() {
			cfg.MinVelocity, cfg.MaxVelocity = 0.1, 0.2
			task, err := newGenerator().Generate(ctx, 0, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(task.Meta.Degenerate).To(BeTrue())
			Expect(task.Meta.FrameIndex).To(BeNumerically("<", task.Trajectory.Len()))
		})

		It("uses the generic prompt when configured", func() {
			cfg.PromptStyle = "simple"
			task, err := newGenerator().Generate(ctx, 0, 11)
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Prompt).To(Equal(prompt.Simple()))
		})

		It("surfaces cancellation", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := newGenerator().Generate(canceled, 0, 1)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("Batch", func() {
		It("stores every task with frames, prompt and clip", func() {
			g := newGenerator()
			sum, err := g.Batch(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(sum.Generated).To(Equal(4))
			Expect(sum.Failed).To(BeZero())
			Expect(sum.Seed).To(Equal(int64(42)))

			tasks, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(4))

			for i, meta := range tasks {
				Expect(meta.Seed).To(Equal(int64(42 + i)))
				Expect(meta.BatchID).To(Equal(g.BatchID()))
				Expect(meta.Video).To(Equal("ground_truth.gif"))

				dir := filepath.Join(store.Dir(), meta.TaskID)
				for _, name := range []string{storage.FirstFrameFile, storage.FinalFrameFile, storage.PromptFile, storage.TrajectoryFile, meta.Video} {
					Expect(filepath.Join(dir, name)).To(BeAnExistingFile())
				}

				f, err := os.Open(filepath.Join(dir, storage.FirstFrameFile))
				Expect(err).NotTo(HaveOccurred())
				img, err := png.Decode(f)
				f.Close()
				Expect(err).NotTo(HaveOccurred())
				Expect(img.Bounds().Dx()).To(Equal(280))
				Expect(img.Bounds().Dy()).To(Equal(100))
			}
		})

		It("does not depend on the number of workers", func() {
			cfg.GenerateVideos = false
			_, err := newGenerator().Batch(ctx)
			Expect(err).NotTo(HaveOccurred())
			first, err := store.List()
			Expect(err).NotTo(HaveOccurred())

			other := storage.New(GinkgoT().TempDir(), cfg.Domain)
			cfg.Workers = 1
			g, err := generator.New(cfg, other, zerolog.Nop())
			Expect(err).NotTo(HaveOccurred())
			_, err = g.Batch(ctx)
			Expect(err).NotTo(HaveOccurred())
			second, err := other.List()
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(HaveLen(len(first)))
			for i := range first {
				Expect(second[i].Scenario).To(Equal(first[i].Scenario))
				Expect(second[i].FrameIndex).To(Equal(first[i].FrameIndex))
			}
		})

		It("writes nothing once canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			sum, err := newGenerator().Batch(canceled)
			Expect(err).To(HaveOccurred())
			Expect(sum.Generated).To(BeZero())

			tasks, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(BeEmpty())
		})
	})
})
