package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/san-kum/collisiongen/internal/automation"
	"github.com/san-kum/collisiongen/internal/config"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/experiment"
	"github.com/san-kum/collisiongen/internal/export"
	"github.com/san-kum/collisiongen/internal/frame"
	"github.com/san-kum/collisiongen/internal/generator"
	"github.com/san-kum/collisiongen/internal/sim"
	"github.com/san-kum/collisiongen/internal/storage"
	"github.com/san-kum/collisiongen/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	outputDir  string
	logLevel   string
	// generate
	preset        string
	numSamples    int
	seed          int64
	workers       int
	noVideo       bool
	collisionType string
	// single scenario
	massA       float64
	massB       float64
	velA        float64
	velB        float64
	restitution float64
	random      bool
	integrator  string
	// sweep
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "collisiongen",
		Short:         "synthetic two-body collision task generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "output directory (default data/questions)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a batch of collision tasks",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVar(&preset, "preset", "", "preset as type/name, e.g. inelastic/sticky")
	generateCmd.Flags().IntVar(&numSamples, "num-samples", config.DefaultNumSamples, "number of tasks")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "base random seed (0 = time based)")
	generateCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "parallel workers")
	generateCmd.Flags().BoolVar(&noVideo, "no-video", false, "skip ground-truth videos")
	generateCmd.Flags().StringVar(&collisionType, "collision-type", "elastic", "elastic or inelastic")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "simulate one scenario and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulate,
	}
	scenarioFlags(simulateCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "play back one scenario in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare integrators on one scenario",
		Args:  cobra.NoArgs,
		RunE:  compareIntegrators,
	}
	scenarioFlags(compareCmd)

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run the scenarios listed in a yaml script",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the coefficient of restitution over one scenario",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "lowest restitution")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.9, "highest restitution")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "number of restitution values")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list generated tasks",
		Args:  cobra.NoArgs,
		RunE:  listTasks,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [task_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotTask,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [task_id]",
		Short: "print task metadata and trajectory as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return st.ExportJSON(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [task_id]",
		Short: "print a space-time diagram of a stored trajectory as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [collision_type]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types := []string{"elastic", "inelastic"}
			if len(args) == 1 {
				types = args
			}
			for _, typ := range types {
				presets := config.ListPresets(typ)
				if len(presets) == 0 {
					fmt.Printf("no presets for collision type: %s\n", typ)
					continue
				}
				fmt.Printf("presets for %s:\n", typ)
				for _, p := range presets {
					fmt.Printf("  %s/%s\n", typ, p)
				}
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "collision.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	rootCmd.AddCommand(generateCmd, simulateCmd, liveCmd, compareCmd, scriptCmd, sweepCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&massA, "mass-a", 3.0, "mass of ball A (kg)")
	cmd.Flags().Float64Var(&massB, "mass-b", 2.0, "mass of ball B (kg)")
	cmd.Flags().Float64Var(&velA, "vel-a", 5.0, "velocity of ball A (m/s, must be > 0)")
	cmd.Flags().Float64Var(&velB, "vel-b", -4.0, "velocity of ball B (m/s, must be < 0)")
	cmd.Flags().StringVar(&collisionType, "collision-type", "elastic", "elastic or inelastic")
	cmd.Flags().Float64Var(&restitution, "restitution", config.DefaultRestitution, "restitution for inelastic collisions")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator (euler, verlet)")
	cmd.Flags().BoolVar(&random, "random", false, "sample the scenario instead of using the flags")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for --random (0 = time based)")
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()
}

// loadConfig layers defaults, preset, config file and changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		var err error
		cfg, err = config.FindPreset(preset, collisionType)
		if err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		if err := cfg.Merge(configFile); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("num-samples") {
		cfg.NumSamples = numSamples
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("no-video") && noVideo {
		cfg.GenerateVideos = false
	}
	if flags.Changed("collision-type") {
		cfg.CollisionType = collisionType
	}
	if flags.Changed("restitution") {
		cfg.Restitution = restitution
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// storeConfig is the config used by commands that only read the dataset.
func storeConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		if err := cfg.Merge(configFile); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	cfg, err := storeConfig()
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.OutputDir, cfg.Domain), nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(cfg.OutputDir, cfg.Domain)
	if err := st.Init(); err != nil {
		return err
	}
	g, err := generator.New(cfg, st, log)
	if err != nil {
		return err
	}

	sum, err := g.Batch(ctx)
	fmt.Printf("batch %s: %d generated, %d failed in %s (seed %d)\n",
		sum.BatchID, sum.Generated, sum.Failed, sum.Elapsed.Round(time.Millisecond), sum.Seed)
	fmt.Printf("output: %s\n", st.Dir())
	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted")
	}
	return err
}

// scenarioFromFlags builds the scenario for simulate, live and compare.
func scenarioFromFlags(cfg *config.Config) (dynamo.Scenario, error) {
	if random {
		s := seed
		if s == 0 {
			s = time.Now().UnixNano()
		}
		return experiment.NewSampler(rand.New(rand.NewSource(s))).Sample(cfg), nil
	}

	return experiment.Manual(cfg, massA, massB, velA, velB)
}

type outcome struct {
	sc     dynamo.Scenario
	model  dynamo.CollisionModel
	result *sim.Result
	sel    frame.Selection
}

func simulateOne(cmd *cobra.Command) (*config.Config, *outcome, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	sc, err := scenarioFromFlags(cfg)
	if err != nil {
		return nil, nil, err
	}
	model, err := cfg.Model()
	if err != nil {
		return nil, nil, err
	}

	simulator, err := experiment.NewRegistry().Simulator(cfg, sc)
	if err != nil {
		return nil, nil, err
	}
	res, err := simulator.Run(cmd.Context(), sc, sim.NewConfig(cfg.SampleRate(), cfg.Duration))
	if err != nil {
		return nil, nil, err
	}
	sel := frame.NewSelector(cfg.World(), cfg.SeparationThreshold).Explain(sc, res.Trajectory)
	return cfg, &outcome{sc: sc, model: model, result: res, sel: sel}, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	_, out, err := simulateOne(cmd)
	if err != nil {
		return err
	}

	fmt.Println(viz.Summary(viz.Run{
		Scenario:   out.sc,
		Model:      out.model,
		Trajectory: out.result.Trajectory,
		Selection:  out.sel,
		Metrics:    out.result.Metrics,
	}))
	fmt.Println()
	fmt.Println(viz.PlotPositions(out.result.Trajectory))
	fmt.Println()
	fmt.Println(viz.PlotVelocities(out.result.Trajectory))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, out, err := simulateOne(cmd)
	if err != nil {
		return err
	}
	m := viz.NewModel(out.sc, out.model, out.result.Trajectory, out.sel, cfg.World(), cfg.VideoFPS)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := scenarioFromFlags(cfg)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	simCfg := sim.NewConfig(cfg.SampleRate(), cfg.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tCONTACTS\tFINAL vA\tFINAL vB\tMOMENTUM DRIFT\tENERGY DRIFT\tTIME")
	for _, name := range reg.ListIntegrators() {
		c := *cfg
		c.Integrator = name
		simulator, err := reg.Simulator(&c, sc)
		if err != nil {
			return err
		}

		start := time.Now()
		res, err := simulator.Run(cmd.Context(), sc, simCfg)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		elapsed := time.Since(start)

		last := res.Trajectory.Last()
		fmt.Fprintf(w, "%s\t%d\t%+.4f\t%+.4f\t%.2e\t%+.2e\t%s\n",
			name,
			len(res.Trajectory.ContactSteps),
			last.VelocityA,
			last.VelocityB,
			res.Metrics["momentum_drift"],
			res.Metrics["energy_drift"],
			elapsed,
		)
	}
	return w.Flush()
}

func listTasks(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	tasks, err := st.List()
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("no tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tMASSES\tVELOCITIES\tFRAME\tPASS\tVIDEO\tTIME")

	for _, t := range tasks {
		video := "-"
		if t.Video != "" {
			video = t.Video
		}
		pass := t.Pass
		if t.Degenerate {
			pass += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f/%.1f\t%+.1f/%+.1f\t%d/%d\t%s\t%s\t%s\n",
			t.TaskID,
			t.CollisionType,
			t.Scenario.MassA, t.Scenario.MassB,
			t.Scenario.VelocityA, t.Scenario.VelocityB,
			t.FrameIndex, t.Steps,
			pass,
			video,
			t.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

func plotTask(cmd *cobra.Command, args []string) error {
	taskID := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(taskID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(taskID)
	if err != nil {
		return err
	}
	if traj.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("task: %s\n", meta.TaskID)
	fmt.Printf("collision: %s (e=%.2f)\n", meta.CollisionType, meta.Restitution)
	fmt.Printf("samples: %d, final frame: %d (%s)\n\n", traj.Len(), meta.FrameIndex, meta.Pass)

	fmt.Println(viz.PlotPositions(traj))
	fmt.Println()
	fmt.Println(viz.PlotVelocities(traj))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := storeConfig()
	if err != nil {
		return err
	}
	st := storage.New(cfg.OutputDir, cfg.Domain)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return export.SpaceTimeSVG(os.Stdout, traj, cfg.World(), export.SpaceTimeOptions{
		Width:     cfg.ImageWidth,
		Height:    cfg.ImageWidth / 2,
		Highlight: meta.FrameIndex,
	})
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	results, runErr := automation.NewRunner(cfg, newLogger()).RunScript(cmd.Context(), script)

	if script.Description != "" {
		fmt.Printf("%s: %s\n\n", script.Name, script.Description)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTYPE\tMASSES\tBEFORE\tAFTER\tCONTACTS\tFRAME\tPASS")
	for _, r := range results {
		last := r.Result.Trajectory.Last()
		fmt.Fprintf(w, "%s\t%s\t%.1f/%.1f\t%+.2f/%+.2f\t%+.2f/%+.2f\t%d\t%d\t%s\n",
			r.Name,
			r.Model,
			r.Scenario.MassA, r.Scenario.MassB,
			r.Scenario.VelocityA, r.Scenario.VelocityB,
			last.VelocityA, last.VelocityB,
			len(r.Result.Trajectory.ContactSteps),
			r.Selection.Index,
			r.Selection.Pass,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := scenarioFromFlags(cfg)
	if err != nil {
		return err
	}

	results, err := automation.NewRunner(cfg, newLogger()).RunSweep(cmd.Context(), sc, automation.RestitutionSweep{
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "E\tFINAL vA\tFINAL vB\tKE LOST\tFRAME")
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%+.3f\t%+.3f\t%5.1f%%\t%d\n", r.Restitution, r.FinalVelA, r.FinalVelB, r.EnergyLoss*100, r.FrameIndex)
	}
	return w.Flush()
}
