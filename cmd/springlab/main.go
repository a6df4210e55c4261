package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/springlab/internal/analysis"
	"github.com/san-kum/springlab/internal/automation"
	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/export"
	"github.com/san-kum/springlab/internal/sampler"
	"github.com/san-kum/springlab/internal/scene"
	"github.com/san-kum/springlab/internal/storage"
	"github.com/san-kum/springlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	ticks      int
	benchTicks int
	frameRate  int
	rate       int
	interval   time.Duration
	targets    []string
	outFile    string
	svgFile    string
	spring     int
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	perturb    float64
	bound      float64
	seed       int64
	noTUI      bool
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("springlab: ")

	rootCmd := &cobra.Command{
		Use:          "springlab",
		Short:        "spring and particle simulation lab",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(frameRate)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springlab", "data directory")
	rootCmd.PersistentFlags().IntVar(&frameRate, "fps", viz.DefaultFPS, "frame rate for live views")

	sceneFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
		cmd.Flags().StringVar(&preset, "preset", "", "use a preset scene")
		cmd.Flags().IntVar(&rate, "rate", config.DefaultSamplingRate, "sample every n ticks")
		cmd.Flags().DurationVar(&interval, "interval", config.DefaultUpdateInterval, "minimum time between sample flushes")
		cmd.Flags().StringSliceVar(&targets, "target", nil, "entities to sample")
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scene with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().BoolVar(&noTUI, "no-tui", false, "tick in real time without the terminal view; stop with ctrl-c")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless and store the samples",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final scene as SVG")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput of a scene",
		Args:  cobra.NoArgs,
		RunE:  benchScene,
	}
	sceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 10000, "number of ticks")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot sampled forces of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of sampled forces",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "plot sampled forces of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "play a scripted drag scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a scene across a range of spring stiffness",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&spring, "spring", 0, "index of the spring to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.05, "lowest stiffness")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "highest stiffness")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of stiffness values")
	sweepCmd.Flags().IntVar(&ticks, "ticks", 600, "ticks per run")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run a scene from randomly perturbed starts",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	sceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 20, "maximum start offset per axis")
	monteCarloCmd.Flags().Float64Var(&bound, "bound", 1000, "distance from start that counts as escaped")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	monteCarloCmd.Flags().IntVar(&ticks, "ticks", 600, "ticks per trial")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tSPRINGS\tTARGETS")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%v\n", name, len(cfg.Bodies), len(cfg.Springs), cfg.Sampler.Targets)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a scene file to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset scene")

	rootCmd.AddCommand(liveCmd, runCmd, benchCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, scriptCmd, sweepCmd, monteCarloCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

// loadScene resolves the scene config: defaults, then preset, then file,
// then flags that were set explicitly.
func loadScene(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("rate") {
		cfg.Sampler.SamplingRate = rate
	}
	if cmd.Flags().Changed("interval") {
		cfg.Sampler.UpdateInterval = interval
	}
	if cmd.Flags().Changed("target") {
		cfg.Sampler.Targets = targets
	}

	return cfg, cfg.Validate()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}
	sc, err := scene.Build(cfg)
	if err != nil {
		return err
	}
	if noTUI {
		return runHeadless(cmd.Context(), sc)
	}
	return viz.Run(sc, frameRate)
}

func runHeadless(ctx context.Context, sc *scene.Scene) error {
	fps := frameRate
	if fps <= 0 {
		fps = viz.DefaultFPS
	}
	fmt.Printf("running %s at %d ticks/s, ctrl-c to stop\n", sc.Name, fps)

	err := sc.Engine.Run(ctx, time.Second/time.Duration(fps))
	sc.Sampler.Flush()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Printf("\nstopped after %d ticks\n", sc.Engine.Ticks())
	if chart := sc.Chart.Render(60, 8); chart != "" {
		fmt.Println(chart)
	}
	for _, name := range sc.Metrics.Names() {
		fmt.Printf("  %s: %.6f\n", name, sc.Metrics.Summary()[name])
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", ticks)
	}
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sc, err := scene.Build(cfg, scene.WithRecorder())
	if err != nil {
		return err
	}

	fmt.Printf("running %s for %d ticks...\n", cfg.Name, ticks)
	start := time.Now()
	runErr := sc.Engine.RunTicks(ticks)
	elapsed := time.Since(start)
	sc.Sampler.Flush()

	meta := storage.RunMetadata{
		Scene:        cfg.Name,
		Ticks:        sc.Engine.Ticks(),
		SamplingRate: cfg.Sampler.SamplingRate,
		Targets:      cfg.Sampler.Targets,
		Bodies:       sc.Bodies(),
		Summary:      sc.Metrics.Summary(),
	}
	runID, err := st.Save(meta, sc.Recorder.Samples())
	if err != nil {
		return err
	}

	if svgFile != "" {
		svg := export.SceneToSVG(meta.Bodies, sc.Links(), 800, 400)
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
	}

	if runErr != nil {
		log.Printf("run %s stopped early: %v", runID, runErr)
		return runErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(sc.Recorder.Samples()))
	fmt.Println("\nmetrics:")
	names := sc.Metrics.Names()
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, meta.Summary[name])
	}
	fmt.Println("\nbodies:")
	for _, b := range meta.Bodies {
		fmt.Printf("  %-8s %10.3f %10.3f\n", b.Name, b.X, b.Y)
	}

	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}
	sc, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := sc.Engine.RunTicks(benchTicks); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("%s: %d ticks in %v (%.0f ticks/s)\n\n", cfg.Name, benchTicks, elapsed, float64(benchTicks)/elapsed.Seconds())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYSTEM\tCALLS\tMIN\tAVG\tMAX")
	for _, s := range sc.Engine.Stats().Systems {
		fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%v\n", s.Name, s.ExecutionCount, s.MinDuration, s.AvgDuration, s.MaxDuration)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tTICKS\tRATE\tSAMPLES\tPEAK FORCE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.3f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.SamplingRate,
			run.Samples,
			run.Summary["peak_force"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, map[string]storage.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, storage.SplitByEntity(samples), nil
}

func sortedEntities(series map[string]storage.Series) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", meta.Samples)

	for _, name := range sortedEntities(series) {
		s := series[name]
		if len(s.FX) < 2 {
			fmt.Printf("%s: not enough samples to plot\n\n", name)
			continue
		}
		graph := asciigraph.PlotMany([][]float64{s.FX, s.FY},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption(fmt.Sprintf("%s accumulated force x (red) / y (blue)", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	step := float64(meta.SamplingRate)
	for _, name := range sortedEntities(series) {
		spec := analysis.Analyze(series[name].FX, step)
		if len(spec.Power) < 2 {
			fmt.Printf("%s: not enough samples\n", name)
			continue
		}

		graph := asciigraph.Plot(spec.Power[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (%s fx)", name)),
		)
		fmt.Println(graph)
		fmt.Printf("dominant frequency: %.4f cycles/tick\n", spec.Frequency())
		if p := spec.Period(); p > 0 {
			fmt.Printf("period: %.1f ticks\n", p)
		}
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := storage.WriteSamplesCSV(w, samples); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	if outFile != "" {
		return storage.ExportJSONFile(outFile, meta, samples)
	}
	return storage.ExportJSON(os.Stdout, meta, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var plots []sampler.Series
	for _, name := range sortedEntities(series) {
		s := series[name]
		fx := sampler.Series{Label: name + " fx"}
		fy := sampler.Series{Label: name + " fy"}
		for i, t := range s.Times {
			fx.Points = append(fx.Points, sampler.Point{X: t, Y: s.FX[i]})
			fy.Points = append(fy.Points, sampler.Point{X: t, Y: s.FY[i]})
		}
		plots = append(plots, fx, fy)
	}

	svg := export.SeriesToSVG(plots, 800, 300)
	if svg == "" {
		return fmt.Errorf("run %s has too few samples to plot", args[0])
	}
	if outFile != "" {
		return os.WriteFile(outFile, []byte(svg), 0644)
	}
	_, err = fmt.Fprintln(os.Stdout, svg)
	return err
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := scenario.Config()
	if err != nil {
		return err
	}
	sc, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("scenario %s on %s: %d steps\n", scenario.Name, cfg.Name, len(scenario.Steps))
	results, err := automation.RunScenario(cmd.Context(), sc, scenario)
	for _, r := range results {
		fmt.Printf("\nstep %d (tick %d)\n", r.Step, r.Tick)
		for _, b := range r.Bodies {
			fmt.Printf("  %-8s %10.3f %10.3f\n", b.Name, b.X, b.Y)
		}
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), cfg, &automation.ParameterSweep{
		Spring:   spring,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Ticks:    ticks,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STIFFNESS\tPEAK FORCE\tKINETIC ENERGY\tSETTLED")
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.3f\t%.3f\t%.2f\n", r.Stiffness, r.Summary["peak_force"], r.Summary["kinetic_energy"], r.Summary["settled"])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), cfg, &automation.MonteCarloConfig{
		Perturbation: perturb,
		NumTrials:    trials,
		Ticks:        ticks,
		Seed:         seed,
		Bound:        bound,
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("%s: %d trials, %d stable, %d escaped (seed %d)\n", cfg.Name, len(results), stable, unstable, seed)
	return nil
}
