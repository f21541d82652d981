package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gyropulse/internal/audio"
	"github.com/san-kum/gyropulse/internal/automation"
	"github.com/san-kum/gyropulse/internal/config"
	"github.com/san-kum/gyropulse/internal/metrics"
	"github.com/san-kum/gyropulse/internal/sim"
	"github.com/san-kum/gyropulse/internal/storage"
	"github.com/san-kum/gyropulse/internal/tui"
)

var (
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	clickOut   string
)

func simCommands() []*cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the scene headless and store the trace",
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw frames while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenes",
		RunE:  listPresets,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the scene across a range of tempos",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 60, "lowest bpm")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 180, "highest bpm")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 7, "number of tempos")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration of each run")

	clickCmd := &cobra.Command{
		Use:   "click",
		Short: "render the scene's metronome to a wav file",
		RunE:  renderClick,
	}
	clickCmd.Flags().StringVarP(&clickOut, "output", "o", "click.wav", "output file")
	clickCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")

	return []*cobra.Command{runCmd, listCmd, presetsCmd, scriptCmd, sweepCmd, clickCmd}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, f, name, err := buildField()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dt") || cfg.Dt <= 0 {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") || cfg.Duration <= 0 {
		cfg.Duration = duration
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner := sim.New(f, log)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}
	if watch {
		r := tui.NewLiveRenderer(os.Stdout, name, frameRate)
		r.Realtime = true
		r.Start()
		defer r.Stop()
		runner.AddObserver(r)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s for %.2fs...\n", name, cfg.Duration)
	start := time.Now()
	result, err := runner.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}
	log.Info("run stored", zap.String("id", runID), zap.Duration("took", elapsed))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("beats: %d (%d downbeats)\n", len(result.BeatTimes), len(result.DownbeatTimes))
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, m[n])
	}
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
	fmt.Fprintln(w, "ID\tTIME\tBPM\tRINGS\tMODE\tVARIANT\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%s\t%s\t%.2fs\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.BPM,
			run.Rings,
			run.Mode,
			run.Variant,
			run.Duration,
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBPM\tMETER\tRINGS\tMODE\tVARIANT")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.0f\t%d/4\t%d\t%s\t%s\n",
			name, p.Tempo.BPM, p.Tempo.BeatsPerMeasure, p.Scene.Rings, p.Motion.Mode, p.Motion.Variant)
	}
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, st, log)
	for _, r := range results {
		fmt.Printf("  %d. %-24s beats=%-4d run=%s\n", r.Index+1, r.Name, len(r.Result.BeatTimes), r.RunID)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadScene()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.TempoSweep{
		Base:     cfg,
		MinBPM:   sweepMin,
		MaxBPM:   sweepMax,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BPM\tBEATS\tDOWNBEATS\tALIGN ERR\tPULSE DUTY")
	for _, r := range results {
		fmt.Fprintf(w, "%.1f\t%d\t%d\t%.2e\t%.3f\n", r.BPM, r.Beats, r.Downbeats, r.AlignmentError, r.PulseDuty)
	}
	return w.Flush()
}

// renderClick runs the scene at a fine timestep so clicks land within a
// millisecond of the beat.
func renderClick(cmd *cobra.Command, args []string) error {
	cfg, f, _, err := buildField()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("time") || cfg.Duration <= 0 {
		cfg.Duration = duration
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := sim.New(f, log).Run(ctx, sim.Config{Dt: 0.001, Duration: cfg.Duration, RecordEvery: 100})
	if err != nil {
		return err
	}

	out, err := os.Create(clickOut)
	if err != nil {
		return err
	}
	defer out.Close()

	track := audio.NewClickTrack(res)
	if err := audio.WriteWAV(out, track); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d clicks, %d accented, %.2fs\n", clickOut, track.Len(), track.Accents(), cfg.Duration)
	return nil
}
