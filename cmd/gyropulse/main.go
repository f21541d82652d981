package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gyropulse/internal/audio"
	"github.com/san-kum/gyropulse/internal/config"
	"github.com/san-kum/gyropulse/internal/gui"
	"github.com/san-kum/gyropulse/internal/logging"
	"github.com/san-kum/gyropulse/internal/ringfield"
	"github.com/san-kum/gyropulse/internal/viz"
	"github.com/san-kum/gyropulse/internal/window"
)

var (
	dataDir    string
	configFile string
	preset     string
	logFile    string
	logLevel   string

	dt        float64
	duration  float64
	theme     string
	fill      bool
	pick      bool
	withClick bool
	watch     bool
	frameRate int

	log = zap.NewNop()
)

// uiAnnotation marks commands that own the terminal; they never log to it.
const uiAnnotation = "ui"

func main() {
	rootCmd := &cobra.Command{
		Use:               "gyropulse",
		Short:             "tempo-locked rotating ring field",
		SilenceUsage:      true,
		Annotations:       map[string]string{uiAnnotation: "true"},
		PersistentPreRunE: setup,
		RunE:              runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".gyropulse", "data directory")
	pf.StringVar(&configFile, "config", "", "scene file (yaml)")
	pf.StringVar(&preset, "preset", "", "use a preset scene")
	pf.StringVar(&logFile, "log-file", "", "write logs to a rotated file")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	liveCmd := &cobra.Command{
		Use:         "live",
		Short:       "run the ring field in the terminal",
		Annotations: map[string]string{uiAnnotation: "true"},
		RunE:        runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().StringVar(&theme, "theme", "", "color theme")
		c.Flags().BoolVar(&fill, "fill", true, "draw filled rings")
		c.Flags().BoolVar(&pick, "pick", false, "choose a preset first")
		c.Flags().BoolVar(&withClick, "click", false, "play a metronome click")
	}

	windowCmd := &cobra.Command{
		Use:         "window",
		Short:       "run the ring field in a window (touch and mouse)",
		Annotations: map[string]string{uiAnnotation: "true"},
		RunE:        runWindow,
	}
	windowCmd.Flags().BoolVar(&withClick, "click", false, "play a metronome click")

	guiCmd := &cobra.Command{
		Use:         "gui",
		Short:       "run the ring field in a 3D window",
		Annotations: map[string]string{uiAnnotation: "true"},
		RunE:        runGUI,
	}
	guiCmd.Flags().BoolVar(&withClick, "click", false, "play a metronome click")

	rootCmd.AddCommand(liveCmd, windowCmd, guiCmd)
	rootCmd.AddCommand(simCommands()...)
	rootCmd.AddCommand(outputCommands()...)
	rootCmd.AddCommand(reconCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup builds the logger. Terminal UIs only log to --log-file.
func setup(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" && configFile != "" {
		if cfg, err := config.Load(configFile); err == nil {
			level = cfg.Log.Level
		}
	}
	log = logging.New(logging.Options{
		Level:   level,
		File:    logFile,
		Console: cmd.Annotations[uiAnnotation] != "true",
	})
	return nil
}

// loadScene resolves --preset and --config, in that order, over the
// defaults.
func loadScene() (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		if preset != "" && loaded.Preset == "" {
			loaded.Preset = preset
		}
		cfg = loaded
		name = configFile
	}
	for _, note := range cfg.Validate() {
		log.Warn("scene value clamped", zap.String("detail", note))
	}
	return cfg, name, nil
}

func buildField() (*config.Config, *ringfield.Field, string, error) {
	cfg, name, err := loadScene()
	if err != nil {
		return nil, nil, "", err
	}
	f, err := cfg.NewField()
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, f, name, nil
}

// startClick starts the live metronome when --click is set. The returned
// stop func is always safe to call.
func startClick() (func(ringfield.Tick), func(), error) {
	if !withClick {
		return nil, func() {}, nil
	}
	m := audio.NewMetronome(log)
	if err := m.Start(); err != nil {
		return nil, func() {}, fmt.Errorf("start metronome: %w", err)
	}
	return m.Follow, m.Stop, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, f, name, err := buildField()
	if err != nil {
		return err
	}
	if theme == "" {
		theme = cfg.Theme
	}
	if pick {
		return viz.RunPicker(theme)
	}

	onTick, stop, err := startClick()
	if err != nil {
		return err
	}
	defer stop()

	log.Info("starting live view", zap.String("scene", name))
	return viz.Run(f, viz.Options{Title: "gyropulse: " + name, Theme: theme, Fill: fill, OnTick: onTick})
}

func runWindow(cmd *cobra.Command, args []string) error {
	_, f, name, err := buildField()
	if err != nil {
		return err
	}
	onTick, stop, err := startClick()
	if err != nil {
		return err
	}
	defer stop()
	return window.Run(f, name, onTick, log)
}

func runGUI(cmd *cobra.Command, args []string) error {
	_, f, name, err := buildField()
	if err != nil {
		return err
	}
	gui.Run(f, name, withClick, log)
	return nil
}
