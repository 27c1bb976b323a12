package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/automation"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/gui"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	theme      string
	// Headless runs
	dt       float64
	duration float64
	realtime int
	speeds   map[string]string
	// GUI
	seed   int64
	stars  int
	width  int
	height int
	// Output
	outFile string
	svgSize int
	bodies  []string
	workers int
)

// main registers commands and flags, launches the GUI when no subcommand is
// given and exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "orrery",
		Short:             "interactive solar-system orrery",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orrery", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "speed preset")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "dark", "color theme (dark, light)")
	rootCmd.PersistentFlags().StringToStringVar(&speeds, "speed", nil, "speed multiplier per body, e.g. earth=2,mars=0.5")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the 3D window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	for _, c := range []*cobra.Command{rootCmd, guiCmd} {
		c.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "star field seed")
		c.Flags().IntVar(&stars, "stars", config.DefaultStars, "number of background stars")
		c.Flags().IntVar(&width, "width", config.DefaultWidth, "window width")
		c.Flags().IntVar(&height, "height", config.DefaultHeight, "window height")
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the orrery in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and save the orbital angles",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addRunFlags(runCmd)
	runCmd.Flags().IntVar(&realtime, "realtime", 0, "pace ticks at this many per second (0 = as fast as possible)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot orbital angles of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&bodies, "body", nil, "bodies to plot (default all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run angles to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run's trails, or a snapshot when no run is given, as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	addRunFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "measure orbital periods of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&bodies, "body", nil, "bodies to analyze (default all)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted session and save it as a run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "run presets side by side and compare revolutions",
		RunE:  comparePresets,
	}
	addRunFlags(compareCmd)
	compareCmd.Flags().IntVar(&workers, "workers", 4, "parallel workers")

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list the planets",
		Args:  cobra.NoArgs,
		RunE:  listBodies,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available speed presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.GetPreset(name).Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	})

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, svgCmd, analyzeCmd, scenarioCmd, compareCmd, bodiesCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig layers defaults, the config file, the preset and finally any
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") || configFile == "" || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if len(speeds) > 0 {
		if cfg.Speeds == nil {
			cfg.Speeds = make(map[string]float64, len(speeds))
		}
		for id, raw := range speeds {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("speed %s: %w", id, err)
			}
			cfg.Speeds[id] = v
		}
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("realtime") {
		cfg.Run.RealtimeFPS = realtime
	}
	if flags.Changed("stars") {
		cfg.Stars = stars
	}
	if flags.Changed("width") {
		cfg.Window.Width = width
	}
	if flags.Changed("height") {
		cfg.Window.Height = height
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("config resolved", "file", configFile, "preset", preset, "data", cfg.DataDir)
	return cfg, nil
}

// openStore resolves the data directory the same way every command does, so
// runs saved under a config file's data_dir are visible to the readers.
func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, seed, slog.Default())
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m := viz.NewModel(append(cfg.ControllerOptions(), orrery.WithLogger(slog.Default()))...)
	if err := cfg.Apply(m.Controller()); err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// newSimulator builds a headless simulator with the default metrics and the
// config applied.
func newSimulator(cfg *config.Config) (*sim.Simulator, error) {
	s := sim.New(append(cfg.ControllerOptions(), orrery.WithLogger(slog.Default()))...)
	for _, m := range sim.DefaultMetrics() {
		s.AddMetric(m)
	}
	if err := cfg.Apply(s.Controller()); err != nil {
		return nil, err
	}
	return s, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{Dt: cfg.Run.Dt, Duration: cfg.Run.Duration, RealtimeFPS: cfg.Run.RealtimeFPS}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := s.Run(ctx, simConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	state := s.Controller().State()
	name := preset
	if name == "" {
		name = "custom"
	}
	runID, err := st.Save(storage.RunMetadata{
		Preset:   name,
		Dt:       cfg.Run.Dt,
		Duration: cfg.Run.Duration,
		Paused:   state.Paused,
		Speeds:   state.SpeedMultiplier,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("frames: %d (%.2fs simulated in %s)\n", result.Frames, cfg.Run.Duration, elapsed.Round(time.Millisecond))
	printRevolutions(os.Stdout, result.BodyIDs, result.Metrics)
	return nil
}

func printRevolutions(out io.Writer, ids []string, metrics map[string]float64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tREVOLUTIONS")
	for _, id := range ids {
		fmt.Fprintf(w, "%s\t%.4f\n", id, metrics["revolutions_"+id])
	}
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tFRAMES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Frames,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	result, err := st.LoadAngles(runID)
	if err != nil {
		return err
	}

	if len(result.Samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(result.Samples))

	ids := bodies
	if len(ids) == 0 {
		ids = result.BodyIDs
	}

	for _, id := range ids {
		data, err := result.Series(id)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(id+" orbital angle (rad)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	result, err := st.LoadAngles(args[0])
	if err != nil {
		return err
	}

	if len(result.Samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(append([]string{"time"}, result.BodyIDs...)); err != nil {
		return err
	}
	for i, sample := range result.Samples {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, val := range sample {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	return st.ExportJSON(args[0], os.Stdout)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	var svg string
	if len(args) == 1 {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		result, err := st.LoadAngles(args[0])
		if err != nil {
			return err
		}
		svg = export.TrailsToSVG(result, svgSize)
	} else {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := newSimulator(cfg)
		if err != nil {
			return err
		}
		if _, err := s.Run(context.Background(), simConfig(cfg)); err != nil {
			return err
		}
		svg = export.OrbitsToSVG(s.Controller().Frame(), svgSize)
	}

	if svg == "" {
		return fmt.Errorf("nothing to render")
	}
	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}
	variants := make([]sim.Variant, 0, len(names))
	for _, name := range names {
		p := config.GetPreset(name)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		variants = append(variants, sim.Variant{Name: name, Speeds: p.Speeds})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := simConfig(cfg)
	run.RealtimeFPS = 0
	start := time.Now()
	results, err := sim.NewEnsemble(workers, cfg.ControllerOptions()...).Run(ctx, variants, run)
	if err != nil {
		return err
	}

	fmt.Printf("comparing %d presets (dt=%.4f, duration=%.1fs) in %s\n\n", len(variants), run.Dt, run.Duration, time.Since(start).Round(time.Millisecond))

	ids := orrery.BodyIDs()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "preset\t"+strings.Join(ids, "\t")+"\t")
	for i, r := range results {
		row := make([]string, len(ids))
		for j, id := range ids {
			row[j] = fmt.Sprintf("%.3f", r.Metrics["revolutions_"+id])
		}
		fmt.Fprintln(w, variants[i].Name+"\t"+strings.Join(row, "\t")+"\t")
	}
	return w.Flush()
}

func listBodies(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRADIUS\tDISTANCE\tSPEED\tCOLOR")
	for _, b := range orrery.Catalog() {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.0f\t%.3f\t%s\n", b.ID, b.Name, b.Radius, b.OrbitalDistance, b.BaseAngularSpeed, b.Color.Hex())
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	result, err := st.LoadAngles(runID)
	if err != nil {
		return err
	}

	catalog := make(map[string]orrery.CelestialBody)
	for _, b := range orrery.Catalog() {
		catalog[b.ID] = b
	}

	ids := bodies
	if len(ids) == 0 {
		ids = result.BodyIDs
	}

	fmt.Printf("period analysis: %s\n\n", meta.ID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tSPEED\tEXPECTED\tSLOPE\tSPECTRAL")
	for _, id := range ids {
		angles, err := result.Series(id)
		if err != nil {
			return err
		}
		speed, expected := "varied", math.Inf(1)
		if mult, ok := meta.FixedSpeed(id); ok {
			speed = fmt.Sprintf("%.1fx", mult)
			expected = analysis.ExpectedPeriod(catalog[id].BaseAngularSpeed, mult)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", id, speed,
			formatPeriod(expected, nil),
			formatPeriod(analysis.SlopePeriod(result.Times, angles)),
			formatPeriod(analysis.SpectralPeriod(result.Times, angles)),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if meta.VariableSpeed {
		fmt.Println("\nspeeds changed during this run; no expected period")
	}
	return nil
}

func formatPeriod(p float64, err error) string {
	if err != nil || math.IsInf(p, 1) {
		return "-"
	}
	return fmt.Sprintf("%.2fs", p)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}

	result, runner, err := automation.RunScenario(ctx, sc, slog.Default())
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	if err := st.Init(); err != nil {
		return err
	}
	state := runner.State()
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(sc.Name)), " ", "-")
	if name == "" {
		name = "scenario"
	}
	runID, err := st.Save(storage.RunMetadata{
		Preset:        name,
		Dt:            sc.Dt,
		Duration:      sc.Duration,
		Paused:        state.Paused,
		Speeds:        state.SpeedMultiplier,
		VariableSpeed: sc.ChangesSpeed(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("steps applied: %d/%d\n", runner.Applied(), len(sc.Steps))
	printRevolutions(os.Stdout, result.BodyIDs, result.Metrics)
	return nil
}
