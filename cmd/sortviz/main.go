package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/animate"
	"github.com/san-kum/sortviz/internal/bench"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/export"
	"github.com/san-kum/sortviz/internal/gui"
	"github.com/san-kum/sortviz/internal/render"
	"github.com/san-kum/sortviz/internal/scene"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/storage"
	"github.com/san-kum/sortviz/internal/visualizer"
	"github.com/san-kum/sortviz/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	count      int
	maxValue   int
	pacingMs   int
	seed       int64
	values     string
	theme      string
	live       bool
	noSave     bool
	outFile    string
	atStep     int
	disorder   bool
	width      int
	height     int
	benchRuns  int
	workers    int
)

// main registers the sortviz commands. With no subcommand it opens the
// terminal visualizer.
func main() {
	rootCmd := &cobra.Command{
		Use:   "sortviz",
		Short: "animated sorting algorithm visualizer",
		RunE:  runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "", "data directory (default .sortviz)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	pf.IntVar(&count, "count", config.DefaultCount, "number of elements")
	pf.IntVar(&maxValue, "max", config.DefaultMaxValue, "largest generated value")
	pf.IntVar(&pacingMs, "pacing", config.DefaultPacingMs, "milliseconds per exchange")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.StringVar(&values, "values", "", "comma separated values instead of a random array")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "terminal theme")

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "sort one array and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSort,
	}
	runCmd.Flags().BoolVar(&live, "live", false, "print every step as it is animated")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	traceCmd := &cobra.Command{
		Use:   "trace [algorithm]",
		Short: "list the steps of a sort without pacing",
		Args:  cobra.MaximumNArgs(1),
		RunE:  traceSort,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot inversions over a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run's bars or disorder curve as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&atStep, "step", -1, "draw the array after this step (default final)")
	exportSVGCmd.Flags().BoolVar(&disorder, "disorder", false, "plot inversions instead of bars")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "svg width")
	exportSVGCmd.Flags().IntVar(&height, "height", 400, "svg height")

	benchCmd := &cobra.Command{
		Use:   "bench [algorithm...]",
		Short: "compare algorithms over many random arrays",
		RunE:  benchAlgorithms,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 100, "arrays per algorithm")
	benchCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "concurrent sorts")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the 3d window",
		RunE:  runGUI,
	}

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list algorithms",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for i, a := range sorting.Algorithms() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, a, a.Describe())
			}
			w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tALGORITHM\tCOUNT\tMAX\tPACING")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%dms\n", name, p.Algorithm, p.Count, p.MaxValue, p.PacingMs)
			}
			w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, traceCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportSVGCmd, benchCmd, guiCmd, algorithmsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers preset, config file, environment and flags, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
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

	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("max") {
		cfg.MaxValue = maxValue
	}
	if flags.Changed("pacing") {
		cfg.PacingMs = pacingMs
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("values") {
		vals, err := parseValues(values)
		if err != nil {
			return nil, err
		}
		cfg.Values = vals
	}
	if len(args) > 0 {
		cfg.Algorithm = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseValues(s string) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("--values: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

func newStore(cfg *config.Config) (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

// fileLogger opens <data>/sortviz.log for the full-screen front ends.
func fileLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(cfg.DataDir, "sortviz.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return config.NewLogger(f, cfg.LogLevel), f, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	st, err := newStore(cfg)
	if err != nil {
		return err
	}
	log, closer, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	return viz.Run(viz.Options{
		Config:   cfg,
		Logger:   log,
		Save:     st.Save,
		Snapshot: snapshotter(cfg.DataDir),
	})
}

// snapshotter writes the front view and the terminal canvas side by side.
func snapshotter(dir string) func([]scene.Bar, *viz.Canvas) (string, error) {
	return func(bars []scene.Bar, c *viz.Canvas) (string, error) {
		snapDir := filepath.Join(dir, "snapshots")
		if err := os.MkdirAll(snapDir, 0755); err != nil {
			return "", err
		}
		base := filepath.Join(snapDir, fmt.Sprintf("frame_%d", time.Now().UnixNano()))
		if err := os.WriteFile(base+".svg", []byte(export.BarsToSVG(bars, 800, 400)), 0644); err != nil {
			return "", err
		}
		if err := os.WriteFile(base+"_canvas.svg", []byte(export.CanvasToSVG(c, 4)), 0644); err != nil {
			return "", err
		}
		return base + ".svg", nil
	}
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	st, err := newStore(cfg)
	if err != nil {
		return err
	}
	log, closer, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	return gui.Run(cfg, log, st.Save)
}

// stepPrinter prints animated steps as they are applied.
type stepPrinter struct {
	w     io.Writer
	start time.Time
}

func (p *stepPrinter) OnStep(step sorting.Step, out animate.Outcome) {
	if !step.Op.Animated() {
		return
	}
	fmt.Fprintf(p.w, "%8s  %-40s %s\n", time.Since(p.start).Round(time.Millisecond), step, out)
}

// newVisualizer builds a headless visualizer over an in-memory scene and
// loads or generates its array.
func newVisualizer(cfg *config.Config, opts visualizer.Options) (*visualizer.Visualizer, error) {
	vis := visualizer.New(render.NewScene(), opts)
	var err error
	if len(cfg.Values) > 0 {
		_, err = vis.Load(cfg.Values)
	} else {
		_, err = vis.Regenerate()
	}
	return vis, err
}

func runSort(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	opts := cfg.Options(config.NewLogger(os.Stderr, cfg.LogLevel))
	if live {
		opts.Observers = append(opts.Observers, &stepPrinter{w: os.Stdout, start: time.Now()})
	}
	vis, err := newVisualizer(cfg, opts)
	if err != nil {
		return err
	}
	defer vis.Teardown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	alg := cfg.AlgorithmName()
	fmt.Printf("sorting %v with %s (pacing %v)...\n", vis.Values(), alg, cfg.Pacing())
	report, err := vis.Run(ctx, alg)
	if err != nil {
		return err
	}

	fmt.Printf("\nresult: %v\n", report.Final)
	fmt.Printf("sorted: %v  cancelled: %v  elapsed: %v\n", report.Sorted, report.Cancelled, report.Elapsed.Round(time.Millisecond))
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(report.Metrics) {
		fmt.Printf("  %s: %.0f\n", name, report.Metrics[name])
	}

	if noSave {
		return nil
	}
	st, err := newStore(cfg)
	if err != nil {
		return err
	}
	runID, err := st.Save(report)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func traceSort(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	opts := cfg.Options(config.NewLogger(io.Discard, cfg.LogLevel))
	opts.Pacing = 0
	vis, err := newVisualizer(cfg, opts)
	if err != nil {
		return err
	}
	defer vis.Teardown()

	report, err := vis.Run(context.Background(), cfg.AlgorithmName())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\t\t\t%v\n", report.Initial)
	for _, rec := range report.Records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%v\n", rec.Index, rec.Step, rec.Outcome, rec.Values)
	}
	return w.Flush()
}

func benchAlgorithms(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	algs := sorting.Algorithms()
	if len(args) > 0 {
		algs = nil
		for _, name := range args {
			a, err := sorting.ParseAlgorithm(name)
			if err != nil {
				return err
			}
			algs = append(algs, a)
		}
	}
	seedStart := cfg.Seed
	if seedStart == 0 {
		seedStart = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := bench.NewEnsemble(cfg.Count, cfg.MaxValue, benchRuns, seedStart)
	e.SetWorkers(workers)
	fmt.Printf("benchmarking %d arrays of %d (max %d), seed %d\n\n", benchRuns, cfg.Count, cfg.MaxValue, seedStart)
	start := time.Now()
	summaries, err := e.Run(ctx, algs)
	if err != nil {
		return err
	}

	names := bench.MetricNames(summaries)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "ALGORITHM")
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(n))
	}
	fmt.Fprintln(w, "\tUNSORTED")
	for _, s := range summaries {
		fmt.Fprint(w, s.Algorithm)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.1f (max %.0f)", s.Mean[n], s.Max[n])
		}
		fmt.Fprintf(w, "\t%d\n", s.Unsorted)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func storeFor(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := storeFor(cmd)
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
	fmt.Fprintln(w, "ID\tALGORITHM\tTIME\tN\tSTEPS\tEXCHANGES\tSORTED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0f\t%v\n",
			run.ID,
			run.Algorithm,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Initial),
			run.Steps,
			run.Metrics["exchanges"],
			run.Sorted,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := storeFor(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("algorithm: %s\n", meta.Algorithm)
	fmt.Printf("time: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("pacing: %dms  elapsed: %dms\n", meta.PacingMs, meta.ElapsedMs)
	fmt.Printf("initial: %v\n", meta.Initial)
	fmt.Printf("final: %v\n", meta.Final)
	fmt.Printf("sorted: %v  cancelled: %v  stale: %v\n", meta.Sorted, meta.Cancelled, meta.Stale)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Printf("  %s: %.0f\n", name, meta.Metrics[name])
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := storeFor(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("algorithm: %s\n", meta.Algorithm)
	fmt.Printf("steps: %d\n\n", len(rows))

	graph := asciigraph.Plot(export.Disorder(meta, rows),
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption("inversions vs step"),
	)
	fmt.Println(graph)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := storeFor(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	data := export.NewRunData(meta, rows)
	if outFile == "" {
		return export.WriteJSON(os.Stdout, data)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteJSON(f, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, err := storeFor(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	var svg string
	if disorder {
		svg = export.SeriesToSVG(export.Disorder(meta, rows), width, height, "#ff00ff")
	} else {
		vals := meta.Final
		if atStep >= 0 {
			if atStep >= len(rows) {
				return fmt.Errorf("step %d out of range (run has %d steps)", atStep, len(rows))
			}
			vals = rows[atStep].Values
		}
		svg = export.BarsToSVG(barsFor(vals), width, height)
	}
	if svg == "" {
		return fmt.Errorf("nothing to export")
	}

	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

// barsFor lays values out in slot order, shading by value.
func barsFor(vals []int) []scene.Bar {
	layout := scene.DefaultLayout()
	top := 1
	for _, v := range vals {
		top = max(top, v)
	}
	bars := make([]scene.Bar, len(vals))
	for i, v := range vals {
		shade := uint32(80 + 175*v/top)
		color := shade<<16 | 0x40<<8 | (255 - shade)
		bars[i] = layout.BarFor(scene.Element{Value: v, ID: scene.NewIdentity(i, v)}, i, len(vals), color)
	}
	return bars
}
