package viz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/render"
	"github.com/san-kum/sortviz/internal/scene"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/visualizer"
)

const (
	fps             = 60
	panelWidth      = 46
	historyCapacity = 600
)

type frameMsg time.Time

type runDoneMsg struct {
	report *visualizer.Report
	err    error
}

// Options wires the app to the rest of the program.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Snapshot persists the current frame, returning where it went.
	Snapshot func(bars []scene.Bar, c *Canvas) (string, error)
	// Save stores a finished run, returning its id.
	Save func(*visualizer.Report) (string, error)
}

// Model is the bubbletea model driving one visualizer.
type Model struct {
	cfg      *config.Config
	log      *slog.Logger
	scene    *render.Scene
	vis      *visualizer.Visualizer
	alg      sorting.Algorithm
	theme    Theme
	st       styles
	canvas   *Canvas
	camera   *Camera
	smoother *Smoother
	spinner  spinner.Model

	running  bool
	notice   string
	report   *visualizer.Report
	disorder []float64
	lastGen  uint64
	lastVals string
	frames   uint64

	snapshot func([]scene.Bar, *Canvas) (string, error)
	save     func(*visualizer.Report) (string, error)

	width, height int
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = config.NewLogger(io.Discard, cfg.LogLevel)
	}
	sc := render.NewScene()
	vis := visualizer.New(sc, cfg.Options(log))
	theme := GetTheme(cfg.Theme)

	m := Model{
		cfg:      cfg,
		log:      log,
		scene:    sc,
		vis:      vis,
		alg:      cfg.AlgorithmName(),
		theme:    theme,
		st:       newStyles(theme),
		canvas:   NewCanvas(80-panelWidth, 20),
		camera:   NewCamera(),
		smoother: NewSmoother(fps, 8.0, 0.9),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Running))),
		snapshot: opts.Snapshot,
		save:     opts.Save,
		width:    80,
		height:   24,
	}
	if len(cfg.Values) > 0 {
		_, err := vis.Load(cfg.Values)
		m.setNotice(err)
	} else {
		_, err := vis.Regenerate()
		m.setNotice(err)
	}
	m.fit()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.spinner.Tick)
}

// Visualizer exposes the model's visualizer.
func (m Model) Visualizer() *visualizer.Visualizer { return m.vis }

func (m Model) Algorithm() sorting.Algorithm { return m.alg }

func (m Model) Notice() string { return m.notice }

func (m Model) Running() bool { return m.running }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas = NewCanvas(max(20, m.width-panelWidth-6), max(8, m.height-4))
		return m, nil
	case frameMsg:
		m.frame()
		return m, tick()
	case runDoneMsg:
		m.running = false
		m.report = msg.report
		switch {
		case msg.err != nil:
			m.setNotice(msg.err)
		case msg.report.Cancelled:
			m.notice = "run cancelled"
		case msg.report.Stale:
			m.notice = "run abandoned"
		default:
			m.notice = fmt.Sprintf("%s sort finished", msg.report.Algorithm)
			if m.save != nil {
				if id, err := m.save(msg.report); err != nil {
					m.log.Error("save run", "err", err)
				} else {
					m.notice += ", saved " + id
				}
			}
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.vis.Teardown()
		return m, tea.Quit
	case "g":
		if _, err := m.vis.Regenerate(); err != nil {
			m.setNotice(err)
			break
		}
		m.notice, m.report = "", nil
		m.fit()
	case "r":
		m.vis.Cancel()
		if _, err := m.vis.Regenerate(); err != nil {
			m.setNotice(err)
			break
		}
		m.notice, m.report = "", nil
		m.fit()
	case "c", "esc":
		if m.running {
			m.vis.Cancel()
		}
	case "enter", " ":
		return m.start()
	case "tab":
		algs := sorting.Algorithms()
		for i, a := range algs {
			if a == m.alg {
				m.alg = algs[(i+1)%len(algs)]
				break
			}
		}
	case "1", "2", "3", "4", "5":
		algs := sorting.Algorithms()
		if i := int(key[0] - '1'); i < len(algs) {
			m.alg = algs[i]
		}
	case "left", "h":
		m.camera.RotateYaw(-0.1)
	case "right", "l":
		m.camera.RotateYaw(0.1)
	case "up", "k":
		m.camera.RotatePitch(0.05)
	case "down", "j":
		m.camera.RotatePitch(-0.05)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "t":
		m.theme = NextTheme(m.theme)
		m.st = newStyles(m.theme)
		m.spinner.Style = lipgloss.NewStyle().Foreground(m.theme.Running)
	case "p":
		if m.snapshot == nil {
			break
		}
		bars, _ := m.scene.Frame()
		path, err := m.snapshot(bars, m.canvas)
		if err != nil {
			m.setNotice(err)
		} else {
			m.notice = "snapshot " + path
		}
	}
	return m, nil
}

// start launches the selected sort on its own goroutine via a command.
func (m Model) start() (Model, tea.Cmd) {
	if m.running || m.vis.IsRunning() {
		m.setNotice(visualizer.ErrRunActive)
		return m, nil
	}
	m.running = true
	m.notice, m.report = "", nil
	vis, alg := m.vis, m.alg
	return m, func() tea.Msg {
		report, err := vis.Run(context.Background(), alg)
		return runDoneMsg{report: report, err: err}
	}
}

func (m *Model) setNotice(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, visualizer.ErrEmptyArray):
		m.notice = "nothing to sort, press g"
	case errors.Is(err, visualizer.ErrRunActive):
		m.notice = "a sort is already running"
	case visualizer.IsNotice(err):
		m.notice = err.Error()
	default:
		m.notice = "error: " + err.Error()
		m.log.Error("tui", "err", err)
	}
}

func (m *Model) fit() {
	m.camera.Fit(scene.DefaultLayout(), m.vis.Registry().Len(), m.cfg.MaxValue)
	m.smoother.Reset()
	m.disorder = m.disorder[:0]
	m.lastVals = ""
}

// frame publishes the scene, eases the bars and samples disorder.
func (m *Model) frame() {
	m.scene.RenderFrame()
	bars, n := m.scene.Frame()
	m.frames = n
	DrawBars(m.canvas, m.smoother.Update(bars), m.camera)

	if gen := m.vis.Registry().Generation(); gen != m.lastGen {
		m.lastGen = gen
		m.disorder = m.disorder[:0]
		m.lastVals = ""
	}
	values := m.vis.Values()
	key := fmt.Sprint(values)
	if key == m.lastVals {
		return
	}
	m.lastVals = key
	m.disorder = append(m.disorder, float64(metrics.Inversions(values)))
	if len(m.disorder) > historyCapacity {
		m.disorder = m.disorder[1:]
	}
}

func (m Model) View() string {
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(m.st.title.Render("SORTVIZ") + "\n")

	status := m.st.muted.Render("idle")
	if m.running {
		status = m.spinner.View() + " " + m.st.running.Render("SORTING")
	}
	s.WriteString(status + "\n\n")

	for i, a := range sorting.Algorithms() {
		line := fmt.Sprintf("%d %-10s", i+1, a)
		if a == m.alg {
			s.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + m.st.muted.Render(line) + "\n")
		}
	}
	s.WriteString(m.st.muted.Render("  "+m.alg.Describe()) + "\n\n")

	values := m.vis.Values()
	s.WriteString(m.st.label.Render("Elements") + m.st.value.Render(fmt.Sprintf("%d", len(values))) + "\n")
	s.WriteString(m.st.label.Render("Pacing") + m.st.value.Render(m.vis.Animator().Pacing().String()) + "\n")
	s.WriteString(m.st.label.Render("Sorted") + ProgressBar(metrics.Sortedness(values), 20, m.st.active) + "\n")
	s.WriteString(m.st.label.Render("Frames") + m.st.value.Render(fmt.Sprintf("%d", m.frames)) + "\n")
	if m.report != nil {
		s.WriteString(m.st.label.Render("Exchanges") + m.st.value.Render(fmt.Sprintf("%.0f", m.report.Metrics["exchanges"])) + "\n")
		s.WriteString(m.st.label.Render("Comparisons") + m.st.value.Render(fmt.Sprintf("%.0f", m.report.Metrics["comparisons"])) + "\n")
	}

	if len(m.disorder) > 1 {
		chart := asciigraph.Plot(m.disorder, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Inversions"))
		s.WriteString(m.st.graph.Render(chart) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + m.st.notice.Render(m.notice) + "\n")
	}

	s.WriteString("\n" + keyHints(m.st, "g", "generate", "enter", "sort", "c", "cancel") + "\n")
	s.WriteString(keyHints(m.st, "tab", "algorithm", "t", "theme", "p", "snapshot") + "\n")
	s.WriteString(keyHints(m.st, "arrows", "orbit", "+/-", "zoom", "q", "quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(s.String()))
}

// Run starts the full-screen program and blocks until it quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}
