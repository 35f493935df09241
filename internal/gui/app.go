package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/render"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/visualizer"
	"github.com/san-kum/sortviz/internal/viz"
)

const (
	screenW = 1280
	screenH = 720
	fps     = 60
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColNotice  = rl.NewColor(255, 170, 0, 255)
)

type runResult struct {
	report *visualizer.Report
	err    error
}

type App struct {
	Camera   rl.Camera3D
	scene    *render.Scene
	vis      *visualizer.Visualizer
	smoother *viz.Smoother
	log      *slog.Logger
	alg      sorting.Algorithm
	results  chan runResult
	running  bool
	notice   string
	report   *visualizer.Report
	save     func(*visualizer.Report) (string, error)
}

// NewApp builds the scene and visualizer. The window must already be open.
func NewApp(cfg *config.Config, log *slog.Logger, save func(*visualizer.Report) (string, error)) (*App, error) {
	sc := render.NewScene()
	a := &App{
		Camera: rl.NewCamera3D(
			rl.NewVector3(40, 0, 20),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 0, 1),
			60.0,
			rl.CameraPerspective,
		),
		scene:    sc,
		vis:      visualizer.New(sc, cfg.Options(log)),
		smoother: viz.NewSmoother(fps, 8.0, 0.9),
		log:      log,
		alg:      cfg.AlgorithmName(),
		results:  make(chan runResult, 1),
		save:     save,
	}
	var err error
	if len(cfg.Values) > 0 {
		_, err = a.vis.Load(cfg.Values)
	} else {
		_, err = a.vis.Regenerate()
	}
	return a, err
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, log *slog.Logger, save func(*visualizer.Report) (string, error)) error {
	rl.InitWindow(screenW, screenH, "sortviz")
	rl.SetTargetFPS(fps)
	rl.SetExitKey(0)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, log, save)
	if err != nil {
		return err
	}
	defer app.vis.Teardown()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and collects finished runs. It reports whether the
// app should quit.
func (a *App) Update() bool {
	select {
	case res := <-a.results:
		a.finish(res)
	default:
	}

	switch {
	case rl.IsKeyPressed(rl.KeyEscape), rl.IsKeyPressed(rl.KeyQ):
		return true
	case rl.IsKeyPressed(rl.KeyG):
		if _, err := a.vis.Regenerate(); err != nil {
			a.setNotice(err)
		} else {
			a.notice, a.report = "", nil
			a.smoother.Reset()
		}
	case rl.IsKeyPressed(rl.KeyC):
		a.vis.Cancel()
	case rl.IsKeyPressed(rl.KeyEnter):
		a.start()
	}

	for i, k := range []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive} {
		if rl.IsKeyPressed(k) {
			if algs := sorting.Algorithms(); i < len(algs) {
				a.alg = algs[i]
			}
		}
	}

	if rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyRight) {
		rl.UpdateCamera(&a.Camera, rl.CameraOrbital)
	}
	return false
}

func (a *App) start() {
	if a.running {
		a.setNotice(visualizer.ErrRunActive)
		return
	}
	a.running = true
	a.notice, a.report = "", nil
	vis, alg, results := a.vis, a.alg, a.results
	go func() {
		report, err := vis.Run(context.Background(), alg)
		results <- runResult{report: report, err: err}
	}()
}

func (a *App) finish(res runResult) {
	a.running = false
	a.report = res.report
	switch {
	case res.err != nil:
		a.setNotice(res.err)
	case res.report.Cancelled:
		a.notice = "run cancelled"
	case res.report.Stale:
		a.notice = "run abandoned"
	default:
		a.notice = fmt.Sprintf("%s sort finished", res.report.Algorithm)
		if a.save != nil {
			if id, err := a.save(res.report); err != nil {
				a.log.Error("save run", "err", err)
			} else {
				a.notice += ", saved " + id
			}
		}
	}
}

func (a *App) setNotice(err error) {
	switch {
	case errors.Is(err, visualizer.ErrEmptyArray):
		a.notice = "nothing to sort, press G"
	case errors.Is(err, visualizer.ErrRunActive):
		a.notice = "a sort is already running"
	default:
		a.notice = err.Error()
		if !visualizer.IsNotice(err) {
			a.log.Error("gui", "err", err)
		}
	}
}
