package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/scene"
	"github.com/san-kum/sortviz/internal/sorting"
)

func toVector3(v scene.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func toColor(c uint32) rl.Color {
	return rl.NewColor(uint8(c>>16), uint8(c>>8), uint8(c), 255)
}

func (a *App) Draw() {
	a.scene.RenderFrame()
	bars, frames := a.scene.Frame()
	bars = a.smoother.Update(bars)

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.drawFloor(len(bars))
	for _, b := range bars {
		pos, size := toVector3(b.Position), toVector3(b.Size)
		rl.DrawCube(pos, size.X, size.Y, size.Z, toColor(b.Color))
		rl.DrawCubeWires(pos, size.X, size.Y, size.Z, ColBg)
	}
	rl.EndMode3D()

	a.drawHUD(frames)
	rl.EndDrawing()
}

// drawFloor outlines the slot row on the z=0 plane.
func (a *App) drawFloor(n int) {
	layout := scene.DefaultLayout()
	half := float32(float64(n)*layout.Spacing/2 + layout.Spacing)
	depth := float32(layout.Depth)
	for _, x := range []float32{-depth, depth} {
		rl.DrawLine3D(rl.NewVector3(x, -half, 0), rl.NewVector3(x, half, 0), ColGrid)
	}
}

func (a *App) drawHUD(frames uint64) {
	rl.DrawText("sortviz", 30, 30, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s", a.alg), 140, 34, 16, ColText)

	status, col := "IDLE", ColTextDim
	if a.running {
		status, col = "SORTING", ColSelect
	}
	rl.DrawText(status, screenW-130, 30, 16, col)

	for i, alg := range sorting.Algorithms() {
		c := ColTextDim
		if alg == a.alg {
			c = ColSelect
		}
		rl.DrawText(fmt.Sprintf("[%d] %s", i+1, alg), 30, int32(80+i*22), 16, c)
	}

	values := a.vis.Values()
	rl.DrawText(fmt.Sprintf("n=%d  sorted=%.0f%%", len(values), metrics.Sortedness(values)*100), 30, 210, 14, ColText)
	if a.report != nil {
		rl.DrawText(fmt.Sprintf("exchanges=%.0f  comparisons=%.0f", a.report.Metrics["exchanges"], a.report.Metrics["comparisons"]), 30, 230, 14, ColText)
	}
	if a.notice != "" {
		rl.DrawText(a.notice, 30, 260, 16, ColNotice)
	}

	rl.DrawText("[G] GENERATE  [ENTER] SORT  [C] CANCEL  [1-5] ALGORITHM  [<-/->] ORBIT  [ESC] QUIT", 440, screenH-40, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS  frame %d", rl.GetFPS(), frames), 30, screenH-40, 14, ColTextDim)
}
