package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/sortviz/internal/scene"
	"github.com/san-kum/sortviz/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, w, h float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background))
}

// BarsToSVG draws the scene from the front: placement runs left to right and
// the lift axis is up. Lifted bars hang below the baseline.
func BarsToSVG(bars []scene.Bar, width, height int) string {
	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	if len(bars) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	minZ, maxZ := 0.0, 0.0
	for _, b := range bars {
		y, z := b.Position.Get(scene.PlacementAxis), b.Position.Get(scene.LiftAxis)
		hw, hh := b.Size.Get(scene.PlacementAxis)/2, b.Size.Get(scene.LiftAxis)/2
		minY, maxY = math.Min(minY, y-hw), math.Max(maxY, y+hw)
		minZ, maxZ = math.Min(minZ, z-hh), math.Max(maxZ, z+hh)
	}
	spanY, spanZ := maxY-minY, maxZ-minZ
	if spanZ == 0 {
		spanZ = 1
	}
	pad := 0.05
	sx := float64(width) * (1 - 2*pad) / spanY
	sz := float64(height) * (1 - 2*pad) / spanZ
	ox, oz := float64(width)*pad, float64(height)*pad

	for _, b := range bars {
		y, z := b.Position.Get(scene.PlacementAxis), b.Position.Get(scene.LiftAxis)
		hw, hh := b.Size.Get(scene.PlacementAxis)/2, b.Size.Get(scene.LiftAxis)/2
		x := ox + (y-hw-minY)*sx
		top := oz + (maxZ-(z+hh))*sz
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s</title></rect>
`, x, top, 2*hw*sx, 2*hh*sz, viz.HexColor(b.Color), b.ID))
	}
	baseline := oz + maxZ*sz
	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-width="1"/>
`, baseline, width, baseline))
	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in
// the colour of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	var sb strings.Builder
	header(&sb, float64(w)*scale, float64(h)*scale)

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			fill := "#00ff00"
			if c := canvas.Colors[y/4][x/2]; c != 0 {
				fill = viz.HexColor(c)
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rangeV := maxV - minV
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	rangeV *= 1.2
	last := float64(len(values) - 1)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-minV)/rangeV*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
