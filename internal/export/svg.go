// Package export renders scene snapshots and sampled forces as SVG.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/springlab/internal/ecs"
	"github.com/san-kum/springlab/internal/sampler"
	"github.com/san-kum/springlab/internal/scene"
)

var palette = []string{"#ff4d4d", "#4d79ff", "#00ff88", "#ffcc00", "#ff00ff", "#00ffff"}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b *bounds) add(x, y float64) {
	b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
	b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
}

// pad grows the box by 10% on every side and keeps it non-empty.
func (b *bounds) pad() {
	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
}

func newBounds() bounds {
	return bounds{minX: math.Inf(1), maxX: math.Inf(-1), minY: math.Inf(1), maxY: math.Inf(-1)}
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// SceneToSVG draws springs as lines, bodies as squares and anchors as
// crosses. World y grows downwards, as on screen.
func SceneToSVG(bodies []scene.BodyState, links [][2]ecs.Position, width, height int) string {
	if len(bodies) == 0 {
		return ""
	}

	b := newBounds()
	for _, body := range bodies {
		b.add(body.X, body.Y)
	}
	b.pad()
	scale := math.Min(float64(width)/(b.maxX-b.minX), float64(height)/(b.maxY-b.minY))
	project := func(x, y float64) (float64, float64) {
		return (x - b.minX) * scale, (y - b.minY) * scale
	}

	var sb strings.Builder
	header(&sb, width, height)

	sb.WriteString(`<g stroke="#888899" stroke-width="1.5">` + "\n")
	for _, l := range links {
		x0, y0 := project(l[0].X, l[0].Y)
		x1, y1 := project(l[1].X, l[1].Y)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x0, y0, x1, y1))
	}
	sb.WriteString("</g>\n")

	for _, body := range bodies {
		x, y := project(body.X, body.Y)
		if body.Anchored {
			sb.WriteString(fmt.Sprintf(`<path stroke="#ffcc00" stroke-width="2" d="M%.1f,%.1f L%.1f,%.1f M%.1f,%.1f L%.1f,%.1f"/>`+"\n",
				x-5, y-5, x+5, y+5, x-5, y+5, x+5, y-5))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="10" height="10" fill="#00ff88"><title>%s</title></rect>`+"\n",
			x-5, y-5, body.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots each series as a path, y up, sharing one set of axes.
func SeriesToSVG(series []sampler.Series, width, height int) string {
	b := newBounds()
	n := 0
	for _, s := range series {
		if len(s.Points) < 2 {
			continue
		}
		for _, p := range s.Points {
			b.add(p.X, p.Y)
		}
		n++
	}
	if n == 0 {
		return ""
	}
	b.pad()
	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY

	var sb strings.Builder
	header(&sb, width, height)

	color := 0
	for _, s := range series {
		if len(s.Points) < 2 {
			continue
		}
		stroke := palette[color%len(palette)]
		color++
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
		for i, p := range s.Points {
			x := (p.X - b.minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-b.minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(fmt.Sprintf(`"><title>%s</title></path>`+"\n", s.Label))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
