package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille grid addressed in sub-pixels: (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in sub-pixels.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set lights one sub-pixel; out of range coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether a sub-pixel is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return (c.Grid[row][col]-brailleBlank)&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillBox lights a square of side 2*half+1 centred on (x, y).
func (c *Canvas) FillBox(x, y, half int) {
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// Cross draws an X centred on (x, y).
func (c *Canvas) Cross(x, y, half int) {
	c.DrawLine(x-half, y-half, x+half, y+half)
	c.DrawLine(x-half, y+half, x+half, y-half)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps world coordinates to canvas sub-pixels. World y grows
// downwards, like the screen.
type Viewport struct {
	MinX, MinY float64
	Scale      float64
	PadX, PadY float64
}

// FitViewport frames the box [minX,maxX]x[minY,maxY] inside a subW x subH
// canvas, leaving margin sub-pixels on every side and keeping the aspect ratio.
func FitViewport(minX, minY, maxX, maxY float64, subW, subH, margin int) Viewport {
	w, h := maxX-minX, maxY-minY
	availW := float64(subW - 2*margin)
	availH := float64(subH - 2*margin)
	if availW < 1 {
		availW = 1
	}
	if availH < 1 {
		availH = 1
	}

	scale := math.Inf(1)
	if w > 0 {
		scale = availW / w
	}
	if h > 0 {
		scale = math.Min(scale, availH/h)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	return Viewport{
		MinX:  minX,
		MinY:  minY,
		Scale: scale,
		PadX:  float64(margin) + (availW-w*scale)/2,
		PadY:  float64(margin) + (availH-h*scale)/2,
	}
}

func (v Viewport) ToCanvas(x, y float64) (int, int) {
	cx := (x-v.MinX)*v.Scale + v.PadX
	cy := (y-v.MinY)*v.Scale + v.PadY
	return int(math.Round(cx)), int(math.Round(cy))
}

func (v Viewport) ToWorld(px, py int) (float64, float64) {
	x := (float64(px)-v.PadX)/v.Scale + v.MinX
	y := (float64(py)-v.PadY)/v.Scale + v.MinY
	return x, y
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
