package sampler

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Point is one chart coordinate.
type Point struct {
	X, Y float64
}

// Series is a named rolling window of points, oldest first.
type Series struct {
	Label  string
	Points []Point
}

func (s *Series) push(p Point, window int) {
	s.Points = append(s.Points, p)
	if len(s.Points) > window {
		s.Points = append(s.Points[:0], s.Points[len(s.Points)-window:]...)
	}
}

func (s *Series) Values() []float64 {
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Y
	}
	return ys
}

// Chart keeps an accumulated force x/y pair of series per sampled entity.
type Chart struct {
	window   int
	entities []string
	series   map[string]*[2]Series
}

func NewChart(window int) *Chart {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &Chart{
		window: window,
		series: make(map[string]*[2]Series),
	}
}

func (c *Chart) Append(samples []Sample) {
	for _, s := range samples {
		pair, ok := c.series[s.Entity]
		if !ok {
			pair = &[2]Series{
				{Label: s.Entity + " accumulated force x"},
				{Label: s.Entity + " accumulated force y"},
			}
			c.series[s.Entity] = pair
			c.entities = append(c.entities, s.Entity)
		}
		pair[0].push(Point{X: s.Time, Y: s.X}, c.window)
		pair[1].push(Point{X: s.Time, Y: s.Y}, c.window)
	}
}

// Entities returns the charted entities in first-seen order.
func (c *Chart) Entities() []string { return c.entities }

// Series returns the x and y series of entity.
func (c *Chart) Series(entity string) (Series, Series, bool) {
	pair, ok := c.series[entity]
	if !ok {
		return Series{}, Series{}, false
	}
	return pair[0], pair[1], true
}

// Len is the point count of the longest series.
func (c *Chart) Len() int {
	n := 0
	for _, pair := range c.series {
		n = max(n, len(pair[0].Points))
	}
	return n
}

var chartColors = [][2]asciigraph.AnsiColor{
	{asciigraph.Red, asciigraph.Blue},
	{asciigraph.Yellow, asciigraph.Green},
	{asciigraph.Magenta, asciigraph.Cyan},
}

// Render plots x and y of every entity that has two points; it returns ""
// until one does.
func (c *Chart) Render(width, height int) string {
	var (
		data   [][]float64
		colors []asciigraph.AnsiColor
		legend []string
		last   float64
	)
	for i, name := range c.entities {
		pair := c.series[name]
		if len(pair[0].Points) < 2 {
			continue
		}
		col := chartColors[i%len(chartColors)]
		data = append(data, pair[0].Values(), pair[1].Values())
		colors = append(colors, col[0], col[1])
		legend = append(legend, name)
		last = max(last, pair[0].Points[len(pair[0].Points)-1].X)
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("accumulated force x/y (%s) @ t=%.0f", strings.Join(legend, ", "), last)),
	)
}

// Recorder keeps every flushed sample.
type Recorder struct {
	samples []Sample
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Append(samples []Sample) {
	r.samples = append(r.samples, samples...)
}

func (r *Recorder) Samples() []Sample { return r.samples }
