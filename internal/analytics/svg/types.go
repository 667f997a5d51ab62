// Package svg renders the dashboard charts as standalone SVG documents.
// Server-side charts keep the dashboard free of client scripting and make
// the output snapshot-testable.
package svg

// LineOpts customises the revenue trend chart.
type LineOpts struct {
	Title       string
	Description string
	StrokeColor string
	FillColor   string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
}

// BarOpts customises the daily revenue chart.
type BarOpts struct {
	Title       string
	Description string
	BarColor    string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	LabelEvery  int
}

// Chart viewport defaults.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 28.0
	DefaultTicks   = 5
)
