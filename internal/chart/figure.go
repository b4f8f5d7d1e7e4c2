package chart

// Figure is a plotly figure: initial traces, layout and animation frames.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Frames []Frame `json:"frames"`
}

// Trace is one scatter trace holding the points of a color group.
type Trace struct {
	Type          string    `json:"type"`
	Mode          string    `json:"mode"`
	Name          string    `json:"name"`
	LegendGroup   string    `json:"legendgroup"`
	ShowLegend    bool      `json:"showlegend"`
	X             []float64 `json:"x"`
	Y             []float64 `json:"y"`
	HoverText     []string  `json:"hovertext"`
	CustomData    [][]int   `json:"customdata"`
	HoverTemplate string    `json:"hovertemplate"`
	Marker        Marker    `json:"marker"`
}

// Marker styles the bubbles of a trace.
type Marker struct {
	Color    string     `json:"color"`
	Size     []float64  `json:"size"`
	SizeMode string     `json:"sizemode"`
	SizeRef  float64    `json:"sizeref"`
	Opacity  float64    `json:"opacity"`
	Line     MarkerLine `json:"line"`
}

// MarkerLine is the bubble outline.
type MarkerLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Frame is one animation step.
type Frame struct {
	Name string  `json:"name"`
	Data []Trace `json:"data"`
}

// Font is a plotly font.
type Font struct {
	Size   int    `json:"size,omitempty"`
	Family string `json:"family,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Title is a positioned title.
type Title struct {
	Text    string  `json:"text"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	XAnchor string  `json:"xanchor,omitempty"`
	YAnchor string  `json:"yanchor,omitempty"`
	Font    *Font   `json:"font,omitempty"`
}

// Axis is a fixed-range axis.
type Axis struct {
	Title     Title      `json:"title"`
	Range     [2]float64 `json:"range"`
	ShowLine  bool       `json:"showline"`
	LineColor string     `json:"linecolor"`
	LineWidth float64    `json:"linewidth"`
}

// Legend places and styles the legend.
type Legend struct {
	Title       Title   `json:"title"`
	Font        Font    `json:"font"`
	BgColor     string  `json:"bgcolor"`
	BorderColor string  `json:"bordercolor"`
	BorderWidth float64 `json:"borderwidth"`
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	X           float64 `json:"x"`
	TraceOrder  string  `json:"traceorder"`
}

// Slider steps through the animation frames.
type Slider struct {
	Active        int          `json:"active"`
	CurrentValue  CurrentValue `json:"currentvalue"`
	Pad           Pad          `json:"pad"`
	Len           float64      `json:"len"`
	X             float64      `json:"x"`
	Y             float64      `json:"y"`
	Font          Font         `json:"font"`
	BgColor       string       `json:"bgcolor"`
	ActiveBgColor string       `json:"activebgcolor"`
	BorderColor   string       `json:"bordercolor"`
	BorderWidth   float64      `json:"borderwidth"`
	Steps         []SliderStep `json:"steps"`
}

// CurrentValue labels the active slider step.
type CurrentValue struct {
	Prefix string `json:"prefix"`
	Font   Font   `json:"font"`
	Offset int    `json:"offset"`
}

// Pad is plotly padding in pixels.
type Pad struct {
	T int `json:"t,omitempty"`
	R int `json:"r,omitempty"`
	B int `json:"b,omitempty"`
	L int `json:"l,omitempty"`
}

// SliderStep jumps to one frame.
type SliderStep struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// UpdateMenu holds the play and pause buttons.
type UpdateMenu struct {
	Type       string   `json:"type"`
	Direction  string   `json:"direction"`
	ShowActive bool     `json:"showactive"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	XAnchor    string   `json:"xanchor"`
	YAnchor    string   `json:"yanchor"`
	Pad        Pad      `json:"pad"`
	Buttons    []Button `json:"buttons"`
}

// Button is an animate button.
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Transition is the frame transition.
type Transition struct {
	Duration int `json:"duration"`
}

// Layout is the subset of plotly layout attributes the chart sets.
type Layout struct {
	Title       Title        `json:"title"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	Legend      Legend       `json:"legend"`
	Sliders     []Slider     `json:"sliders"`
	UpdateMenus []UpdateMenu `json:"updatemenus"`
	Transition  Transition   `json:"transition"`
	PlotBgColor string       `json:"plot_bgcolor"`
	AutoSize    bool         `json:"autosize"`
	Margin      Margin       `json:"margin"`
}

func animateArgs(frames any, duration int) []any {
	return []any{
		frames,
		map[string]any{
			"frame":       map[string]any{"duration": duration, "redraw": false},
			"mode":        "immediate",
			"fromcurrent": true,
			"transition":  map[string]any{"duration": duration, "easing": "linear"},
		},
	}
}
