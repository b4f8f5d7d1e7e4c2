package chart

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/KaramelBytes/dietwater/internal/stats"
	"github.com/KaramelBytes/dietwater/internal/survey"
)

// Fixed chart text.
const (
	TitleText    = "Interactive Bubble Chart: Water Use vs Water Scarcity by Diet Group and Age"
	SubtitleText = "Analyzing Water Use Outliers and Scarcity Risks Among Vegan and Vegetarian Dietary Groups"
	LegendTitle  = "Diet + Sex Group"
	SliderPrefix = "Age Group: "
	XAxisTitle   = "Mean Water Use (liters/day)"
	YAxisTitle   = "Mean Water Scarcity (index)"

	hoverTemplate = "<b>%{hovertext}</b><br><br>" +
		"mean_watuse=%{x:.2f}<br>" +
		"mean_watscar=%{y:.2f}<br>" +
		"stability_score=%{marker.size:.2f}<br>" +
		"outliers=%{customdata[0]}<extra></extra>"
)

// DefaultSizeMax is the largest bubble diameter in pixels.
const DefaultSizeMax = 60.0

// Options controls Build.
type Options struct {
	Palette Palette
	SizeMax float64
}

// Point is one labeled record placed on the chart.
type Point struct {
	Grouping   string
	AgeGroup   string
	ColorGroup string
	X          float64
	Y          float64
	Size       float64
	Outliers   int
}

// StabilityScore combines the two standard deviations into one magnitude.
func StabilityScore(sdWatUse, sdWatScar float64) float64 {
	return math.Hypot(sdWatUse, sdWatScar)
}

// Points derives the chart points. The stored diet_sex_group, when present,
// must agree with diet_group and sex.
func Points(recs []survey.Labeled) ([]Point, error) {
	pts := make([]Point, len(recs))
	for i, r := range recs {
		dsg := r.Record.DietSexGroup()
		if r.DietSexGroup != "" && r.DietSexGroup != dsg {
			return nil, eris.Errorf("chart: row %d: diet_sex_group %q does not match %q", i+1, r.DietSexGroup, dsg)
		}
		pts[i] = Point{
			Grouping:   r.Grouping,
			AgeGroup:   r.AgeGroup,
			ColorGroup: ColorGroup(r.Outliers, dsg),
			X:          r.MeanWatUse.Float(),
			Y:          r.MeanWatScar.Float(),
			Size:       StabilityScore(r.SDWatUse.Float(), r.SDWatScar.Float()),
			Outliers:   r.Outliers,
		}
	}
	return pts, nil
}

// Build lays out the animated bubble chart: one frame per age group in
// first-appearance order, each frame carrying one trace per color group.
func Build(recs []survey.Labeled, opts Options) (*Figure, error) {
	if len(recs) == 0 {
		return nil, eris.New("chart: no rows to plot")
	}
	if opts.Palette.Len() == 0 {
		opts.Palette = DefaultPalette()
	}
	if opts.SizeMax <= 0 {
		opts.SizeMax = DefaultSizeMax
	}

	pts, err := Points(recs)
	if err != nil {
		return nil, err
	}

	groups := opts.Palette.Order()
	var ages []string
	seenAge := make(map[string]bool)
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	maxSize := 0.0
	for i, p := range pts {
		if !seenAge[p.AgeGroup] {
			seenAge[p.AgeGroup] = true
			ages = append(ages, p.AgeGroup)
		}
		if !opts.Palette.Has(p.ColorGroup) && !contains(groups, p.ColorGroup) {
			groups = append(groups, p.ColorGroup)
		}
		xs[i], ys[i] = p.X, p.Y
		if p.Size > maxSize {
			maxSize = p.Size
		}
	}

	sizeRef := 1.0
	if maxSize > 0 {
		sizeRef = 2 * maxSize / (opts.SizeMax * opts.SizeMax)
	}

	frames := make([]Frame, len(ages))
	for fi, age := range ages {
		traces := make([]Trace, len(groups))
		slot := make(map[string]int, len(groups))
		for gi, g := range groups {
			slot[g] = gi
			traces[gi] = newTrace(g, opts.Palette.Color(g), sizeRef)
		}
		for _, p := range pts {
			if p.AgeGroup != age {
				continue
			}
			t := &traces[slot[p.ColorGroup]]
			t.X = append(t.X, p.X)
			t.Y = append(t.Y, p.Y)
			t.HoverText = append(t.HoverText, p.Grouping)
			t.CustomData = append(t.CustomData, []int{p.Outliers})
			t.Marker.Size = append(t.Marker.Size, p.Size)
		}
		frames[fi] = Frame{Name: age, Data: traces}
	}

	xlo, xhi, _ := stats.Bounds(xs)
	ylo, yhi, _ := stats.Bounds(ys)

	fig := &Figure{
		Data:   frames[0].Data,
		Frames: frames,
		Layout: newLayout(ages, [2]float64{xlo * 0.8, xhi * 1.2}, [2]float64{ylo * 0.8, yhi * 1.2}),
	}

	zap.L().Debug("built bubble chart",
		zap.Int("points", len(pts)),
		zap.Int("frames", len(frames)),
		zap.Int("traces", len(groups)),
		zap.Float64("sizeref", sizeRef),
	)
	return fig, nil
}

func newTrace(group, color string, sizeRef float64) Trace {
	return Trace{
		Type:          "scatter",
		Mode:          "markers",
		Name:          group,
		LegendGroup:   group,
		ShowLegend:    true,
		X:             []float64{},
		Y:             []float64{},
		HoverText:     []string{},
		CustomData:    [][]int{},
		HoverTemplate: hoverTemplate,
		Marker: Marker{
			Color:    color,
			Size:     []float64{},
			SizeMode: "area",
			SizeRef:  sizeRef,
			Opacity:  0.7,
			Line:     MarkerLine{Color: "white", Width: 1},
		},
	}
}

func newLayout(ages []string, xRange, yRange [2]float64) Layout {
	steps := make([]SliderStep, len(ages))
	for i, age := range ages {
		steps[i] = SliderStep{
			Label:  age,
			Method: "animate",
			Args:   animateArgs([]string{age}, 0),
		}
	}
	grey := Font{Size: 14, Color: "grey"}
	return Layout{
		Title: Title{
			Text:    TitleText + "<br><span style='font-size:16px; color:gray;'>" + SubtitleText + "</span>",
			X:       0.5,
			Y:       0.95,
			XAnchor: "center",
			YAnchor: "top",
			Font:    &Font{Size: 28, Family: "Arial", Color: "black"},
		},
		XAxis: Axis{
			Title:     Title{Text: XAxisTitle},
			Range:     xRange,
			ShowLine:  true,
			LineColor: "black",
			LineWidth: 2,
		},
		YAxis: Axis{
			Title:     Title{Text: YAxisTitle},
			Range:     yRange,
			ShowLine:  true,
			LineColor: "black",
			LineWidth: 2,
		},
		Legend: Legend{
			Title:       Title{Text: LegendTitle, Font: &Font{Size: 20, Family: "Arial"}},
			Font:        Font{Size: 16, Family: "Arial"},
			BgColor:     "rgba(255,255,255,0.6)",
			BorderColor: "lightgrey",
			BorderWidth: 1,
			Orientation: "v",
			YAnchor:     "top",
			Y:           0.8,
			XAnchor:     "left",
			X:           1.02,
			TraceOrder:  "normal",
		},
		Sliders: []Slider{{
			Active:        0,
			CurrentValue:  CurrentValue{Prefix: SliderPrefix, Font: grey, Offset: 10},
			Pad:           Pad{T: 10},
			Len:           0.8,
			X:             0.1,
			Y:             -0.15,
			Font:          Font{Size: 14},
			BgColor:       "lightgrey",
			ActiveBgColor: "deepskyblue",
			BorderColor:   "lightgrey",
			BorderWidth:   1,
			Steps:         steps,
		}},
		UpdateMenus: []UpdateMenu{{
			Type:       "buttons",
			Direction:  "left",
			ShowActive: false,
			X:          0.1,
			Y:          -0.15,
			XAnchor:    "right",
			YAnchor:    "top",
			Pad:        Pad{T: 70, R: 10},
			Buttons: []Button{
				{Label: "&#9654;", Method: "animate", Args: animateArgs(nil, 500)},
				{Label: "&#9724;", Method: "animate", Args: animateArgs([]any{nil}, 0)},
			},
		}},
		Transition:  Transition{Duration: 300},
		PlotBgColor: "white",
		AutoSize:    true,
		Margin:      Margin{L: 50, R: 50, T: 100, B: 50},
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
