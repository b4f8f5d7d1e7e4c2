// Package chart renders the labeled survey as an animated plotly bubble chart.
package chart

// Color groups. Base groups are diet_sex_group values; outlier groups share
// a single highlight color.
const (
	VeganFemale         = "vegan_female"
	VeganMale           = "vegan_male"
	VeggieFemale        = "veggie_female"
	VeggieMale          = "veggie_male"
	VeganFemaleOutlier  = "vegan_female_outlier"
	VeganMaleOutlier    = "vegan_male_outlier"
	VeggieFemaleOutlier = "veggie_female_outlier"
	VeggieMaleOutlier   = "veggie_male_outlier"
)

// OutlierColor is shared by every outlier group.
const OutlierColor = "red"

// FallbackColor is used for groups the palette does not know.
const FallbackColor = "#B0B0B0"

// ColorGroup maps an outlier code and diet_sex_group to the color group.
// Codes 1 to 4 select their outlier group; anything else passes the
// diet_sex_group through.
func ColorGroup(outliers int, dietSexGroup string) string {
	switch outliers {
	case 1:
		return VeganFemaleOutlier
	case 2:
		return VeganMaleOutlier
	case 3:
		return VeggieFemaleOutlier
	case 4:
		return VeggieMaleOutlier
	default:
		return dietSexGroup
	}
}

// Palette is an ordered, immutable color assignment for color groups.
type Palette struct {
	order  []string
	colors map[string]string
}

// NewPalette builds a palette from parallel group and color lists.
func NewPalette(groups, colors []string) Palette {
	p := Palette{
		order:  make([]string, 0, len(groups)),
		colors: make(map[string]string, len(groups)),
	}
	for i, g := range groups {
		if _, dup := p.colors[g]; dup {
			continue
		}
		c := FallbackColor
		if i < len(colors) {
			c = colors[i]
		}
		p.order = append(p.order, g)
		p.colors[g] = c
	}
	return p
}

// DefaultPalette returns the four pastel base groups followed by the four
// outlier groups in red.
func DefaultPalette() Palette {
	return NewPalette(
		[]string{
			VeganFemale, VeganMale, VeggieFemale, VeggieMale,
			VeganFemaleOutlier, VeganMaleOutlier, VeggieFemaleOutlier, VeggieMaleOutlier,
		},
		[]string{
			"#AEC6CF", "#D1C4E9", "#A8E6CF", "#FFD3B6",
			OutlierColor, OutlierColor, OutlierColor, OutlierColor,
		},
	)
}

// Order returns the display order of the known groups.
func (p Palette) Order() []string {
	return append([]string(nil), p.order...)
}

// Color returns the group's color, or FallbackColor.
func (p Palette) Color(group string) string {
	if c, ok := p.colors[group]; ok {
		return c
	}
	return FallbackColor
}

// Has reports whether the palette knows group.
func (p Palette) Has(group string) bool {
	_, ok := p.colors[group]
	return ok
}

// Len returns the number of groups.
func (p Palette) Len() int { return len(p.order) }
