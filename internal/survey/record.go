// Package survey models the Monte-Carlo diet survey results and labels
// per-grouping water-use outliers.
package survey

import "github.com/KaramelBytes/dietwater/internal/stats"

// Record is one survey row: a (run, grouping, demographic slice) triple.
type Record struct {
	RunID         string       `csv:"mc_run_id"`
	Grouping      string       `csv:"grouping"`
	MeanWatScar   stats.Number `csv:"mean_watscar"`
	MeanWatUse    stats.Number `csv:"mean_watuse"`
	SDWatScar     stats.Number `csv:"sd_watscar"`
	SDWatUse      stats.Number `csv:"sd_watuse"`
	NParticipants stats.Number `csv:"n_participants"`
	Sex           string       `csv:"sex"`
	DietGroup     string       `csv:"diet_group"`
	AgeGroup      string       `csv:"age_group"`
}

// DietSexGroup returns the record's diet_sex_group key.
func (r Record) DietSexGroup() string { return DietSexGroup(r.DietGroup, r.Sex) }

// Labeled is a Record annotated by the outlier labeler.
type Labeled struct {
	Record
	DietSexGroup string `csv:"diet_sex_group"`
	Outliers     int    `csv:"outliers"`
}

// IsOutlier reports whether the row carries a non-zero outlier code.
func (l Labeled) IsOutlier() bool { return l.Outliers != 0 }

// Diet groups kept by the labeler.
const (
	DietVegan  = "vegan"
	DietVeggie = "veggie"
)

// DietSexGroup concatenates a diet group and a sex, e.g. "vegan_female".
func DietSexGroup(diet, sex string) string {
	return diet + "_" + sex
}

// OutlierCodes maps a diet_sex_group to its non-zero outlier code.
// The zero value maps every group to 0.
type OutlierCodes struct {
	codes map[string]int
}

// NewOutlierCodes builds an immutable mapping from m.
func NewOutlierCodes(m map[string]int) OutlierCodes {
	cp := make(map[string]int, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return OutlierCodes{codes: cp}
}

// DefaultOutlierCodes returns the four vegan/veggie x female/male codes.
func DefaultOutlierCodes() OutlierCodes {
	return NewOutlierCodes(map[string]int{
		"vegan_female":  1,
		"vegan_male":    2,
		"veggie_female": 3,
		"veggie_male":   4,
	})
}

// Code returns the code for group, or 0 when the group is unmapped.
func (c OutlierCodes) Code(group string) int {
	return c.codes[group]
}
