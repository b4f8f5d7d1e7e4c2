package stats

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloat parses a numeric cell leniently. It trims spaces (including
// non-breaking ones), drops a percent sign and strips thousands separators.
// The percent sign is removed without scaling; callers decide what it means.
func ParseFloat(s string) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	// "1,234.5" style: the last separator is the decimal one
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	case cpos >= 0 && dpos >= 0:
		raw = strings.ReplaceAll(raw, ",", "")
	case cpos >= 0:
		raw = strings.ReplaceAll(raw, ",", "")
	}
	raw = strings.ReplaceAll(raw, " ", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// OrZero parses s with ParseFloat and falls back to 0.
func OrZero(s string) float64 {
	f, _ := ParseFloat(s)
	return f
}

// Number is a float64 CSV cell that never fails to decode: empty or malformed
// input becomes 0.
type Number float64

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Number) UnmarshalText(b []byte) error {
	*n = Number(OrZero(string(b)))
	return nil
}

// MarshalText implements encoding.TextMarshaler using the shortest decimal form.
func (n Number) MarshalText() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

// Float returns n as a float64.
func (n Number) Float() float64 { return float64(n) }
