package food

import "strings"

// Keywords is a case-insensitive allow-list of food categories.
type Keywords struct {
	lower []string
}

// NewKeywords builds a keyword set. Blank entries are ignored.
func NewKeywords(words ...string) Keywords {
	k := Keywords{lower: make([]string, 0, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			k.lower = append(k.lower, w)
		}
	}
	return k
}

// DefaultKeywords returns the vegan and vegetarian food categories.
func DefaultKeywords() Keywords {
	return NewKeywords(
		"Apple", "Bananas", "Barley (Beer)", "Beet Sugar", "Berries & Grapes", "Brassicas",
		"Cane Sugar", "Cassava", "Cheese", "Citrus Fruit", "Coffee", "Dark Chocolate", "Groundnuts",
		"Maize (Meal)", "Milk", "Nuts", "Oatmeal", "Olive Oil", "Onions & Leeks", "Other Fruit",
		"Other Pulses", "Other Vegetables", "Palm Oil", "Peas", "Potatoes", "Rapeseed Oil",
		"Rice", "Root Vegetables", "Soybean Oil", "Soymilk", "Sunflower Oil", "Tofu", "Tomatoes",
		"Wheat & Rye (Bread)", "Wine",
	)
}

// Len returns the number of keywords.
func (k Keywords) Len() int { return len(k.lower) }

// Match reports whether name contains any keyword, ignoring case.
// Keywords are literal text, so parentheses and '&' need no escaping.
func (k Keywords) Match(name string) bool {
	name = strings.ToLower(name)
	for _, w := range k.lower {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}
