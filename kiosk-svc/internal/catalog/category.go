package catalog

import "strings"

// Category maps a coarse food category to the name fragments that imply it.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// CategoryTable is ordered; earlier rows win ties of equal keyword length.
type CategoryTable []Category

// Infer derives the category of a menu item from its display name.
func (t CategoryTable) Infer(itemName string) (string, bool) {
	category, _, ok := t.Match(itemName)
	return category, ok
}

// Match returns the category whose keyword is the longest substring of text.
func (t CategoryTable) Match(text string) (category, keyword string, ok bool) {
	lowered := strings.ToLower(text)
	for _, row := range t {
		for _, kw := range row.Keywords {
			kw = strings.ToLower(kw)
			if kw == "" || !strings.Contains(lowered, kw) {
				continue
			}
			if !ok || len(kw) > len(keyword) {
				category, keyword, ok = row.Name, kw, true
			}
		}
	}
	return category, keyword, ok
}

// Names lists the categories in table order.
func (t CategoryTable) Names() []string {
	names := make([]string, 0, len(t))
	for _, row := range t {
		names = append(names, row.Name)
	}
	return names
}

func (t CategoryTable) Has(name string) bool {
	for _, row := range t {
		if row.Name == name {
			return true
		}
	}
	return false
}
