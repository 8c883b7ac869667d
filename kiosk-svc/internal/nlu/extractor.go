package nlu

import "strings"

type Entities struct {
	StoreName string `json:"store_name,omitempty"`
	Category  string `json:"category,omitempty"`
}

func (e Entities) HasStore() bool    { return e.StoreName != "" }
func (e Entities) HasCategory() bool { return e.Category != "" }

// Extractor finds at most one store and one category in an utterance.
// When several candidates occur, the longest one wins; equal lengths fall back to
// catalog order for stores and table order for categories.
type Extractor struct {
	lexicon *Lexicon
}

func NewExtractor(lexicon *Lexicon) *Extractor {
	return &Extractor{lexicon: lexicon}
}

func (e *Extractor) Extract(utterance string, storeNames []string) Entities {
	text := normalize(utterance)

	var (
		entities Entities
		bestLen  int
	)
	for _, name := range storeNames {
		matched := matchStore(text, name)
		if matched > bestLen {
			entities.StoreName = name
			bestLen = matched
		}
	}

	if category, _, ok := e.lexicon.Categories.Match(text); ok {
		entities.Category = category
	}
	return entities
}

// matchStore returns the length of the matched span: the full store name, or its
// brand (first word) when the name has a branch suffix such as "맘스터치 강남점".
func matchStore(text, storeName string) int {
	full := strings.ToLower(strings.TrimSpace(storeName))
	if full == "" {
		return 0
	}
	if strings.Contains(text, full) {
		return len(full)
	}
	brand, _, hasBranch := strings.Cut(full, " ")
	if hasBranch && len([]rune(brand)) >= 2 && strings.Contains(text, brand) {
		return len(brand)
	}
	return 0
}

func normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}
