// Package nlu implements the deterministic half of the assistant: keyword
// tables, entity extraction, quantity parsing, the dialogue state machine and
// the ordered intent rules. Nothing here calls the language model.
package nlu

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"ai-kiosk/kiosk-svc/internal/catalog"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

var ErrInvalidLexicon = errors.New("invalid lexicon")

type Lexicon struct {
	Categories    catalog.CategoryTable `yaml:"categories"`
	StoreQuery    []string              `yaml:"store_query"`
	Menu          []string              `yaml:"menu"`
	Finalize      []string              `yaml:"finalize"`
	Affirm        []string              `yaml:"affirm"`
	Order         []string              `yaml:"order"`
	OrderCheck    []string              `yaml:"order_check"`
	Cancel        []string              `yaml:"cancel"`
	Remove        []string              `yaml:"remove"`
	Pickup        []string              `yaml:"pickup"`
	QuantityWords map[string]int        `yaml:"quantity_words"`
	Counters      []string              `yaml:"counters"`
}

// DefaultLexicon parses the embedded table. It panics only if the embedded file is broken.
func DefaultLexicon() *Lexicon {
	lex, err := ParseLexicon(defaultLexicon)
	if err != nil {
		panic(err)
	}
	return lex
}

// LoadLexicon reads an override file, or the embedded table when path is empty.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return ParseLexicon(defaultLexicon)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}
	if len(lex.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidLexicon)
	}
	lex.normalize()
	return &lex, nil
}

func (l *Lexicon) normalize() {
	lists := []*[]string{&l.StoreQuery, &l.Menu, &l.Finalize, &l.Affirm, &l.Order, &l.OrderCheck, &l.Cancel, &l.Remove, &l.Pickup, &l.Counters}
	for _, list := range lists {
		for i, kw := range *list {
			(*list)[i] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	words := make(map[string]int, len(l.QuantityWords))
	for word, n := range l.QuantityWords {
		words[strings.TrimSpace(word)] = n
	}
	l.QuantityWords = words
}

// containsAny reports whether text contains any keyword; text must already be lower-cased.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// firstIndex returns the earliest position of any keyword in text, or -1.
func firstIndex(text string, keywords []string) int {
	best := -1
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if pos := strings.Index(text, kw); pos >= 0 && (best < 0 || pos < best) {
			best = pos
		}
	}
	return best
}
