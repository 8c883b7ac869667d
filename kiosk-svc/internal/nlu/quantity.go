package nlu

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxQuantity = 99

// Quantity reads the amount written next to itemName: "싸이버거 두 개", "2 아메리카노",
// "라떼 세잔". Anything unreadable means 1.
func (l *Lexicon) Quantity(utterance, itemName string) int {
	n, _, _ := l.cutItem(normalize(utterance), strings.ToLower(strings.TrimSpace(itemName)))
	return n
}

// cutItem removes name and the quantity written next to it from text. The
// quantity after the name wins over one before it. ok is false when name does
// not occur in text.
func (l *Lexicon) cutItem(text, name string) (int, string, bool) {
	pos := strings.Index(text, name)
	if name == "" || pos < 0 {
		return 1, text, false
	}
	before, after := text[:pos], text[pos+len(name):]

	trimmed := strings.TrimLeftFunc(after, unicode.IsSpace)
	if n, used, ok := l.leadingQuantity(trimmed); ok {
		return n, before + " " + trimmed[used:], true
	}
	head := strings.TrimRightFunc(before, unicode.IsSpace)
	if n, from, ok := l.trailingQuantity(head); ok {
		return n, head[:from] + " " + after, true
	}
	return 1, before + " " + after, true
}

// leadingQuantity parses a number at the start of s, optionally followed by a
// counter, and reports how many bytes it used. A number glued to any other word
// is not a quantity: "세트" is not "세", "4000원" is a price.
func (l *Lexicon) leadingQuantity(s string) (int, int, bool) {
	token, n, ok := l.numberPrefix(s)
	if !ok {
		return 0, 0, false
	}
	tail := s[len(token):]
	rest := strings.TrimLeftFunc(tail, unicode.IsSpace)
	for _, counter := range l.Counters {
		if counter != "" && strings.HasPrefix(rest, counter) {
			return clamp(n), len(s) - len(rest) + len(counter), true
		}
	}
	if next, _ := utf8.DecodeRuneInString(tail); tail != "" && unicode.IsLetter(next) {
		return 0, 0, false
	}
	return clamp(n), len(token), true
}

// trailingQuantity parses a number at the end of s, optionally followed by a
// counter, and reports the byte offset where it starts.
func (l *Lexicon) trailingQuantity(s string) (int, int, bool) {
	for _, counter := range l.Counters {
		if counter != "" && strings.HasSuffix(s, counter) {
			s = strings.TrimRightFunc(strings.TrimSuffix(s, counter), unicode.IsSpace)
			break
		}
	}
	if s == "" {
		return 0, 0, false
	}

	fields := strings.Fields(s)
	last := fields[len(fields)-1]
	from := strings.LastIndex(s, last)
	if isDigits(last) {
		n, err := strconv.Atoi(last)
		if err != nil {
			return 0, 0, false
		}
		return clamp(n), from, true
	}
	if n, ok := l.QuantityWords[last]; ok {
		return clamp(n), from, true
	}
	return 0, 0, false
}

func (l *Lexicon) numberPrefix(s string) (string, int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end > 0 {
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return "", 0, false
		}
		return s[:end], n, true
	}

	for _, word := range l.sortedQuantityWords() {
		if strings.HasPrefix(s, word) {
			return word, l.QuantityWords[word], true
		}
	}
	return "", 0, false
}

// sortedQuantityWords puts longer words first so "하나" wins over "한".
func (l *Lexicon) sortedQuantityWords() []string {
	words := make([]string, 0, len(l.QuantityWords))
	for word := range l.QuantityWords {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return words
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func clamp(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxQuantity {
		return maxQuantity
	}
	return n
}
