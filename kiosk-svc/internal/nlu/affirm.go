package nlu

import (
	"regexp"
	"strings"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"
)

var (
	// "맘스터치 강남점의 싸이버거는 4,000원입니다. 주문하시겠어요?"
	offerKorean = regexp.MustCompile(`(.+?)의\s+(.+?)(?:은\(는\)|은|는)\s+([\d,]+(?:\.\d+)?)\s*원`)
	// "Mom's Touch's Thigh Burger is 4000 won; would you like to order?"
	offerEnglish = regexp.MustCompile(`(?i)(.+)'s\s+(.+?)\s+is\s+(?:₩\s*)?([\d,]+(?:\.\d+)?)`)
)

// Offer is an item the assistant proposed and the user may accept.
type Offer struct {
	Item domain.MenuItem
}

// ResolveAffirmation decides what a "yes" refers to: the pending order
// confirmation if one is open, otherwise an offer in the last assistant message.
func ResolveAffirmation(state DialogueState, history []domain.HistoryMessage, index *catalog.Index) (Offer, bool) {
	if state.Phase == PhaseAwaitingOrderConfirmation && state.PendingItem != "" {
		if item, ok := index.FindItemByName(state.PendingItem, catalog.MatchExact, state.PendingStore); ok {
			return Offer{Item: item}, true
		}
	}

	last, ok := domain.LastAssistantMessage(history)
	if !ok {
		return Offer{}, false
	}
	return FindOffer(last, index)
}

// FindOffer extracts "<store>'s <item> is <price>" from assistant text and checks it against the catalog.
func FindOffer(text string, index *catalog.Index) (Offer, bool) {
	for _, pattern := range []*regexp.Regexp{offerKorean, offerEnglish} {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			storePart, itemPart := strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
			store := storeSuffix(storePart, index)
			if store == "" {
				continue
			}
			if item, ok := index.FindItemByName(itemPart, catalog.MatchExact, store); ok {
				return Offer{Item: item}, true
			}
		}
	}
	return Offer{}, false
}

// storeSuffix returns the catalog store whose name (or brand) ends the captured span.
func storeSuffix(span string, index *catalog.Index) string {
	lowered := strings.ToLower(span)
	best := ""
	bestLen := 0
	for _, name := range index.StoreNames() {
		full := strings.ToLower(name)
		brand, _, _ := strings.Cut(full, " ")
		for _, candidate := range []string{full, brand} {
			if candidate != "" && strings.HasSuffix(lowered, candidate) && len(candidate) > bestLen {
				best, bestLen = name, len(candidate)
			}
		}
	}
	return best
}
