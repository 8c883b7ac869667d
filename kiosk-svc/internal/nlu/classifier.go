package nlu

import (
	"strings"
	"unicode"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"
)

type Intent string

const (
	IntentFindStoresByCategory Intent = "find_stores_by_category"
	IntentListMenuByStore      Intent = "list_menu_by_store"
	IntentClarifyCategory      Intent = "clarify_category"
	IntentClarifyStore         Intent = "clarify_store"
	IntentFinalizeOrder        Intent = "finalize_order"
	IntentCancelOrder          Intent = "cancel_order"
	IntentShowOrder            Intent = "show_order"
	IntentPickupTime           Intent = "pickup_time"
	IntentRemoveItem           Intent = "remove_item"
	IntentAffirm               Intent = "affirm"
	IntentOrderFood            Intent = "order_food"
	IntentGeneralQuery         Intent = "general_query"
)

// Structured reports whether the intent has a deterministic handler.
func (i Intent) Structured() bool {
	return i != IntentGeneralQuery && i != ""
}

type Input struct {
	Utterance string
	Entities  Entities
	State     DialogueState
	History   []domain.HistoryMessage
	// CurrentStore is the store of the caller's open order, if any.
	CurrentStore string
}

// ItemRequest is one menu item named in an order, with the amount asked for.
type ItemRequest struct {
	Item     domain.MenuItem
	Quantity int
}

type Resolution struct {
	Intent   Intent
	Entities Entities
	// Item is set for remove_item when the item was recognised.
	Item    domain.MenuItem
	HasItem bool
	// Items holds every item of an order_food utterance, in the order they were matched.
	Items []ItemRequest
	// Next is the dialogue state after the rule fired; handlers may move it further.
	Next DialogueState
}

type Classifier struct {
	lexicon *Lexicon
}

func NewClassifier(lexicon *Lexicon) *Classifier {
	return &Classifier{lexicon: lexicon}
}

// Classify applies the rules in fixed order; the first match wins.
func (c *Classifier) Classify(in Input, index *catalog.Index) Resolution {
	text := normalize(in.Utterance)
	ent := in.Entities
	res := Resolution{Entities: ent, Next: in.State}
	lex := c.lexicon

	switch {
	case in.State.Phase == PhaseAwaitingCategory && ent.HasCategory():
		res.Intent = IntentFindStoresByCategory
		res.Next = in.State.Settle()
	case in.State.Phase == PhaseAwaitingStore && ent.HasStore():
		res.Intent = IntentListMenuByStore
		res.Next = in.State.Settle()
	case ent.HasCategory() && containsAny(text, lex.StoreQuery):
		res.Intent = IntentFindStoresByCategory
	case ent.HasStore() && containsAny(text, lex.Menu):
		res.Intent = IntentListMenuByStore
	case !ent.HasStore() && containsAny(text, lex.StoreQuery):
		res.Intent = IntentClarifyCategory
	case containsAny(text, lex.Menu):
		res.Intent = IntentClarifyStore
		if in.CurrentStore != "" {
			res.Intent = IntentListMenuByStore
			res.Entities.StoreName = in.CurrentStore
		}
	case containsAny(text, lex.Cancel):
		res.Intent = IntentCancelOrder
	case containsAny(text, lex.Finalize):
		res.Intent = IntentFinalizeOrder
	case containsAny(text, lex.OrderCheck):
		res.Intent = IntentShowOrder
	case containsAny(text, lex.Pickup):
		res.Intent = IntentPickupTime
	case containsAny(text, lex.Remove):
		res.Intent = IntentRemoveItem
		res.Item, res.HasItem = index.FindItemInText(text, in.CurrentStore)
		if !res.HasItem {
			res.Item, res.HasItem = index.FindItemInText(text, "")
		}
	case c.isAffirmation(text):
		res.Intent = IntentAffirm
	default:
		if items := c.matchItems(text, ent, index); len(items) > 0 {
			res.Intent = IntentOrderFood
			res.Items = items
			res.Next = in.State.Settle()
			break
		}
		res.Intent = IntentGeneralQuery
	}
	return res
}

// matchItems takes menu items out of the utterance longest name first, each
// with the quantity written next to it, so "참치김밥" is consumed before "김밥"
// could match inside it. Later items must come from the store of the first.
// Without a full name it tries the span before an order keyword.
func (c *Classifier) matchItems(text string, ent Entities, index *catalog.Index) []ItemRequest {
	var items []ItemRequest
	seen := make(map[int]bool)
	store := ent.StoreName
	rest := text
	for {
		item, ok := index.FindItemInText(rest, store)
		if !ok || seen[item.ID] {
			break
		}
		quantity, remaining, cut := c.lexicon.cutItem(rest, strings.ToLower(item.Name))
		items = append(items, ItemRequest{Item: item, Quantity: quantity})
		if !cut {
			// Matched with spaces ignored; the span cannot be located to remove it.
			break
		}
		seen[item.ID] = true
		store = item.StoreName
		rest = remaining
	}
	if len(items) > 0 {
		return items
	}

	if item, quantity, ok := c.matchSpan(text, ent, index); ok {
		return []ItemRequest{{Item: item, Quantity: quantity}}
	}
	return nil
}

func (c *Classifier) matchSpan(text string, ent Entities, index *catalog.Index) (domain.MenuItem, int, bool) {
	if pos := firstIndex(text, c.lexicon.Order); pos > 0 {
		span, tail := c.splitQuantity(strings.TrimSpace(text[:pos]))
		if ent.HasStore() {
			span = strings.TrimSpace(strings.Replace(span, strings.ToLower(ent.StoreName), "", 1))
		}
		if len([]rune(span)) >= 2 {
			if item, ok := index.FindItemByName(span, catalog.MatchSubstring, ent.StoreName); ok {
				quantity, _, found := c.lexicon.leadingQuantity(tail)
				if !found {
					quantity = 1
				}
				return item, quantity, true
			}
		}
	}

	item, ok := index.FindItemByName(text, catalog.MatchExact, ent.StoreName)
	return item, 1, ok
}

// splitQuantity separates a trailing "두 개" or "2잔" from a span.
func (c *Classifier) splitQuantity(span string) (string, string) {
	fields := strings.Fields(span)
	cut := len(fields)
	for cut > 1 {
		trimmed := fields[cut-1]
		for _, counter := range c.lexicon.Counters {
			trimmed = strings.TrimSuffix(trimmed, counter)
		}
		_, isWord := c.lexicon.QuantityWords[trimmed]
		if trimmed != "" && !isDigits(trimmed) && !isWord {
			break
		}
		cut--
	}
	return strings.Join(fields[:cut], " "), strings.Join(fields[cut:], " ")
}

// isAffirmation matches whole words only, so the "네" in "네 개" or "ok" in "cook"
// do not count. A trailing polite ending is allowed: "좋아요", "네요".
func (c *Classifier) isAffirmation(text string) bool {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if len(words) == 0 || len(words) > 4 {
		return false
	}
	for i, word := range words {
		if i+1 < len(words) && c.isCounter(words[i+1]) {
			continue
		}
		for _, kw := range c.lexicon.Affirm {
			if word == kw || word == kw+"요" {
				return true
			}
		}
	}
	return false
}

func (c *Classifier) isCounter(word string) bool {
	for _, counter := range c.lexicon.Counters {
		if counter != "" && strings.HasPrefix(word, counter) {
			return true
		}
	}
	return false
}
