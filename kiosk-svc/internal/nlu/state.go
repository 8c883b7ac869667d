package nlu

import "ai-kiosk/kiosk-svc/internal/domain"

// Phase is what the assistant is waiting for from the next utterance.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingCategory
	PhaseAwaitingStore
	PhaseAwaitingOrderConfirmation
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingCategory:
		return "awaiting_category"
	case PhaseAwaitingStore:
		return "awaiting_store"
	case PhaseAwaitingOrderConfirmation:
		return "awaiting_order_confirmation"
	default:
		return "idle"
	}
}

// DialogueState is the typed view of domain.ConversationState. Only one phase
// is active at a time; PendingItem and PendingStore are meaningful only while
// awaiting an order confirmation.
type DialogueState struct {
	Phase           Phase
	LastCategory    string
	PresentedStores []string
	PendingItem     string
	PendingStore    string
}

// FromConversation reads the wire flags. If a client sends both awaiting flags,
// category selection takes precedence, matching the rule order.
func FromConversation(c domain.ConversationState) DialogueState {
	state := DialogueState{
		LastCategory:    c.LastInquiredCategory,
		PresentedStores: append([]string(nil), c.PresentedStores...),
	}
	switch {
	case c.AwaitingCategorySelection:
		state.Phase = PhaseAwaitingCategory
	case c.AwaitingStoreSelection:
		state.Phase = PhaseAwaitingStore
	case c.PendingItem != "":
		state.Phase = PhaseAwaitingOrderConfirmation
		state.PendingItem = c.PendingItem
		state.PendingStore = c.PendingStore
	}
	return state
}

func (s DialogueState) Conversation() domain.ConversationState {
	c := domain.ConversationState{
		LastInquiredCategory: s.LastCategory,
		PresentedStores:      append([]string(nil), s.PresentedStores...),
	}
	switch s.Phase {
	case PhaseAwaitingCategory:
		c.AwaitingCategorySelection = true
	case PhaseAwaitingStore:
		c.AwaitingStoreSelection = true
	case PhaseAwaitingOrderConfirmation:
		c.PendingItem = s.PendingItem
		c.PendingStore = s.PendingStore
	}
	return c
}

// Reset is the state after a menu is shown, an order is finalized, or a lookup fails.
func Reset() DialogueState {
	return DialogueState{}
}

func (s DialogueState) AskCategory() DialogueState {
	return DialogueState{Phase: PhaseAwaitingCategory}
}

// AskStore keeps the category context so a later store pick can be explained.
func (s DialogueState) AskStore(category string, presented []string) DialogueState {
	return DialogueState{
		Phase:           PhaseAwaitingStore,
		LastCategory:    category,
		PresentedStores: append([]string(nil), presented...),
	}
}

func (s DialogueState) AskOrderConfirmation(item, store string) DialogueState {
	return DialogueState{
		Phase:           PhaseAwaitingOrderConfirmation,
		LastCategory:    s.LastCategory,
		PresentedStores: s.PresentedStores,
		PendingItem:     item,
		PendingStore:    store,
	}
}

// Settle drops any awaiting phase but keeps the browsing context.
func (s DialogueState) Settle() DialogueState {
	return DialogueState{LastCategory: s.LastCategory, PresentedStores: s.PresentedStores}
}
