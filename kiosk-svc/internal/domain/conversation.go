package domain

// ConversationState is the wire form of the dialogue flags. The caller stores it between turns
// and echoes it back; nlu.DialogueState is the typed view used by the classifier.
type ConversationState struct {
	LastInquiredCategory      string   `json:"last_inquired_category,omitempty"`
	PresentedStores           []string `json:"presented_stores,omitempty"`
	AwaitingCategorySelection bool     `json:"awaiting_category_selection,omitempty"`
	AwaitingStoreSelection    bool     `json:"awaiting_store_selection,omitempty"`
	PendingItem               string   `json:"pending_item,omitempty"`
	PendingStore              string   `json:"pending_store,omitempty"`
}

func (c ConversationState) IsEmpty() bool {
	return c.LastInquiredCategory == "" &&
		len(c.PresentedStores) == 0 &&
		!c.AwaitingCategorySelection &&
		!c.AwaitingStoreSelection &&
		c.PendingItem == "" &&
		c.PendingStore == ""
}

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type HistoryMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// LastAssistantMessage returns the most recent assistant text in history.
func LastAssistantMessage(history []HistoryMessage) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Sender == SenderAssistant {
			return history[i].Text, true
		}
	}
	return "", false
}
