package llm

import (
	"strings"

	"ai-kiosk/kiosk-svc/internal/domain"
)

const SystemInstruction = `당신은 음식 주문 키오스크의 AI 점원입니다. 한국어로 짧고 친절하게 답하세요.
아래 "가게 및 메뉴 정보"에 있는 가게와 메뉴만 안내하고, 없는 메뉴나 가격을 지어내지 마세요.
가격을 안내할 때는 "<가게>의 <메뉴>은(는) <가격>원입니다. 주문하시겠어요?" 형식을 사용하세요.

항상 JSON 객체 하나로만 응답하세요:
{"reply": "고객에게 보여줄 문장", "action": "add_to_cart", "item_name": "정확한 메뉴 이름", "store_name": "가게 이름"}
- 고객이 특정 메뉴를 담아 달라고 분명히 요청한 경우에만 action을 "add_to_cart"로 설정하세요.
- 그 외에는 action, item_name, store_name을 생략하고 reply만 채우세요.`

// BuildMessages assembles the system instruction, the catalog digest, the prior turns and the new utterance.
func BuildMessages(digest string, history []domain.HistoryMessage, utterance string) []Message {
	messages := make([]Message, 0, len(history)+3)
	messages = append(messages, Message{Role: RoleSystem, Content: SystemInstruction})
	if strings.TrimSpace(digest) != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: "가게 및 메뉴 정보:\n" + digest})
	}
	for _, turn := range history {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		role := RoleUser
		if turn.Sender == domain.SenderAssistant {
			role = RoleAssistant
		}
		messages = append(messages, Message{Role: role, Content: text})
	}
	return append(messages, Message{Role: RoleUser, Content: utterance})
}
