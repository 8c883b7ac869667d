package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/kiosk-svc/internal/service"
)

// session carries what a browser client would keep between turns.
type session struct {
	history []domain.HistoryMessage
	order   *domain.OrderSnapshot
	state   domain.ConversationState
}

func (s *session) request(message string) domain.TurnRequest {
	return domain.TurnRequest{
		Message:           message,
		History:           s.history,
		CurrentState:      s.order,
		ConversationState: s.state,
	}
}

func (s *session) apply(message string, resp domain.TurnResponse) {
	s.history = append(s.history,
		domain.HistoryMessage{Sender: domain.SenderUser, Text: message},
		domain.HistoryMessage{Sender: domain.SenderAssistant, Text: resp.Reply},
	)
	order := resp.CurrentOrder
	s.order = &order
	s.state = resp.ConversationState
}

// runChat reads one utterance per line until EOF or "exit".
func runChat(ctx context.Context, dialogue service.DialogueServiceInterface, in io.Reader, out io.Writer) error {
	s := &session{}
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			fmt.Fprint(out, "> ")
			continue
		case "exit", "quit":
			return nil
		}

		resp, err := dialogue.HandleTurn(ctx, s.request(line))
		if err != nil {
			fmt.Fprintf(out, "error: %v\n> ", err)
			continue
		}
		s.apply(line, resp)

		fmt.Fprintln(out, resp.Reply)
		if resp.CurrentOrder.OrderID != 0 {
			fmt.Fprintf(out, "  [%s #%d %s원 %s]\n", resp.CurrentOrder.StoreName, resp.CurrentOrder.OrderID,
				resp.CurrentOrder.TotalPrice, resp.CurrentOrder.Status)
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
