package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/kiosk-svc/internal/llm"
	"ai-kiosk/kiosk-svc/internal/nlu"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	replyGreeting = "안녕하세요! AI 키오스크입니다. 무엇을 도와드릴까요? (예: 버거 가게 어디야, 메뉴 보여줘)"
	replyUnknown  = "죄송합니다. 무슨 말씀이신지 잘 모르겠어요."
)

// DialogueService runs one turn: extraction, classification, the structured
// handlers, and the language-model fallback for everything else.
type DialogueService struct {
	catalog    CatalogServiceInterface
	cart       CartServiceInterface
	model      llm.ChatModel
	popularity PopularityReader
	extractor  *nlu.Extractor
	classifier *nlu.Classifier
	logger     *zap.SugaredLogger
}

// NewDialogueService accepts a nil model (no fallback) and a nil popularity reader.
func NewDialogueService(
	catalogSvc CatalogServiceInterface,
	cart CartServiceInterface,
	model llm.ChatModel,
	popularity PopularityReader,
	lexicon *nlu.Lexicon,
	logger *zap.SugaredLogger,
) *DialogueService {
	return &DialogueService{
		catalog:    catalogSvc,
		cart:       cart,
		model:      model,
		popularity: popularity,
		extractor:  nlu.NewExtractor(lexicon),
		classifier: nlu.NewClassifier(lexicon),
		logger:     logger,
	}
}

type turn struct {
	id        string
	utterance string
	history   []domain.HistoryMessage
	current   domain.OrderSnapshot
	state     nlu.DialogueState
	index     *catalog.Index
	entities  nlu.Entities
}

type outcome struct {
	reply    string
	snapshot domain.OrderSnapshot
	state    nlu.DialogueState
}

func (d *DialogueService) HandleTurn(ctx context.Context, req domain.TurnRequest) (domain.TurnResponse, error) {
	t, err := d.begin(ctx, req.Message, req.History, req.CurrentState, req.ConversationState)
	if err != nil {
		return domain.TurnResponse{}, err
	}

	started := time.Now()
	res, out, handled, err := d.structured(ctx, t)
	if err == nil && !handled {
		out, err = d.fallback(ctx, t)
	}
	d.logger.Infow("turn handled",
		"turn_id", t.id,
		"intent", res.Intent,
		"store", t.entities.StoreName,
		"category", t.entities.Category,
		"fallback", !handled,
		"latency_ms", time.Since(started).Milliseconds(),
		"error", err,
	)
	if err != nil {
		return domain.TurnResponse{}, err
	}

	return domain.TurnResponse{
		Reply:             out.reply,
		CurrentOrder:      out.snapshot,
		ConversationState: out.state.Conversation(),
	}, nil
}

// HandleCommand never calls the language model and folds failures into the reply.
func (d *DialogueService) HandleCommand(ctx context.Context, req domain.CommandRequest) (domain.CommandResponse, error) {
	current := req.CurrentState.OrDefault()
	t, err := d.begin(ctx, req.Message, nil, req.CurrentState, domain.ConversationState{})
	if errors.Is(err, ErrMissingInput) {
		return domain.CommandResponse{}, err
	}
	if err != nil {
		return domain.CommandResponse{Reply: failureReply(err), CurrentOrder: current}, nil
	}

	res, out, handled, err := d.structured(ctx, t)
	d.logger.Infow("command handled", "turn_id", t.id, "intent", res.Intent, "handled", handled, "error", err)
	switch {
	case err != nil:
		return domain.CommandResponse{Reply: failureReply(err), CurrentOrder: current}, nil
	case !handled && current.HasOrder():
		return domain.CommandResponse{Reply: replyUnknown, CurrentOrder: current}, nil
	case !handled:
		return domain.CommandResponse{Reply: replyGreeting, CurrentOrder: current}, nil
	}
	return domain.CommandResponse{Reply: out.reply, CurrentOrder: out.snapshot}, nil
}

func failureReply(err error) string {
	return "주문 처리 중 오류가 발생했습니다: " + err.Error()
}

func (d *DialogueService) begin(ctx context.Context, message string, history []domain.HistoryMessage, current *domain.OrderSnapshot, conv domain.ConversationState) (turn, error) {
	utterance := strings.TrimSpace(message)
	if utterance == "" {
		return turn{}, ErrMissingInput
	}
	index, err := d.catalog.Index(ctx)
	if err != nil {
		return turn{}, err
	}
	return turn{
		id:        uuid.NewString(),
		utterance: utterance,
		history:   history,
		current:   current.OrDefault(),
		state:     nlu.FromConversation(conv),
		index:     index,
		entities:  d.extractor.Extract(utterance, index.StoreNames()),
	}, nil
}

// openStore is the store of the caller's order while it can still take items.
func (t turn) openStore() string {
	if t.current.HasOrder() && (t.current.Status == "" || t.current.Status.Open()) {
		return t.current.StoreName
	}
	return ""
}

// structured runs the deterministic handler for the classified intent. handled
// is false when the turn must go to the fallback.
func (d *DialogueService) structured(ctx context.Context, t turn) (nlu.Resolution, outcome, bool, error) {
	res := d.classifier.Classify(nlu.Input{
		Utterance:    t.utterance,
		Entities:     t.entities,
		State:        t.state,
		History:      t.history,
		CurrentStore: t.openStore(),
	}, t.index)

	out := outcome{snapshot: t.current, state: res.Next}
	next := res.Next
	var call func() (CartResult, error)

	switch res.Intent {
	case nlu.IntentFindStoresByCategory:
		out.reply, out.state = d.storesByCategory(t.index, res.Entities.Category, res.Next)
	case nlu.IntentListMenuByStore:
		out.reply, out.state = d.menuByStore(t.index, res.Entities.StoreName)
	case nlu.IntentClarifyCategory:
		out.reply = fmt.Sprintf("어떤 음식을 파는 가게를 찾으시나요? (예: %s)", strings.Join(firstN(t.index.Categories(), 3), ", "))
		out.state = res.Next.AskCategory()
	case nlu.IntentClarifyStore:
		out.reply = fmt.Sprintf("어떤 가게의 메뉴를 보고 싶으신가요? (%s)", strings.Join(t.index.StoreNames(), ", "))
		out.state = res.Next.AskStore(res.Next.LastCategory, t.index.StoreNames())
	case nlu.IntentFinalizeOrder:
		next = nlu.Reset()
		call = func() (CartResult, error) { return d.cart.Finalize(ctx, t.current) }
	case nlu.IntentCancelOrder:
		next = nlu.Reset()
		call = func() (CartResult, error) { return d.cart.Cancel(ctx, t.current) }
	case nlu.IntentShowOrder:
		call = func() (CartResult, error) { return d.cart.Summary(ctx, t.current) }
	case nlu.IntentPickupTime:
		out.reply = pickupReply(t.current)
	case nlu.IntentRemoveItem:
		if !res.HasItem {
			out.reply = "어떤 항목을 빼드릴까요?"
			break
		}
		call = func() (CartResult, error) { return d.cart.RemoveItem(ctx, res.Item, t.current) }
	case nlu.IntentAffirm:
		offer, ok := nlu.ResolveAffirmation(t.state, t.history, t.index)
		if !ok {
			res.Intent = nlu.IntentGeneralQuery
			return res, outcome{}, false, nil
		}
		next = t.state.Settle()
		call = func() (CartResult, error) {
			return d.cart.AddItem(ctx, t.index, AddItemRequest{
				ItemName: offer.Item.Name, StoreName: offer.Item.StoreName, Quantity: 1, Current: t.current,
			})
		}
	case nlu.IntentOrderFood:
		reqs := make([]AddItemRequest, 0, len(res.Items))
		for _, wanted := range res.Items {
			reqs = append(reqs, AddItemRequest{ItemName: wanted.Item.Name, StoreName: wanted.Item.StoreName, Quantity: wanted.Quantity})
		}
		call = func() (CartResult, error) { return d.cart.AddItems(ctx, t.index, t.current, reqs) }
	default:
		return res, outcome{}, false, nil
	}

	if call != nil {
		var err error
		out, err = d.cartOutcome(out, next, call)
		return res, out, true, err
	}
	return res, out, true, nil
}

// cartOutcome converts cart errors into replies. Only upstream failures escape.
func (d *DialogueService) cartOutcome(out outcome, next nlu.DialogueState, call func() (CartResult, error)) (outcome, error) {
	result, err := call()
	switch {
	case err == nil:
		return outcome{reply: result.Message, snapshot: result.Snapshot, state: next}, nil
	case errors.Is(err, ErrItemNotFound):
		out.reply = "죄송하지만, 요청하신 메뉴를 찾을 수 없습니다."
	case errors.Is(err, ErrNoActiveOrder):
		out.reply = "현재 진행 중인 주문이 없습니다. 먼저 메뉴를 주문해 주세요."
	case errors.Is(err, ErrNothingToPay):
		out.reply = "주문하신 내역이 없어 결제를 진행할 수 없습니다."
	default:
		return outcome{}, err
	}
	d.logger.Debugw("cart request rejected", "reason", err)
	return out, nil
}

// pickupReply answers from the snapshot: a completed order keeps its pickup time there.
func pickupReply(current domain.OrderSnapshot) string {
	switch {
	case current.Status == domain.OrderCompleted && current.PickupTime != "":
		return fmt.Sprintf("주문하신 상품은 %s에 픽업 가능합니다.", current.PickupTime)
	case current.HasOrder() && len(current.Items) > 0:
		return "아직 결제가 완료되지 않았습니다. 결제를 먼저 진행해주세요."
	}
	return "현재 진행 중인 주문이 없습니다. 무엇을 도와드릴까요?"
}

func (d *DialogueService) storesByCategory(index *catalog.Index, category string, next nlu.DialogueState) (string, nlu.DialogueState) {
	stores := index.StoresByCategory(category)
	if len(stores) == 0 {
		d.logger.Debugw("category lookup empty", "category", category, "reason", ErrNoMatchingStores)
		return fmt.Sprintf("죄송합니다. 현재 %s 메뉴를 파는 가게가 없습니다.", category), nlu.Reset()
	}
	names := make([]string, 0, len(stores))
	for _, store := range stores {
		names = append(names, store.Name)
	}
	reply := fmt.Sprintf("%s 메뉴가 있는 가게는 %s입니다. 어느 가게를 이용하시겠어요?", category, strings.Join(names, ", "))
	return reply, next.AskStore(category, names)
}

func (d *DialogueService) menuByStore(index *catalog.Index, storeName string) (string, nlu.DialogueState) {
	menu := index.MenuByStore(storeName)
	if len(menu) == 0 {
		d.logger.Debugw("store lookup empty", "store", storeName, "reason", ErrStoreNotFound)
		return fmt.Sprintf("죄송합니다. '%s' 가게의 메뉴를 찾을 수 없습니다.", storeName), nlu.Reset()
	}
	entries := make([]string, 0, len(menu))
	for _, item := range menu {
		entries = append(entries, fmt.Sprintf("%s (%s원)", item.Name, item.Price))
	}
	return fmt.Sprintf("%s의 메뉴는 %s 입니다. 무엇을 주문하시겠어요?", storeName, strings.Join(entries, ", ")), nlu.Reset()
}

// fallback asks the language model. Any cart action it returns is applied only
// after the completion succeeded.
func (d *DialogueService) fallback(ctx context.Context, t turn) (outcome, error) {
	out := outcome{snapshot: t.current, state: t.state.Settle()}
	if d.model == nil {
		out.reply = replyUnknown
		return out, nil
	}

	digest := d.digest(ctx, t.index, t.entities, t.utterance)
	raw, err := d.model.Complete(ctx, llm.BuildMessages(digest, t.history, t.utterance))
	if err != nil {
		return outcome{}, fmt.Errorf("%w: language model: %v", ErrUpstream, err)
	}

	parsed, err := llm.ParseModelOutput(raw)
	if err != nil {
		d.logger.Warnw("model output rejected, showing raw text", "turn_id", t.id, "error", err)
		out.reply = strings.TrimSpace(raw)
		return out, nil
	}
	out.reply = parsed.Reply

	if parsed.AddsToCart() {
		result, err := d.cart.AddItem(ctx, t.index, AddItemRequest{
			ItemName:  parsed.ItemName,
			StoreName: parsed.StoreName,
			Quantity:  1,
			Current:   t.current,
		})
		switch {
		case errors.Is(err, ErrItemNotFound):
			out.reply = fmt.Sprintf("죄송하지만, '%s' 메뉴를 찾을 수 없습니다.", parsed.ItemName)
		case err != nil:
			return outcome{}, err
		default:
			out.snapshot = result.Snapshot
		}
		return out, nil
	}

	if offer, ok := nlu.FindOffer(out.reply, t.index); ok {
		out.state = out.state.AskOrderConfirmation(offer.Item.Name, offer.Item.StoreName)
	}
	return out, nil
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
