package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/kiosk-svc/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalogSkipsExistingStores(t *testing.T) {
	catalogSvc := new(mocks.CatalogServiceInterface)
	catalogSvc.On("ListStores", mock.Anything).Return([]domain.Store{{ID: 1, Name: "김밥천국 중앙점"}}, nil).Once()
	catalogSvc.On("CreateStore", mock.Anything, mock.MatchedBy(func(s *domain.Store) bool {
		return s.Name == "스타벅스 강남점"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Store).ID = 7
	}).Return(nil).Once()
	catalogSvc.On("CreateMenuItem", mock.Anything, mock.MatchedBy(func(item *domain.MenuItem) bool {
		return item.StoreID == 7 && item.Price == domain.Won(4100)
	})).Return(nil).Once()

	stores := []seedStore{
		demoCatalog[0],
		{Name: "스타벅스 강남점", Menu: []seedItem{{"아메리카노", 4100}}},
	}
	created, err := seedCatalog(context.Background(), catalogSvc, stores)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	catalogSvc.AssertExpectations(t)
}

func TestSeedCatalogStopsOnError(t *testing.T) {
	catalogSvc := new(mocks.CatalogServiceInterface)
	catalogSvc.On("ListStores", mock.Anything).Return([]domain.Store{}, nil).Once()
	catalogSvc.On("CreateStore", mock.Anything, mock.Anything).Return(errors.New("duplicate key")).Once()

	created, err := seedCatalog(context.Background(), catalogSvc, demoCatalog)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), demoCatalog[0].Name)
	assert.Equal(t, 0, created)
	catalogSvc.AssertExpectations(t)
}

func TestDemoCatalogHasBurgerStore(t *testing.T) {
	var names []string
	for _, store := range demoCatalog {
		names = append(names, store.Name)
		assert.NotEmpty(t, store.Menu, store.Name)
	}
	assert.Contains(t, names, "맘스터치 강남점")
}

func TestRunChatCarriesSessionBetweenTurns(t *testing.T) {
	dialogue := new(mocks.DialogueServiceInterface)

	first := domain.TurnResponse{
		Reply: "싸이버거 1개를 주문에 추가했습니다.",
		CurrentOrder: domain.OrderSnapshot{
			OrderID:    5,
			StoreName:  "맘스터치 강남점",
			Items:      []domain.SnapshotItem{{Name: "싸이버거", Quantity: 1, Price: domain.Won(4000)}},
			TotalPrice: domain.Won(4000),
			Status:     domain.OrderPending,
		},
	}
	dialogue.On("HandleTurn", mock.Anything, mock.MatchedBy(func(req domain.TurnRequest) bool {
		return req.Message == "싸이버거 줘" && req.CurrentState == nil
	})).Return(first, nil).Once()
	dialogue.On("HandleTurn", mock.Anything, mock.MatchedBy(func(req domain.TurnRequest) bool {
		return req.Message == "결제" && req.CurrentState != nil && req.CurrentState.OrderID == 5 && len(req.History) == 2
	})).Return(domain.TurnResponse{Reply: "결제가 완료되었습니다."}, nil).Once()

	var out bytes.Buffer
	err := runChat(context.Background(), dialogue, strings.NewReader("싸이버거 줘\n\n결제\nexit\n무시됨\n"), &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "싸이버거 1개를 주문에 추가했습니다.")
	assert.Contains(t, out.String(), "[맘스터치 강남점 #5 4000원 pending]")
	assert.Contains(t, out.String(), "결제가 완료되었습니다.")
	dialogue.AssertExpectations(t)
}

func TestRunChatReportsErrorsAndContinues(t *testing.T) {
	dialogue := new(mocks.DialogueServiceInterface)
	dialogue.On("HandleTurn", mock.Anything, mock.Anything).Return(domain.TurnResponse{}, errors.New("db down")).Once()

	var out bytes.Buffer
	err := runChat(context.Background(), dialogue, strings.NewReader("메뉴\n"), &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "error: db down")
	dialogue.AssertExpectations(t)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"migrate", "seed", "chat"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	chat, _, _ := root.Find([]string{"chat"})
	assert.NotNil(t, chat.Flags().Lookup("redis"))
}
