package main

import (
	"context"
	"fmt"

	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/kiosk-svc/internal/service"
)

type seedStore struct {
	Name        string
	Description string
	Menu        []seedItem
}

type seedItem struct {
	Name  string
	Price int64
}

var demoCatalog = []seedStore{
	{
		Name:        "김밥천국 중앙점",
		Description: "분식",
		Menu: []seedItem{
			{"참치김밥", 4500},
			{"야채김밥", 3500},
			{"라볶이", 6000},
			{"돈까스", 8000},
		},
	},
	{
		Name:        "스타벅스 강남점",
		Description: "카페",
		Menu: []seedItem{
			{"아메리카노", 4100},
			{"카페라떼", 4600},
		},
	},
	{
		Name:        "맘스터치 강남점",
		Description: "버거",
		Menu: []seedItem{
			{"싸이버거", 4000},
			{"불고기버거", 4300},
			{"감자튀김", 2000},
			{"콜라", 1500},
		},
	},
}

// seedCatalog creates the stores that do not exist yet, matched by name, and returns how many it created.
func seedCatalog(ctx context.Context, catalogSvc service.CatalogServiceInterface, stores []seedStore) (int, error) {
	existing, err := catalogSvc.ListStores(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, store := range existing {
		known[store.Name] = true
	}

	created := 0
	for _, seed := range stores {
		if known[seed.Name] {
			continue
		}
		store := domain.Store{Name: seed.Name, Description: seed.Description}
		if err := catalogSvc.CreateStore(ctx, &store); err != nil {
			return created, fmt.Errorf("create store %s: %w", seed.Name, err)
		}
		for _, entry := range seed.Menu {
			item := domain.MenuItem{StoreID: store.ID, Name: entry.Name, Price: domain.Won(entry.Price)}
			if err := catalogSvc.CreateMenuItem(ctx, &item); err != nil {
				return created, fmt.Errorf("create menu item %s: %w", entry.Name, err)
			}
		}
		created++
	}
	return created, nil
}
