package service

import (
	"context"
	"fmt"
	"strings"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/kiosk-svc/internal/nlu"
)

const popularLimit = 3

// digest renders the catalog context handed to the language model: every known
// category, then per store the items relevant to the utterance. When nothing
// matches, the whole catalog is listed.
func (d *DialogueService) digest(ctx context.Context, index *catalog.Index, entities nlu.Entities, utterance string) string {
	var b strings.Builder
	if categories := index.Categories(); len(categories) > 0 {
		fmt.Fprintf(&b, "카테고리: %s\n", strings.Join(categories, ", "))
	}

	matched := relevantItems(index, entities, utterance)
	if len(matched) == 0 {
		matched = index.Items()
	}

	for _, store := range index.Stores() {
		var entries []string
		for _, item := range matched {
			if item.StoreID == store.ID {
				entries = append(entries, fmt.Sprintf("%s %s원", item.Name, item.Price))
			}
		}
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", store.Name, strings.Join(entries, ", "))
		if popular := d.popular(ctx, store.Name); len(popular) > 0 {
			fmt.Fprintf(&b, "  인기 메뉴: %s\n", strings.Join(popular, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// relevantItems filters by the extracted store or category, falling back to
// items whose name or store name appears in the utterance.
func relevantItems(index *catalog.Index, entities nlu.Entities, utterance string) []domain.MenuItem {
	lowered := strings.ToLower(utterance)
	var out []domain.MenuItem
	for _, item := range index.Items() {
		switch {
		case entities.HasStore() && item.StoreName == entities.StoreName:
		case entities.HasCategory() && index.CategoryOf(item) == entities.Category:
		case entities.HasStore() || entities.HasCategory():
			continue
		case strings.Contains(lowered, strings.ToLower(item.Name)):
		case strings.Contains(lowered, strings.ToLower(item.StoreName)):
		default:
			continue
		}
		out = append(out, item)
	}
	return out
}

func (d *DialogueService) popular(ctx context.Context, storeName string) []string {
	if d.popularity == nil {
		return nil
	}
	items, err := d.popularity.TopItems(ctx, storeName, popularLimit)
	if err != nil {
		d.logger.Warnw("popularity lookup failed", "store", storeName, "error", err)
		return nil
	}
	return items
}
