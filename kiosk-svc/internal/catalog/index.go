// Package catalog answers read-only store and menu questions from an immutable
// snapshot of the catalog tables. A fresh Index is built per turn, usually from
// the read-through cache, so lookups never go back to Postgres.
package catalog

import (
	"strings"

	"ai-kiosk/kiosk-svc/internal/domain"
)

// Data is the raw catalog as it is loaded from storage and cached.
type Data struct {
	Stores []domain.Store    `json:"stores"`
	Items  []domain.MenuItem `json:"items"`
}

type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchSubstring
)

type Index struct {
	stores     []domain.Store
	items      []domain.MenuItem
	byStore    map[string][]domain.MenuItem
	categories CategoryTable
}

// NewIndex keeps the order of data.Stores; items are grouped per store in the order given.
func NewIndex(data Data, categories CategoryTable) *Index {
	idx := &Index{
		stores:     append([]domain.Store(nil), data.Stores...),
		byStore:    make(map[string][]domain.MenuItem, len(data.Stores)),
		categories: categories,
	}

	storeNames := make(map[int]string, len(data.Stores))
	for _, store := range data.Stores {
		storeNames[store.ID] = store.Name
	}

	for _, store := range idx.stores {
		for _, item := range data.Items {
			if item.StoreID != store.ID {
				continue
			}
			if item.StoreName == "" {
				item.StoreName = storeNames[item.StoreID]
			}
			key := strings.ToLower(store.Name)
			idx.byStore[key] = append(idx.byStore[key], item)
			idx.items = append(idx.items, item)
		}
	}
	return idx
}

func (i *Index) Stores() []domain.Store {
	return i.stores
}

func (i *Index) Items() []domain.MenuItem {
	return i.items
}

// StoreNames returns store names in catalog order.
func (i *Index) StoreNames() []string {
	names := make([]string, 0, len(i.stores))
	for _, store := range i.stores {
		names = append(names, store.Name)
	}
	return names
}

func (i *Index) Store(name string) (domain.Store, bool) {
	for _, store := range i.stores {
		if strings.EqualFold(store.Name, strings.TrimSpace(name)) {
			return store, true
		}
	}
	return domain.Store{}, false
}

// Categories lists every category that at least one menu item falls into, in table order.
func (i *Index) Categories() []string {
	present := make(map[string]bool)
	for _, item := range i.items {
		if category, ok := i.categories.Infer(item.Name); ok {
			present[category] = true
		}
	}
	var out []string
	for _, name := range i.categories.Names() {
		if present[name] {
			out = append(out, name)
		}
	}
	return out
}

func (i *Index) CategoryOf(item domain.MenuItem) string {
	category, _ := i.categories.Infer(item.Name)
	return category
}

// FindItemByName matches case-insensitively. With a store filter the store name
// must also contain the filter. Exact name matches win over substring matches.
func (i *Index) FindItemByName(query string, mode MatchMode, storeFilter string) (domain.MenuItem, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.MenuItem{}, false
	}
	filter := strings.ToLower(strings.TrimSpace(storeFilter))

	var partial *domain.MenuItem
	for idx := range i.items {
		item := i.items[idx]
		if filter != "" && !strings.Contains(strings.ToLower(item.StoreName), filter) {
			continue
		}
		name := strings.ToLower(item.Name)
		if name == q {
			return item, true
		}
		if mode == MatchSubstring && partial == nil && strings.Contains(name, q) {
			partial = &i.items[idx]
		}
	}
	if partial != nil {
		return *partial, true
	}
	return domain.MenuItem{}, false
}

// FindItemInText returns the item whose name is the longest substring of text.
func (i *Index) FindItemInText(text, storeFilter string) (domain.MenuItem, bool) {
	lowered := strings.ToLower(text)
	compact := strings.ReplaceAll(lowered, " ", "")
	filter := strings.ToLower(strings.TrimSpace(storeFilter))

	var (
		best  domain.MenuItem
		found bool
	)
	for _, item := range i.items {
		if filter != "" && !strings.Contains(strings.ToLower(item.StoreName), filter) {
			continue
		}
		name := strings.ToLower(item.Name)
		if name == "" {
			continue
		}
		if !strings.Contains(lowered, name) && !strings.Contains(compact, strings.ReplaceAll(name, " ", "")) {
			continue
		}
		if !found || len(name) > len(strings.ToLower(best.Name)) {
			best, found = item, true
		}
	}
	return best, found
}

// StoresByCategory returns each store that sells at least one item of the category, once.
func (i *Index) StoresByCategory(category string) []domain.Store {
	keyword := strings.ToLower(strings.TrimSpace(category))
	if keyword == "" {
		return nil
	}

	var out []domain.Store
	for _, store := range i.stores {
		for _, item := range i.byStore[strings.ToLower(store.Name)] {
			inferred, _ := i.categories.Infer(item.Name)
			if inferred == category || strings.Contains(strings.ToLower(item.Name), keyword) {
				out = append(out, store)
				break
			}
		}
	}
	return out
}

// MenuByStore is empty for an unknown store.
func (i *Index) MenuByStore(storeName string) []domain.MenuItem {
	return i.byStore[strings.ToLower(strings.TrimSpace(storeName))]
}
