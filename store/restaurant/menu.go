package restaurant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MenuCache holds the availability-filtered menu in memory for concurrent
// reads by any number of calls. It is refreshed wholesale: readers may see a
// momentarily stale menu right after an edit, never a partial one.
type MenuCache struct {
	src Store
	log zerolog.Logger

	mu    sync.RWMutex
	items []MenuItem
}

func NewMenuCache(src Store) *MenuCache {
	return &MenuCache{
		src: src,
		log: log.With().Str("component", "menu_cache").Logger(),
	}
}

// Warm loads the menu before the process accepts calls. The owning process
// must await it; there is no implicit background load at construction time.
func (c *MenuCache) Warm(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh replaces the cached menu with the store's current available items.
// The availability flag is re-checked here: an unavailable item never enters
// the cache regardless of what the source returns.
func (c *MenuCache) Refresh(ctx context.Context) error {
	items, err := c.src.AvailableMenuItems(ctx)
	if err != nil {
		return fmt.Errorf("refresh menu cache: %w", err)
	}

	available := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.Available {
			available = append(available, item)
		}
	}

	c.mu.Lock()
	c.items = available
	c.mu.Unlock()

	c.log.Info().Int("items", len(available)).Msg("menu cache refreshed")
	return nil
}

func (c *MenuCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Items returns a copy of the cached menu.
func (c *MenuCache) Items() []MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// Find resolves an item by id or case-insensitive name.
func (c *MenuCache) Find(name string) (MenuItem, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MenuItem{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == name || strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return MenuItem{}, false
}

// MenuText renders the cached menu grouped by category for agent
// instructions and caller-facing menu readouts.
func (c *MenuCache) MenuText() string {
	c.mu.RLock()
	items := c.items
	c.mu.RUnlock()

	if len(items) == 0 {
		return "Menu currently unavailable"
	}

	byCategory := make(map[string][]MenuItem)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "other"
		}
		byCategory[category] = append(byCategory[category], item)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	for _, category := range categories {
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(category))
		for _, item := range byCategory[category] {
			fmt.Fprintf(&b, "- %s: $%.2f - %s\n", item.Name, item.Price, item.Description)
		}
	}
	return b.String()
}
