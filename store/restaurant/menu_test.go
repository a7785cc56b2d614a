package restaurant

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeMenuSource struct {
	items []MenuItem
	err   error
}

func (f *fakeMenuSource) AvailableMenuItems(ctx context.Context) ([]MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeMenuSource) CreateOrder(ctx context.Context, order *Order) error        { return nil }
func (f *fakeMenuSource) CreateReservation(ctx context.Context, res *Reservation) error { return nil }
func (f *fakeMenuSource) CustomerByPhone(ctx context.Context, phone string) (*Customer, error) {
	return nil, nil
}
func (f *fakeMenuSource) OrderHistory(ctx context.Context, phone string, limit int) ([]Order, error) {
	return nil, nil
}

func testMenu() []MenuItem {
	return []MenuItem{
		{ID: "latte", Name: "Latte", Price: 4.5, Description: "Espresso with steamed milk", Category: "drinks", Available: true},
		{ID: "margherita", Name: "Margherita pizza", Price: 12, Description: "Tomato, mozzarella, basil", Category: "mains", Available: true},
	}
}

func TestMenuCacheWarmAndText(t *testing.T) {
	t.Parallel()

	cache := NewMenuCache(&fakeMenuSource{items: testMenu()})
	if err := cache.Warm(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 items cached, got %d", cache.Len())
	}

	text := cache.MenuText()
	for _, want := range []string{"DRINKS:", "MAINS:", "Latte: $4.50", "Margherita pizza: $12.00"} {
		if !strings.Contains(text, want) {
			t.Fatalf("menu text missing %q:\n%s", want, text)
		}
	}
}

func TestMenuCacheDropsUnavailableItems(t *testing.T) {
	t.Parallel()

	items := append(testMenu(),
		MenuItem{ID: "oysters", Name: "Oysters", Price: 19, Category: "mains", Available: false})
	cache := NewMenuCache(&fakeMenuSource{items: items})
	if err := cache.Warm(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.Len() != 2 {
		t.Fatalf("expected only available items cached, got %d", cache.Len())
	}
	if strings.Contains(cache.MenuText(), "Oysters") {
		t.Fatalf("unavailable item leaked into menu text:\n%s", cache.MenuText())
	}
	if _, ok := cache.Find("Oysters"); ok {
		t.Fatal("unavailable item must not resolve")
	}
}

func TestMenuCacheEmptyText(t *testing.T) {
	t.Parallel()

	cache := NewMenuCache(&fakeMenuSource{})
	if got := cache.MenuText(); got != "Menu currently unavailable" {
		t.Fatalf("got %q", got)
	}
}

func TestMenuCacheFind(t *testing.T) {
	t.Parallel()

	cache := NewMenuCache(&fakeMenuSource{items: testMenu()})
	if err := cache.Warm(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item, ok := cache.Find("margherita pizza"); !ok || item.ID != "margherita" {
		t.Fatalf("case-insensitive name lookup failed: %+v ok=%v", item, ok)
	}
	if item, ok := cache.Find("latte"); !ok || item.Name != "Latte" {
		t.Fatalf("id lookup failed: %+v ok=%v", item, ok)
	}
	if _, ok := cache.Find("sushi"); ok {
		t.Fatal("unknown item must miss")
	}
}

func TestMenuCacheRefreshReplacesWholesale(t *testing.T) {
	t.Parallel()

	src := &fakeMenuSource{items: testMenu()}
	cache := NewMenuCache(src)
	if err := cache.Warm(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.items = []MenuItem{{ID: "espresso", Name: "Espresso", Price: 3, Category: "drinks", Available: true}}
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.Len() != 1 {
		t.Fatalf("expected wholesale replacement, got %d items", cache.Len())
	}
	if _, ok := cache.Find("latte"); ok {
		t.Fatal("stale item must be gone after refresh")
	}
}

func TestMenuCacheRefreshFailureKeepsOldMenu(t *testing.T) {
	t.Parallel()

	src := &fakeMenuSource{items: testMenu()}
	cache := NewMenuCache(src)
	if err := cache.Warm(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.err = errors.New("store down")
	if err := cache.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if cache.Len() != 2 {
		t.Fatal("failed refresh must not clobber the cached menu")
	}
}
