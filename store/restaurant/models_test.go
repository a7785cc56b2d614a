package restaurant

import (
	"testing"
	"time"

	statex "github.com/wasin-t/tablevoice/agent/state"
)

type staticMenu []MenuItem

func (m staticMenu) Find(name string) (MenuItem, bool) {
	for _, item := range m {
		if item.ID == name || item.Name == name {
			return item, true
		}
	}
	return MenuItem{}, false
}

func TestBuildOrderPricesAndSchedules(t *testing.T) {
	t.Parallel()

	rec, err := statex.NewSessionRecord("call-1", "+15551234567", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec.CustomerName = "Jane Smith"
	rec.CustomerPhone = "+15551234567"
	rec.SpecialInstructions = "extra napkins"
	if err := rec.AddItem("Margherita pizza", 2, []string{"extra cheese"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rec.AddItem("Latte", 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	menu := staticMenu{
		{ID: "margherita", Name: "Margherita pizza", Price: 12},
		{ID: "latte", Name: "Latte", Price: 4.5},
	}
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	order := BuildOrder(rec, menu, now)

	if order.ID == "" {
		t.Fatal("order must get an id")
	}
	if order.CallID != "call-1" || order.CustomerName != "Jane Smith" {
		t.Fatalf("identity fields not carried: %+v", order)
	}
	if order.Status != OrderPending {
		t.Fatalf("new order must be pending, got %q", order.Status)
	}
	if order.PaymentMethod != "cash" {
		t.Fatalf("default payment method not carried, got %q", order.PaymentMethod)
	}
	if want := 2*12.0 + 4.5; order.TotalAmount != want {
		t.Fatalf("total = %v, want %v", order.TotalAmount, want)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Lines))
	}
	if order.Lines[0].MenuItemID != "margherita" || order.Lines[0].UnitPrice != 12 {
		t.Fatalf("line not priced through menu: %+v", order.Lines[0])
	}
	if order.Lines[0].OrderID != order.ID {
		t.Fatal("lines must reference the order id")
	}

	// Two lines is under the prep floor.
	if want := now.Add(minPrepMinutes * time.Minute); !order.EstimatedReadyTime.Equal(want) {
		t.Fatalf("ready time = %v, want %v", order.EstimatedReadyTime, want)
	}
}

func TestBuildOrderKeepsUnknownItemsAtZeroPrice(t *testing.T) {
	t.Parallel()

	rec, err := statex.NewSessionRecord("call-2", "+15551234567", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rec.AddItem("Secret special", 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := BuildOrder(rec, staticMenu{}, time.Now())
	if len(order.Lines) != 1 {
		t.Fatalf("unknown item must still produce a line, got %d", len(order.Lines))
	}
	if order.Lines[0].MenuItemName != "Secret special" || order.Lines[0].UnitPrice != 0 {
		t.Fatalf("unknown line mispriced: %+v", order.Lines[0])
	}
	if order.TotalAmount != 0 {
		t.Fatalf("total = %v, want 0", order.TotalAmount)
	}
}

func TestBuildOrderPrepTimeScalesWithLines(t *testing.T) {
	t.Parallel()

	rec, err := statex.NewSessionRecord("call-3", "+15551234567", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range []string{"a", "b", "c", "d", "e"} {
		if err := rec.AddItem(item, 1, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	order := BuildOrder(rec, nil, now)
	if want := now.Add(25 * time.Minute); !order.EstimatedReadyTime.Equal(want) {
		t.Fatalf("ready time = %v, want %v", order.EstimatedReadyTime, want)
	}
}

func TestBuildReservation(t *testing.T) {
	t.Parallel()

	rec, err := statex.NewSessionRecord("call-4", "+15551234567", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec.CustomerName = "Bob Lee"
	if err := rec.SetReservation("2026-04-01", "19:00", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	res := BuildReservation(rec, now)

	if res.ID == "" {
		t.Fatal("reservation must get an id")
	}
	if res.Date != "2026-04-01" || res.Time != "19:00" || res.PartySize != 4 {
		t.Fatalf("details not carried: %+v", res)
	}
	if res.Status != "confirmed" {
		t.Fatalf("status = %q, want confirmed", res.Status)
	}
	if !res.CreatedAt.Equal(now) {
		t.Fatalf("created at = %v, want %v", res.CreatedAt, now)
	}
}

func TestOrderLineTotal(t *testing.T) {
	t.Parallel()

	line := &OrderLine{Quantity: 3, UnitPrice: 2.5}
	if got := line.LineTotal(); got != 7.5 {
		t.Fatalf("line total = %v, want 7.5", got)
	}
	var nilLine *OrderLine
	if got := nilLine.LineTotal(); got != 0 {
		t.Fatalf("nil line total = %v, want 0", got)
	}
}
