package restaurant

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	statex "github.com/wasin-t/tablevoice/agent/state"
)

type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:menu_item"`

	ID              string  `bun:"id,pk"`
	Name            string  `bun:"name,notnull"`
	Price           float64 `bun:"price,notnull"`
	Description     string  `bun:"description"`
	Category        string  `bun:"category,notnull"`
	Available       bool    `bun:"available,notnull"`
	PrepTimeMinutes int     `bun:"prep_time_minutes,default:15"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:cust_order"`

	ID                  string       `bun:"id,pk"`
	CallID              string       `bun:"call_id"`
	CustomerPhone       string       `bun:"customer_phone,notnull"`
	CustomerName        string       `bun:"customer_name"`
	Status              OrderStatus  `bun:"status,notnull"`
	TotalAmount         float64      `bun:"total_amount,notnull"`
	PaymentMethod       string       `bun:"payment_method"`
	SpecialInstructions string       `bun:"special_instructions"`
	OrderTime           time.Time    `bun:"order_time,notnull"`
	EstimatedReadyTime  time.Time    `bun:"estimated_ready_time"`
	Lines               []*OrderLine `bun:"rel:has-many,join:id=order_id"`
}

type OrderLine struct {
	bun.BaseModel `bun:"table:order_lines,alias:order_line"`

	ID            int64    `bun:"id,pk,autoincrement"`
	OrderID       string   `bun:"order_id,notnull"`
	MenuItemID    string   `bun:"menu_item_id"`
	MenuItemName  string   `bun:"menu_item_name,notnull"`
	Quantity      int      `bun:"quantity,notnull"`
	UnitPrice     float64  `bun:"unit_price,notnull"`
	Modifications []string `bun:"modifications,array"`
}

func (l *OrderLine) LineTotal() float64 {
	if l == nil {
		return 0
	}
	return l.UnitPrice * float64(l.Quantity)
}

type Reservation struct {
	bun.BaseModel `bun:"table:reservations,alias:reservation"`

	ID            string    `bun:"id,pk"`
	CallID        string    `bun:"call_id"`
	CustomerName  string    `bun:"customer_name,notnull"`
	CustomerPhone string    `bun:"customer_phone,notnull"`
	Date          string    `bun:"reservation_date,notnull"`
	Time          string    `bun:"reservation_time,notnull"`
	PartySize     int       `bun:"party_size,notnull"`
	Status        string    `bun:"status,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:customer"`

	Phone         string    `bun:"phone,pk"`
	Name          string    `bun:"name"`
	FirstSeen     time.Time `bun:"first_seen,notnull"`
	LastSeen      time.Time `bun:"last_seen,notnull"`
	TotalOrders   int       `bun:"total_orders,notnull"`
	LoyaltyPoints int       `bun:"loyalty_points,notnull"`
	Preferences   []string  `bun:"preferences,array"`
}

type DailyStat struct {
	bun.BaseModel `bun:"table:daily_stats,alias:daily_stat"`

	Day           string    `bun:"day,pk"` // YYYY-MM-DD
	TotalOrders   int       `bun:"total_orders,notnull"`
	TotalRevenue  float64   `bun:"total_revenue,notnull"`
	AvgOrderValue float64   `bun:"avg_order_value,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

// Pricer resolves an ordered item to a menu entry. The in-memory MenuCache
// satisfies it.
type Pricer interface {
	Find(name string) (MenuItem, bool)
}

const minPrepMinutes = 20

// BuildOrder assembles an order row from the session record, pricing each
// line through the menu. Lines that name an unknown item are kept with zero
// price so the kitchen still sees them.
func BuildOrder(rec *statex.SessionRecord, menu Pricer, now time.Time) *Order {
	order := &Order{
		ID:                  uuid.NewString(),
		CallID:              rec.CallID,
		CustomerPhone:       rec.CustomerPhone,
		CustomerName:        rec.CustomerName,
		Status:              OrderPending,
		PaymentMethod:       rec.PaymentMethod,
		SpecialInstructions: rec.SpecialInstructions,
		OrderTime:           now.UTC(),
	}

	for _, line := range rec.Order {
		ol := &OrderLine{
			OrderID:       order.ID,
			MenuItemName:  line.Item,
			Quantity:      line.Quantity,
			Modifications: line.Modifications,
		}
		if menu != nil {
			if item, ok := menu.Find(line.Item); ok {
				ol.MenuItemID = item.ID
				ol.MenuItemName = item.Name
				ol.UnitPrice = item.Price
			}
		}
		order.TotalAmount += ol.LineTotal()
		order.Lines = append(order.Lines, ol)
	}

	prep := len(order.Lines) * 5
	if prep < minPrepMinutes {
		prep = minPrepMinutes
	}
	order.EstimatedReadyTime = order.OrderTime.Add(time.Duration(prep) * time.Minute)
	return order
}

// BuildReservation assembles a reservation row from the session record.
// Reservations are confirmed directly; there is no pending stage.
func BuildReservation(rec *statex.SessionRecord, now time.Time) *Reservation {
	return &Reservation{
		ID:            uuid.NewString(),
		CallID:        rec.CallID,
		CustomerName:  rec.CustomerName,
		CustomerPhone: rec.CustomerPhone,
		Date:          rec.ReservationDate,
		Time:          rec.ReservationTime,
		PartySize:     rec.PartySize,
		Status:        "confirmed",
		CreatedAt:     now.UTC(),
	}
}
