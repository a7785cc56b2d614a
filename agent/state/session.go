package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Intent string

const (
	IntentUnset       Intent = ""
	IntentOrder       Intent = "order"
	IntentReservation Intent = "reservation"
)

var (
	ErrEmptyCallID = errors.New("call id is empty")
	ErrNilSession  = errors.New("nil session record")
)

// ContextCarrier is the view of a live agent the session record needs for
// handoffs: its name and its dialogue context.
type ContextCarrier interface {
	AgentName() string
	DialogueContext() *DialogueContext
}

// OrderLine is one ordered item with quantity and modifications.
type OrderLine struct {
	Item          string   `json:"item"`
	Quantity      int      `json:"quantity"`
	Modifications []string `json:"modifications,omitempty"`
}

// SessionRecord is the single mutable state shared by every agent handling
// one call. It is created once per call, mutated in place, and never copied:
// each agent holds the same instance for the whole call lifetime.
type SessionRecord struct {
	// Identity, immutable after creation.
	CallID       string
	CallerNumber string
	StartedAt    time.Time

	// Customer fields, correctable at any time.
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	// Order fields.
	Order               []OrderLine
	OrderTotal          float64
	SpecialInstructions string
	PaymentMethod       string

	// Reservation fields. Zero party size means unset.
	ReservationDate string
	ReservationTime string
	PartySize       int

	// Control fields.
	Intent    Intent
	PrevAgent ContextCarrier
	Agents    map[string]ContextCarrier
	Persisted bool

	// Customer history pulled from the store during the call.
	PriorOrders   int
	LoyaltyPoints int
	Preferences   []string
}

func NewSessionRecord(callID, callerNumber string, now time.Time) (*SessionRecord, error) {
	if strings.TrimSpace(callID) == "" {
		return nil, ErrEmptyCallID
	}
	return &SessionRecord{
		CallID:        callID,
		CallerNumber:  strings.TrimSpace(callerNumber),
		StartedAt:     now.UTC(),
		PaymentMethod: "cash",
		Agents:        make(map[string]ContextCarrier, 4),
	}, nil
}

// RegisterAgent records a live agent instance for later transfers.
func (s *SessionRecord) RegisterAgent(a ContextCarrier) {
	if s == nil || a == nil {
		return
	}
	if s.Agents == nil {
		s.Agents = make(map[string]ContextCarrier, 4)
	}
	s.Agents[a.AgentName()] = a
}

// Agent returns the live instance registered under name, if any.
func (s *SessionRecord) Agent(name string) (ContextCarrier, bool) {
	if s == nil || s.Agents == nil {
		return nil, false
	}
	a, ok := s.Agents[name]
	return a, ok
}

// AddItem appends one order line and bumps nothing else; totals are computed
// at persistence time when unit prices are known.
func (s *SessionRecord) AddItem(item string, quantity int, modifications []string) error {
	if s == nil {
		return ErrNilSession
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return fmt.Errorf("order item name is empty")
	}
	if quantity <= 0 {
		return fmt.Errorf("order quantity must be positive, got %d", quantity)
	}
	s.Order = append(s.Order, OrderLine{
		Item:          item,
		Quantity:      quantity,
		Modifications: modifications,
	})
	return nil
}

// ItemCount is the total quantity across all order lines.
func (s *SessionRecord) ItemCount() int {
	if s == nil {
		return 0
	}
	count := 0
	for _, line := range s.Order {
		count += line.Quantity
	}
	return count
}

func (s *SessionRecord) HasOrder() bool {
	return s != nil && len(s.Order) > 0
}

func (s *SessionRecord) HasReservation() bool {
	return s != nil && s.ReservationDate != "" && s.ReservationTime != "" && s.PartySize > 0
}

func (s *SessionRecord) SetReservation(date, timeOfDay string, partySize int) error {
	if s == nil {
		return ErrNilSession
	}
	if partySize <= 0 {
		return fmt.Errorf("party size must be positive, got %d", partySize)
	}
	s.ReservationDate = strings.TrimSpace(date)
	s.ReservationTime = strings.TrimSpace(timeOfDay)
	s.PartySize = partySize
	return nil
}

// ResetRequest clears collected order and reservation fields after a
// cancellation. Identity and customer fields survive.
func (s *SessionRecord) ResetRequest() {
	if s == nil {
		return
	}
	s.Order = nil
	s.OrderTotal = 0
	s.SpecialInstructions = ""
	s.PaymentMethod = "cash"
	s.ReservationDate = ""
	s.ReservationTime = ""
	s.PartySize = 0
	s.Intent = IntentUnset
	s.Persisted = false
}

// Summarize renders the session for an agent's system context entry.
func (s *SessionRecord) Summarize() string {
	if s == nil {
		return ""
	}
	parts := make([]string, 0, 6)
	if s.CustomerName != "" {
		parts = append(parts, "Customer: "+s.CustomerName)
	}
	if s.CustomerPhone != "" {
		parts = append(parts, "Phone: "+s.CustomerPhone)
	}
	if len(s.Order) > 0 {
		parts = append(parts, fmt.Sprintf("Current order: %d items", s.ItemCount()))
	}
	if s.ReservationDate != "" && s.ReservationTime != "" {
		parts = append(parts, fmt.Sprintf("Reservation: %s at %s for %d", s.ReservationDate, s.ReservationTime, s.PartySize))
	}
	if s.PriorOrders > 0 {
		parts = append(parts, fmt.Sprintf("Previous orders: %d", s.PriorOrders))
	}
	if s.LoyaltyPoints > 0 {
		parts = append(parts, fmt.Sprintf("Loyalty points: %d", s.LoyaltyPoints))
	}
	if len(s.Preferences) > 0 {
		parts = append(parts, "Preferences: "+strings.Join(s.Preferences, ", "))
	}
	if len(parts) == 0 {
		return "New customer, no prior data"
	}
	return strings.Join(parts, "; ")
}
