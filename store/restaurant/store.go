package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Store is the persistence contract seen by the conversation core. Absence
// of history is never an error: lookups return nil/empty results.
type Store interface {
	AvailableMenuItems(ctx context.Context) ([]MenuItem, error)
	CreateOrder(ctx context.Context, order *Order) error
	CreateReservation(ctx context.Context, res *Reservation) error
	CustomerByPhone(ctx context.Context, phone string) (*Customer, error)
	OrderHistory(ctx context.Context, phone string, limit int) ([]Order, error)
}

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// PGStore persists orders, reservations, customers, and daily aggregates in
// PostgreSQL via bun.
type PGStore struct {
	db  *bun.DB
	log zerolog.Logger
}

func NewPGStore(cfg Config) (*PGStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("store dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &PGStore{
		db:  db,
		log: log.With().Str("component", "pgstore").Logger(),
	}, nil
}

func (s *PGStore) DB() *bun.DB {
	return s.db
}

func (s *PGStore) Close() error {
	return s.db.Close()
}

// AvailableMenuItems returns only items whose availability flag is set. This
// is the sole menu read path, so unavailable items never reach the cache.
func (s *PGStore) AvailableMenuItems(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	err := s.db.NewSelect().
		Model(&items).
		Where("available = TRUE").
		Order("category", "name").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select menu items: %w", err)
	}
	return items, nil
}

// CreateOrder inserts the order with its lines, upserts the customer, and
// bumps the per-day aggregate, all in one transaction. The average order
// value is recomputed from totals, not incremented.
func (s *PGStore) CreateOrder(ctx context.Context, order *Order) error {
	if order == nil || order.ID == "" {
		return errors.New("order with id is required")
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if len(order.Lines) > 0 {
			for _, line := range order.Lines {
				line.OrderID = order.ID
			}
			if _, err := tx.NewInsert().Model(&order.Lines).Exec(ctx); err != nil {
				return fmt.Errorf("insert order lines: %w", err)
			}
		}
		if err := upsertCustomer(ctx, tx, order.CustomerPhone, order.CustomerName, order.OrderTime); err != nil {
			return err
		}
		return upsertDailyStat(ctx, tx, order.OrderTime, order.TotalAmount)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("order_id", order.ID).
		Float64("total", order.TotalAmount).
		Int("lines", len(order.Lines)).
		Msg("order created")
	return nil
}

func (s *PGStore) CreateReservation(ctx context.Context, res *Reservation) error {
	if res == nil || res.ID == "" {
		return errors.New("reservation with id is required")
	}
	if _, err := s.db.NewInsert().Model(res).Exec(ctx); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	s.log.Info().
		Str("reservation_id", res.ID).
		Str("date", res.Date).
		Int("party_size", res.PartySize).
		Msg("reservation created")
	return nil
}

func (s *PGStore) CustomerByPhone(ctx context.Context, phone string) (*Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	cust := new(Customer)
	err := s.db.NewSelect().
		Model(cust).
		Where("phone = ?", phone).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select customer: %w", err)
	}
	return cust, nil
}

func (s *PGStore) OrderHistory(ctx context.Context, phone string, limit int) ([]Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	var orders []Order
	err := s.db.NewSelect().
		Model(&orders).
		Where("customer_phone = ?", phone).
		Order("order_time DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select order history: %w", err)
	}
	return orders, nil
}

// upsertCustomer creates the customer on first order and otherwise bumps the
// order count and refreshes last-seen. A non-empty stored name is never
// overwritten by an empty one, and the count never decreases.
func upsertCustomer(ctx context.Context, tx bun.Tx, phone, name string, now time.Time) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errors.New("customer phone is required")
	}

	cust := &Customer{
		Phone:       phone,
		Name:        strings.TrimSpace(name),
		FirstSeen:   now.UTC(),
		LastSeen:    now.UTC(),
		TotalOrders: 1,
	}
	_, err := tx.NewInsert().
		Model(cust).
		On("CONFLICT (phone) DO UPDATE").
		Set("name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE customer.name END").
		Set("last_seen = EXCLUDED.last_seen").
		Set("total_orders = customer.total_orders + 1").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

func upsertDailyStat(ctx context.Context, tx bun.Tx, orderTime time.Time, amount float64) error {
	day := orderTime.UTC().Format("2006-01-02")
	stat := &DailyStat{
		Day:           day,
		TotalOrders:   1,
		TotalRevenue:  amount,
		AvgOrderValue: amount,
		UpdatedAt:     orderTime.UTC(),
	}
	_, err := tx.NewInsert().
		Model(stat).
		On("CONFLICT (day) DO UPDATE").
		Set("total_orders = daily_stat.total_orders + 1").
		Set("total_revenue = daily_stat.total_revenue + EXCLUDED.total_revenue").
		Set("avg_order_value = (daily_stat.total_revenue + EXCLUDED.total_revenue) / (daily_stat.total_orders + 1)").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert daily stat: %w", err)
	}
	return nil
}
