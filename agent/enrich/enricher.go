// Package enrich inspects completed caller utterances for identifying data
// and injects prior customer history into the dialogue. It is a best-effort
// heuristic: extraction misses are acceptable and never fail a turn.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	toolx "github.com/wasin-t/tablevoice/agent/tool"
	restaurantx "github.com/wasin-t/tablevoice/store/restaurant"
)

const historyLimit = 10

type Enricher struct {
	store restaurantx.Store
	log   zerolog.Logger
}

func New(store restaurantx.Store) *Enricher {
	return &Enricher{
		store: store,
		log:   log.With().Str("component", "enricher").Logger(),
	}
}

// Lookup extracts phone- and email-shaped substrings from one utterance.
// The first phone match is looked up for order history and preferences; the
// first email match is recorded verbatim as a note. Returns "" when nothing
// was found — callers treat empty as no enrichment, not as failure.
func (e *Enricher) Lookup(ctx context.Context, utterance string) string {
	var parts []string

	if phone, ok := toolx.FindPhone(utterance); ok {
		if note := e.phoneHistory(ctx, toolx.NormalizePhone(phone)); note != "" {
			parts = append(parts, note)
		}
	}
	if email, ok := toolx.FindEmail(utterance); ok {
		parts = append(parts, "Email provided: "+email)
	}

	return strings.Join(parts, " | ")
}

func (e *Enricher) phoneHistory(ctx context.Context, phone string) string {
	if e.store == nil {
		return ""
	}

	orders, err := e.store.OrderHistory(ctx, phone, historyLimit)
	if err != nil {
		e.log.Warn().Err(err).Str("phone", phone).Msg("order history lookup failed")
		return ""
	}
	if len(orders) == 0 {
		return ""
	}

	note := fmt.Sprintf("Found %d previous orders for %s", len(orders), phone)

	cust, err := e.store.CustomerByPhone(ctx, phone)
	if err != nil {
		e.log.Warn().Err(err).Str("phone", phone).Msg("customer preferences lookup failed")
		return note
	}
	if cust != nil && len(cust.Preferences) > 0 {
		note += " | Customer preferences: " + strings.Join(cust.Preferences, ", ")
	}
	return note
}
