// Package agents implements the four conversational variants of the
// restaurant assistant and the registry that hands out live instances bound
// to one session record.
package agents

import (
	"errors"
	"fmt"
	"time"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	statex "github.com/wasin-t/tablevoice/agent/state"
	restaurantx "github.com/wasin-t/tablevoice/store/restaurant"
)

// Deps is everything a variant needs: the one shared session record, the
// reasoning backend, the enricher, the data store, and the menu cache.
type Deps struct {
	Record   *statex.SessionRecord
	Backend  contractx.Backend
	Enricher contractx.Enricher
	Store    restaurantx.Store
	Menu     *restaurantx.MenuCache
	Now      func() time.Time

	// Backends optionally resolves a per-variant reasoning backend (model or
	// temperature overrides). Nil, or a nil result, falls back to Backend.
	Backends func(contractx.AgentName) contractx.Backend

	// RestaurantPhone is read into instruction scripts so agents can state
	// the restaurant's callback number.
	RestaurantPhone string
}

func (d Deps) backendFor(name contractx.AgentName) contractx.Backend {
	if d.Backends != nil {
		if b := d.Backends(name); b != nil {
			return b
		}
	}
	return d.Backend
}

func (d Deps) validate() error {
	if d.Record == nil {
		return errors.New("session record is required")
	}
	if d.Backend == nil {
		return errors.New("reasoning backend is required")
	}
	return nil
}

// Registry instantiates agent variants on demand, reusing live instances the
// session record already knows about so a returning transfer lands on the
// same agent with its dialogue intact.
type Registry struct {
	deps Deps
}

func NewRegistry(deps Deps) (*Registry, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Registry{deps: deps}, nil
}

// Lookup returns the live instance for name, constructing one on first use.
// Unknown names are reported with ErrUnknownAgent, leaving the caller free
// to keep the current agent active.
func (r *Registry) Lookup(name contractx.AgentName) (contractx.Agent, error) {
	if live, ok := r.deps.Record.Agent(string(name)); ok {
		if agent, ok := live.(contractx.Agent); ok {
			return agent, nil
		}
	}

	var agent contractx.Agent
	switch name {
	case contractx.AgentIntentClassifier:
		agent = newIntentClassifier(r.deps)
	case contractx.AgentOrderTaker:
		agent = newOrderTaker(r.deps)
	case contractx.AgentReservationTaker:
		agent = newReservationTaker(r.deps)
	case contractx.AgentConfirmer:
		agent = newConfirmer(r.deps)
	default:
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnknownAgent, name)
	}

	r.deps.Record.RegisterAgent(agent)
	return agent, nil
}

func menuText(d Deps) string {
	if d.Menu == nil {
		return "Menu currently unavailable"
	}
	return d.Menu.MenuText()
}
