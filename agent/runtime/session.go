// Package runtime drives one cooperative conversation loop per call: turns
// are processed strictly sequentially, handoffs are applied between turns,
// and each call owns an independent session record.
package runtime

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wasin-t/tablevoice/agent/agents"
	contractx "github.com/wasin-t/tablevoice/agent/contract"
	coordinatorx "github.com/wasin-t/tablevoice/agent/coordinator"
	statex "github.com/wasin-t/tablevoice/agent/state"
	restaurantx "github.com/wasin-t/tablevoice/store/restaurant"
)

const terminationMessage = "I apologize, I'm having a technical issue on my end. Please call us back in a moment."

// Worker owns the shared collaborators and opens a new session per inbound
// call. The menu cache is the only shared-mutable resource between calls.
type Worker struct {
	backend  contractx.Backend
	store    restaurantx.Store
	menu     *restaurantx.MenuCache
	enricher contractx.Enricher
	load     *LoadTracker
	now      func() time.Time
	log      zerolog.Logger

	// onAgentChange publishes the active agent per call for monitoring.
	onAgentChange func(callID string, agent contractx.AgentName)

	// backends optionally resolves a per-variant reasoning backend.
	backends func(contractx.AgentName) contractx.Backend

	restaurantPhone string
}

type WorkerOption func(*Worker)

func WithAgentObserver(fn func(callID string, agent contractx.AgentName)) WorkerOption {
	return func(w *Worker) { w.onAgentChange = fn }
}

func WithClock(now func() time.Time) WorkerOption {
	return func(w *Worker) { w.now = now }
}

// WithVariantBackends resolves a per-variant reasoning backend (model or
// temperature overrides). Variants the resolver declines fall back to the
// worker's base backend.
func WithVariantBackends(fn func(contractx.AgentName) contractx.Backend) WorkerOption {
	return func(w *Worker) { w.backends = fn }
}

func WithRestaurantPhone(phone string) WorkerOption {
	return func(w *Worker) { w.restaurantPhone = phone }
}

func NewWorker(
	backend contractx.Backend,
	store restaurantx.Store,
	menu *restaurantx.MenuCache,
	enricher contractx.Enricher,
	load *LoadTracker,
	opts ...WorkerOption,
) (*Worker, error) {
	if backend == nil {
		return nil, errors.New("reasoning backend is required")
	}
	if store == nil {
		return nil, errors.New("data store is required")
	}
	if load == nil {
		load = NewLoadTracker(0)
	}

	w := &Worker{
		backend:  backend,
		store:    store,
		menu:     menu,
		enricher: enricher,
		load:     load,
		now:      time.Now,
		log:      log.With().Str("component", "worker").Logger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Worker) Load() float64 {
	return w.load.Load()
}

// StartCall opens a session for one inbound call: it creates the session
// record, activates the intent classifier, and returns the opening greeting.
func (w *Worker) StartCall(ctx context.Context, info CallInfo) (*Session, string, error) {
	rec, err := statex.NewSessionRecord(info.CallID, info.EffectiveCaller(), w.now())
	if err != nil {
		return nil, "", err
	}

	registry, err := agents.NewRegistry(agents.Deps{
		Record:          rec,
		Backend:         w.backend,
		Enricher:        w.enricher,
		Store:           w.store,
		Menu:            w.menu,
		Now:             w.now,
		Backends:        w.backends,
		RestaurantPhone: w.restaurantPhone,
	})
	if err != nil {
		return nil, "", err
	}

	var observe func(contractx.AgentName)
	if w.onAgentChange != nil {
		observe = func(name contractx.AgentName) { w.onAgentChange(info.CallID, name) }
	}
	coord, err := coordinatorx.New(registry, observe)
	if err != nil {
		return nil, "", err
	}

	active, greeting, err := coord.Start(ctx, rec, contractx.AgentIntentClassifier)
	if err != nil {
		return nil, "", err
	}

	w.load.CallStarted()
	w.log.Info().
		Str("call_id", info.CallID).
		Str("origin", string(info.Origin)).
		Str("caller", info.EffectiveCaller()).
		Msg("session started")

	return &Session{
		rec:    rec,
		active: active,
		coord:  coord,
		worker: w,
		log:    log.With().Str("component", "session").Str("call_id", info.CallID).Logger(),
	}, greeting, nil
}

// Session is the per-call conversation loop. Turn is serialized: within one
// call, turn N's enrichment and any resulting handoff complete before turn
// N+1 is processed.
type Session struct {
	mu     sync.Mutex
	rec    *statex.SessionRecord
	active contractx.Agent
	coord  *coordinatorx.Coordinator
	worker *Worker
	log    zerolog.Logger
	ended  bool
}

func (s *Session) Record() *statex.SessionRecord {
	return s.rec
}

func (s *Session) ActiveAgent() contractx.AgentName {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ""
	}
	return s.active.Name()
}

// Turn processes one completed caller utterance and returns what the
// assistant says back. A transfer result deactivates the current agent and
// activates the target before the method returns; an unknown target keeps
// the current agent and the conversation alive. Backend-fatal errors end
// the session with a graceful termination message.
func (s *Session) Turn(ctx context.Context, utterance string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return "", contractx.ErrSessionEnded
	}

	result, err := s.active.HandleTurn(ctx, utterance)
	if err != nil {
		s.log.Error().Err(err).Msg("turn failed, terminating session")
		s.endLocked()
		return terminationMessage, err
	}

	switch result.Kind {
	case contractx.TurnEnd:
		s.endLocked()
		return result.Reply, nil

	case contractx.TurnTransfer:
		next, transition, terr := s.coord.Transfer(ctx, s.rec, s.active, result.Next)
		if terr != nil {
			if errors.Is(terr, contractx.ErrUnknownAgent) {
				// transfer aborted, current agent continues
				return fallbackReply(result.Reply), nil
			}
			s.log.Error().Err(terr).Msg("handoff failed, terminating session")
			s.endLocked()
			return terminationMessage, terr
		}
		s.active = next
		return joinUtterances(result.Reply, transition), nil

	default:
		return result.Reply, nil
	}
}

// End releases the call. Unpersisted session data is discarded; an abandoned
// call writes nothing.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLocked()
}

func (s *Session) endLocked() {
	if s.ended {
		return
	}
	s.ended = true
	s.worker.load.CallEnded()
	s.log.Info().
		Bool("persisted", s.rec.Persisted).
		Str("intent", string(s.rec.Intent)).
		Msg("session ended")
}

func fallbackReply(reply string) string {
	if strings.TrimSpace(reply) != "" {
		return reply
	}
	return "Sorry, let's carry on - what can I do for you?"
}

func joinUtterances(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, " ")
}
