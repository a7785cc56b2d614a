// Package coordinator performs the bookkeeping of moving control from one
// conversational agent to the next against the one shared session record.
package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wasin-t/tablevoice/agent/agents"
	contractx "github.com/wasin-t/tablevoice/agent/contract"
	statex "github.com/wasin-t/tablevoice/agent/state"
)

// Coordinator resolves transfer targets through the registry and drives the
// deactivate/activate pair that carries dialogue context across a handoff.
// The session record instance is never copied or replaced: the next agent
// receives the same record the current one held.
type Coordinator struct {
	registry *agents.Registry
	log      zerolog.Logger

	// onAgentChange publishes the active agent identity for external
	// observers (call monitoring). Optional.
	onAgentChange func(name contractx.AgentName)
}

func New(registry *agents.Registry, onAgentChange func(contractx.AgentName)) (*Coordinator, error) {
	if registry == nil {
		return nil, errors.New("agent registry is required")
	}
	return &Coordinator{
		registry:      registry,
		log:           log.With().Str("component", "coordinator").Logger(),
		onAgentChange: onAgentChange,
	}, nil
}

// Start activates the initial agent for a fresh session.
func (c *Coordinator) Start(ctx context.Context, rec *statex.SessionRecord, name contractx.AgentName) (contractx.Agent, string, error) {
	agent, err := c.registry.Lookup(name)
	if err != nil {
		return nil, "", err
	}
	greeting, err := agent.Activate(ctx)
	if err != nil {
		return nil, "", err
	}
	c.announce(name)
	return agent, greeting, nil
}

// Transfer moves control from current to the named target. On an unknown
// target the failure is logged and the current agent is returned unchanged:
// no crash, no dropped context. Otherwise the current agent speaks its
// transition line, the session's previous-agent reference is pointed at it,
// and the target activates, merging the inherited dialogue.
func (c *Coordinator) Transfer(
	ctx context.Context,
	rec *statex.SessionRecord,
	current contractx.Agent,
	target contractx.AgentName,
) (contractx.Agent, string, error) {
	next, err := c.registry.Lookup(target)
	if err != nil {
		c.log.Error().Err(err).
			Str("from", string(current.Name())).
			Str("target", string(target)).
			Msg("transfer aborted, keeping current agent")
		return current, "", fmt.Errorf("resolve transfer target: %w", err)
	}

	farewell, err := current.Deactivate(ctx)
	if err != nil {
		// Deactivate degrades internally; an error here is backend-fatal.
		return current, "", err
	}

	rec.PrevAgent = current
	greeting, err := next.Activate(ctx)
	if err != nil {
		return current, "", err
	}

	c.announce(target)
	c.log.Info().
		Str("from", string(current.Name())).
		Str("to", string(target)).
		Str("call_id", rec.CallID).
		Msg("handoff complete")

	if farewell == "" {
		return next, greeting, nil
	}
	return next, farewell + " " + greeting, nil
}

func (c *Coordinator) announce(name contractx.AgentName) {
	if c.onAgentChange != nil {
		c.onAgentChange(name)
	}
}
