package agents

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	statex "github.com/wasin-t/tablevoice/agent/state"
	toolx "github.com/wasin-t/tablevoice/agent/tool"
)

const (
	greetDirective = "Greet the user warmly based on your role and current context."
	exitDirective  = "Let the user know you're transferring them to a colleague who can better help them."
)

// baseAgent carries the behavior every variant shares: context merge on
// activation, transition utterance on deactivation, and the per-turn
// enrich-then-reason loop. Variants supply the instruction script, their
// extra tools, and the completion predicate.
type baseAgent struct {
	name         contractx.AgentName
	instructions string
	rec          *statex.SessionRecord
	backend      contractx.Backend
	enricher     contractx.Enricher
	tools        []toolx.Definition
	dialogue     *statex.DialogueContext
	log          zerolog.Logger
}

func newBase(name contractx.AgentName, instructions string, d Deps, extra []toolx.Definition) baseAgent {
	tools := toolx.Shared(d.Record, d.Store)
	tools = append(tools, extra...)
	return baseAgent{
		name:         name,
		instructions: instructions,
		rec:          d.Record,
		backend:      d.backendFor(name),
		enricher:     d.Enricher,
		tools:        tools,
		dialogue:     statex.NewDialogueContext(),
		log:          log.With().Str("agent", string(name)).Str("call_id", d.Record.CallID).Logger(),
	}
}

func (a *baseAgent) Name() contractx.AgentName {
	return a.name
}

func (a *baseAgent) AgentName() string {
	return string(a.name)
}

func (a *baseAgent) DialogueContext() *statex.DialogueContext {
	return a.dialogue
}

func (a *baseAgent) CompletionHint() string {
	return ""
}

// Activate merges the previous agent's dialogue tail into this agent's
// context, appends a system entry with the current session summary, and
// produces a greeting. The session record instance is shared, never copied.
func (a *baseAgent) Activate(ctx context.Context) (string, error) {
	if prev := a.rec.PrevAgent; prev != nil && prev.AgentName() != string(a.name) {
		a.dialogue.MergeFrom(prev.DialogueContext())
	}

	a.dialogue.Append(statex.RoleSystem, fmt.Sprintf(
		"You are the %s. %s Current session: %s",
		a.name, a.instructions, a.rec.Summarize(),
	))

	reply, err := a.backend.Complete(ctx, contractx.CompletionRequest{
		Instructions: a.instructions + "\n" + greetDirective,
		History:      a.dialogue.Entries(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: greeting for %s: %v", contractx.ErrBackend, a.name, err)
	}

	a.dialogue.Append(statex.RoleAssistant, reply.Text)
	a.log.Info().Msg("agent activated")
	return reply.Text, nil
}

// Deactivate speaks a transition line before control passes on. A backend
// failure here degrades to a canned line; a handoff never aborts on it.
func (a *baseAgent) Deactivate(ctx context.Context) (string, error) {
	reply, err := a.backend.Complete(ctx, contractx.CompletionRequest{
		Instructions: a.instructions + "\n" + exitDirective,
		History:      a.dialogue.Entries(),
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("transition utterance failed, using fallback")
		fallback := "One moment while I get the right person to help you."
		a.dialogue.Append(statex.RoleAssistant, fallback)
		return fallback, nil
	}

	a.dialogue.Append(statex.RoleAssistant, reply.Text)
	return reply.Text, nil
}

// handleTurn is the shared per-turn loop. The hint callback is the variant's
// completion predicate; its result is advisory and only decorates tool
// replies, it never blocks an invocation.
func (a *baseAgent) handleTurn(ctx context.Context, utterance string, hint func() string) (contractx.TurnResult, error) {
	a.dialogue.Append(statex.RoleUser, utterance)

	if a.enricher != nil {
		if note := a.enricher.Lookup(ctx, utterance); note != "" {
			a.dialogue.Append(statex.RoleAssistant, "Customer information found: "+note)
		}
	}

	reply, err := a.backend.Complete(ctx, contractx.CompletionRequest{
		Instructions: a.instructions,
		History:      a.dialogue.Entries(),
		Tools:        toolx.Schemas(a.tools),
	})
	if err != nil {
		return contractx.TurnResult{}, fmt.Errorf("%w: turn for %s: %v", contractx.ErrBackend, a.name, err)
	}

	if !reply.IsToolCall() {
		a.dialogue.Append(statex.RoleAssistant, reply.Text)
		return contractx.Continue(reply.Text), nil
	}

	outcome := toolx.Dispatch(ctx, a.tools, reply.ToolName, reply.ToolArgs)
	a.dialogue.Append(statex.RoleTool, fmt.Sprintf("%s: %s", reply.ToolName, outcome.Reply))

	switch {
	case outcome.EndCall:
		return contractx.End(outcome.Reply), nil
	case outcome.Next != "":
		return contractx.Transfer(outcome.Next, outcome.Reply), nil
	}

	spoken := outcome.Reply
	if hint != nil {
		if h := hint(); h != "" {
			spoken = spoken + " " + h
		}
	}
	a.dialogue.Append(statex.RoleAssistant, spoken)
	return contractx.Continue(spoken), nil
}
