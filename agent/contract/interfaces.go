package contract

import (
	"context"

	statex "github.com/wasin-t/tablevoice/agent/state"
)

// Agent is one conversational stage bound to the shared SessionRecord.
// Activate merges inherited dialogue context and returns a greeting;
// Deactivate returns a transition utterance before control passes on.
// CompletionHint is advisory only: it never blocks tool invocation.
type Agent interface {
	Name() AgentName
	Activate(ctx context.Context) (string, error)
	Deactivate(ctx context.Context) (string, error)
	HandleTurn(ctx context.Context, utterance string) (TurnResult, error)
	CompletionHint() string

	// AgentName and DialogueContext satisfy statex.ContextCarrier so the
	// SessionRecord can hold live agent references without importing this
	// package.
	AgentName() string
	DialogueContext() *statex.DialogueContext
}

// Backend is the reasoning/speech collaborator. It receives an instruction
// script, dialogue history, and a tool list, and replies with either plain
// text or a tool invocation.
type Backend interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionReply, error)
}

// Enricher inspects one completed caller utterance and returns a
// human-readable enrichment string, or "" when nothing was found. Empty is
// not a failure.
type Enricher interface {
	Lookup(ctx context.Context, utterance string) string
}
