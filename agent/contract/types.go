package contract

import (
	statex "github.com/wasin-t/tablevoice/agent/state"
)

type AgentName string

const (
	AgentIntentClassifier AgentName = "intent_classifier"
	AgentOrderTaker       AgentName = "order_taker"
	AgentReservationTaker AgentName = "reservation_taker"
	AgentConfirmer        AgentName = "confirmer"
)

// TurnKind tags the outcome of one handled caller turn.
type TurnKind string

const (
	TurnContinue TurnKind = "continue"
	TurnTransfer TurnKind = "transfer"
	TurnEnd      TurnKind = "end"
)

// TurnResult is the explicit control-flow result of handling one caller
// utterance. A Transfer names the next agent; the coordinator matches on
// Kind, never on the shape of a tool's return value.
type TurnResult struct {
	Kind  TurnKind
	Reply string
	Next  AgentName
}

func Continue(reply string) TurnResult {
	return TurnResult{Kind: TurnContinue, Reply: reply}
}

func Transfer(next AgentName, reply string) TurnResult {
	return TurnResult{Kind: TurnTransfer, Reply: reply, Next: next}
}

func End(reply string) TurnResult {
	return TurnResult{Kind: TurnEnd, Reply: reply}
}

// ToolSchema describes one tool as exposed to the reasoning backend.
type ToolSchema struct {
	Name   string
	Desc   string
	Params map[string]ToolParam
}

type ToolParam struct {
	Type     string // "string" | "integer"
	Desc     string
	Required bool
}

// CompletionRequest carries everything the reasoning backend needs for one
// agent activation or turn: the instruction script, the dialogue so far, and
// the tool surface.
type CompletionRequest struct {
	Instructions string
	History      []statex.ContextEntry
	Tools        []ToolSchema
}

// CompletionReply is either plain text (ToolName empty) or a tool invocation.
type CompletionReply struct {
	Text     string
	ToolName string
	ToolArgs map[string]any
}

func (r CompletionReply) IsToolCall() bool {
	return r.ToolName != ""
}
