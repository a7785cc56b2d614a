package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	statex "github.com/wasin-t/tablevoice/agent/state"
	toolx "github.com/wasin-t/tablevoice/agent/tool"
	restaurantx "github.com/wasin-t/tablevoice/store/restaurant"
)

// confirmer is the terminal agent: it reads the collected request back to
// the caller and, on confirmation, commits it through the persistence
// gateway exactly once per call. The session record's Persisted flag guards
// against double commits when the confirm tool is re-invoked.
type confirmer struct {
	baseAgent
	deps Deps
}

func newConfirmer(d Deps) *confirmer {
	instructions := "You're a friendly cafe staff member double-checking the order or " +
		"reservation. Be conversational and natural - like you're just making sure you " +
		"got everything right. Only mention the key details that matter. Sound like a " +
		"real person, not a robot reading a checklist."

	a := &confirmer{deps: d}
	a.baseAgent = newBase(contractx.AgentConfirmer, instructions, d, []toolx.Definition{
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "confirm_order",
				Desc:   "Customer confirmed; save the order.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: a.confirmOrder,
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "confirm_reservation",
				Desc:   "Customer confirmed; save the reservation.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: a.confirmReservation,
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name: "request_correction",
				Desc: "Customer wants to change one collected detail.",
				Params: map[string]contractx.ToolParam{
					"field":     {Type: "string", Desc: "name, phone, email, date, time, or party_size", Required: true},
					"new_value": {Type: "string", Desc: "The corrected value", Required: true},
				},
			},
			Handler: a.requestCorrection,
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "cancel_request",
				Desc:   "Customer wants to abandon the current order or reservation.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: func(ctx context.Context, args map[string]any) toolx.Outcome {
				d.Record.ResetRequest()
				return toolx.Outcome{
					Reply: "No problem! What else can I help you with?",
					Next:  contractx.AgentIntentClassifier,
				}
			},
		},
	})
	return a
}

func (a *confirmer) HandleTurn(ctx context.Context, utterance string) (contractx.TurnResult, error) {
	return a.handleTurn(ctx, utterance, nil)
}

// Activate reads the pending request back instead of a generic greeting.
func (a *confirmer) Activate(ctx context.Context) (string, error) {
	var directive string
	switch {
	case a.rec.HasOrder():
		directive = fmt.Sprintf(
			"Casually confirm the order details: %s. Sound natural and friendly, like you're just double-checking you got their order right.",
			a.orderSummary(),
		)
	case a.rec.ReservationDate != "":
		directive = fmt.Sprintf(
			"Casually confirm the reservation: %s. Sound warm and welcoming, like you're looking forward to seeing them.",
			a.reservationSummary(),
		)
	default:
		directive = "Something seems to be missing. Help the customer complete their order or reservation."
	}

	if prev := a.rec.PrevAgent; prev != nil && prev.AgentName() != string(a.name) {
		a.dialogue.MergeFrom(prev.DialogueContext())
	}
	a.dialogue.Append(statex.RoleSystem, fmt.Sprintf(
		"You are the %s. %s Current session: %s",
		a.name, a.instructions, a.rec.Summarize(),
	))

	reply, err := a.backend.Complete(ctx, contractx.CompletionRequest{
		Instructions: a.instructions + "\n" + directive,
		History:      a.dialogue.Entries(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: confirmation readback: %v", contractx.ErrBackend, err)
	}

	a.dialogue.Append(statex.RoleAssistant, reply.Text)
	a.log.Info().Msg("agent activated")
	return reply.Text, nil
}

func (a *confirmer) confirmOrder(ctx context.Context, args map[string]any) toolx.Outcome {
	rec := a.rec
	if rec.CustomerName == "" || rec.CustomerPhone == "" || !rec.HasOrder() {
		return toolx.Outcome{Reply: "I just need to get your name and phone number to complete this order."}
	}
	if rec.Persisted {
		return toolx.Outcome{Reply: "Your order is already confirmed. We'll have it ready for you soon!"}
	}

	order := restaurantx.BuildOrder(rec, a.deps.Menu, a.deps.Now())
	if err := a.deps.Store.CreateOrder(ctx, order); err != nil {
		a.log.Error().Err(err).Str("order_id", order.ID).Msg("order persistence failed")
		return toolx.Outcome{Reply: "Oops, something went wrong on our end. Let me try that again for you."}
	}

	rec.Persisted = true
	rec.OrderTotal = order.TotalAmount
	return toolx.Outcome{
		Reply:   "Perfect! Your order is all set. We'll have it ready for you soon!",
		EndCall: true,
	}
}

func (a *confirmer) confirmReservation(ctx context.Context, args map[string]any) toolx.Outcome {
	rec := a.rec
	if rec.CustomerName == "" || rec.CustomerPhone == "" || !rec.HasReservation() {
		return toolx.Outcome{Reply: "I just need a few more details to get your table reserved."}
	}
	if rec.Persisted {
		return toolx.Outcome{Reply: "Your table is already reserved. We're looking forward to seeing you!"}
	}

	res := restaurantx.BuildReservation(rec, a.deps.Now())
	if err := a.deps.Store.CreateReservation(ctx, res); err != nil {
		a.log.Error().Err(err).Str("reservation_id", res.ID).Msg("reservation persistence failed")
		return toolx.Outcome{Reply: "Oops, something went wrong on our end. Let me try that again for you."}
	}

	rec.Persisted = true
	return toolx.Outcome{
		Reply:   "Great! Your table is reserved. We're looking forward to seeing you!",
		EndCall: true,
	}
}

// requestCorrection applies one field change, then routes the caller back to
// the agent that collected the field so the request can be re-finalized.
func (a *confirmer) requestCorrection(ctx context.Context, args map[string]any) toolx.Outcome {
	rec := a.rec
	field := strings.ToLower(toolx.StringArg(args, "field"))
	value := toolx.StringArg(args, "new_value")

	switch field {
	case "name":
		rec.CustomerName = toolx.TitleCase(value)
	case "phone":
		if !toolx.ValidPhone(value) {
			return toolx.Outcome{Reply: "That phone number doesn't look right. Could you repeat it with the area code?"}
		}
		rec.CustomerPhone = toolx.NormalizePhone(value)
	case "email":
		if !toolx.ValidEmail(value) {
			return toolx.Outcome{Reply: "That doesn't look like a valid email address. Could you try again?"}
		}
		rec.CustomerEmail = strings.ToLower(value)
	case "date":
		rec.ReservationDate = value
	case "time":
		rec.ReservationTime = value
	case "party_size":
		size, err := strconv.Atoi(value)
		if err != nil || size <= 0 {
			return toolx.Outcome{Reply: "How many people should I put the table down for?"}
		}
		rec.PartySize = size
	default:
		return toolx.Outcome{Reply: "Just let me know what you'd like to change - your name, phone, date, time, or party size."}
	}

	return toolx.Outcome{
		Reply: fmt.Sprintf("Got it, changed to %s. Does everything look right now?", value),
		Next:  a.correctionReturnTarget(),
	}
}

func (a *confirmer) correctionReturnTarget() contractx.AgentName {
	switch a.rec.Intent {
	case statex.IntentReservation:
		return contractx.AgentReservationTaker
	default:
		return contractx.AgentOrderTaker
	}
}

func (a *confirmer) orderSummary() string {
	items := make([]string, 0, len(a.rec.Order))
	for _, line := range a.rec.Order {
		if line.Quantity > 1 {
			items = append(items, fmt.Sprintf("%d %s", line.Quantity, line.Item))
		} else {
			items = append(items, line.Item)
		}
	}
	summary := "your order"
	if len(items) > 0 {
		summary = strings.Join(items, ", ")
	}
	if a.rec.CustomerName != "" {
		summary += " for " + a.rec.CustomerName
	}
	return summary
}

func (a *confirmer) reservationSummary() string {
	parts := make([]string, 0, 4)
	if a.rec.ReservationDate != "" {
		parts = append(parts, "on "+a.rec.ReservationDate)
	}
	if a.rec.ReservationTime != "" {
		parts = append(parts, "at "+a.rec.ReservationTime)
	}
	if a.rec.PartySize > 0 {
		people := "people"
		if a.rec.PartySize == 1 {
			people = "person"
		}
		parts = append(parts, fmt.Sprintf("for %d %s", a.rec.PartySize, people))
	}
	if a.rec.CustomerName != "" {
		parts = append(parts, "under "+a.rec.CustomerName)
	}
	if len(parts) == 0 {
		return "your reservation"
	}
	return "table " + strings.Join(parts, " ")
}
