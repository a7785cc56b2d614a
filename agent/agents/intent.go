package agents

import (
	"context"
	"fmt"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	statex "github.com/wasin-t/tablevoice/agent/state"
	toolx "github.com/wasin-t/tablevoice/agent/tool"
)

// intentClassifier is the first agent on every call. It answers simple menu
// and hours questions itself and only transfers on explicit order or
// reservation intent.
type intentClassifier struct {
	baseAgent
}

func newIntentClassifier(d Deps) *intentClassifier {
	instructions := fmt.Sprintf(
		"You're a friendly cafe staff member. Listen to what the customer wants and help "+
			"them in a warm, natural way.\n\n"+
			"Our Menu Today:\n%s\n\n"+
			"GUIDELINES:\n"+
			"- If they want to order food, use intent_is_order\n"+
			"- If they want to make a reservation, use intent_is_reservation\n"+
			"- Answer simple questions about menu and hours yourself\n"+
			"- Use the shared tools to capture customer information\n"+
			"- Be warm and welcoming, especially to returning customers",
		menuText(d),
	)
	if d.RestaurantPhone != "" {
		instructions += fmt.Sprintf("\n- If asked, our phone number is %s", d.RestaurantPhone)
	}

	a := &intentClassifier{}
	a.baseAgent = newBase(contractx.AgentIntentClassifier, instructions, d, []toolx.Definition{
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "intent_is_order",
				Desc:   "The customer explicitly wants to place a food order.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: func(ctx context.Context, args map[string]any) toolx.Outcome {
				d.Record.Intent = statex.IntentOrder
				return toolx.Outcome{Next: contractx.AgentOrderTaker}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "intent_is_reservation",
				Desc:   "The customer explicitly wants to reserve a table.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: func(ctx context.Context, args map[string]any) toolx.Outcome {
				d.Record.Intent = statex.IntentReservation
				return toolx.Outcome{Next: contractx.AgentReservationTaker}
			},
		},
	})
	return a
}

func (a *intentClassifier) HandleTurn(ctx context.Context, utterance string) (contractx.TurnResult, error) {
	return a.handleTurn(ctx, utterance, nil)
}
