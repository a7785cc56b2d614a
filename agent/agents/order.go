package agents

import (
	"context"
	"fmt"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	toolx "github.com/wasin-t/tablevoice/agent/tool"
)

type orderTaker struct {
	baseAgent
}

func newOrderTaker(d Deps) *orderTaker {
	instructions := fmt.Sprintf(
		"You're a friendly cafe staff member taking orders. Chat naturally with customers "+
			"about what they'd like to eat or drink. Only ask for information you actually "+
			"need - don't interrogate them.\n\n"+
			"Our Menu Today:\n%s\n\n"+
			"GUIDELINES:\n"+
			"- Help customers choose from our available menu items\n"+
			"- Ask about quantity and any modifications\n"+
			"- Use shared tools to collect customer info (name, phone)\n"+
			"- When the order is complete, use finalize_order to proceed to confirmation\n"+
			"- Suggest popular items if customers seem unsure\n"+
			"- Mention loyalty points for returning customers",
		menuText(d),
	)

	a := &orderTaker{}
	a.baseAgent = newBase(contractx.AgentOrderTaker, instructions, d, []toolx.Definition{
		{
			ToolSchema: contractx.ToolSchema{
				Name: "add_item",
				Desc: "Add one menu item to the customer's order.",
				Params: map[string]contractx.ToolParam{
					"item":          {Type: "string", Desc: "Menu item name", Required: true},
					"quantity":      {Type: "integer", Desc: "How many", Required: true},
					"modifications": {Type: "string", Desc: "Comma-separated modifications"},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) toolx.Outcome {
				item := toolx.StringArg(args, "item")
				quantity, ok := toolx.IntArg(args, "quantity")
				if !ok {
					quantity = 1
				}
				mods := toolx.StringsArg(args, "modifications")
				if err := d.Record.AddItem(item, quantity, mods); err != nil {
					return toolx.Outcome{Reply: "Sorry, I didn't catch that item. What would you like to order?"}
				}
				return toolx.Outcome{Reply: fmt.Sprintf("Added %d x %s to your order.", quantity, item)}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name: "set_payment_method",
				Desc: "Record how the customer will pay.",
				Params: map[string]contractx.ToolParam{
					"method": {Type: "string", Desc: "cash, card, or online", Required: true},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) toolx.Outcome {
				method := toolx.StringArg(args, "method")
				if method == "" {
					return toolx.Outcome{Reply: "How would you like to pay - cash, card, or online?"}
				}
				d.Record.PaymentMethod = method
				return toolx.Outcome{Reply: fmt.Sprintf("Noted, paying by %s.", method)}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "finalize_order",
				Desc:   "The order is complete; hand off to confirmation.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: func(ctx context.Context, args map[string]any) toolx.Outcome {
				return toolx.Outcome{Next: contractx.AgentConfirmer}
			},
		},
	})
	return a
}

func (a *orderTaker) HandleTurn(ctx context.Context, utterance string) (contractx.TurnResult, error) {
	return a.handleTurn(ctx, utterance, a.CompletionHint)
}

// CompletionHint reports when enough is collected to confirm. Advisory only.
func (a *orderTaker) CompletionHint() string {
	if a.rec.CustomerName != "" && a.rec.CustomerPhone != "" && a.rec.HasOrder() {
		return "You may now confirm the order."
	}
	return ""
}
