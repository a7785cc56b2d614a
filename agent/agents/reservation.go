package agents

import (
	"context"
	"fmt"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	toolx "github.com/wasin-t/tablevoice/agent/tool"
)

type reservationTaker struct {
	baseAgent
}

func newReservationTaker(d Deps) *reservationTaker {
	instructions := "You're a friendly cafe staff member helping with table reservations. " +
		"Chat naturally about when they'd like to come in and how many people. Ask for " +
		"their name and phone in a casual way when you need it. Be warm and welcoming, " +
		"like you're genuinely excited to have them visit."

	a := &reservationTaker{}
	a.baseAgent = newBase(contractx.AgentReservationTaker, instructions, d, []toolx.Definition{
		{
			ToolSchema: contractx.ToolSchema{
				Name: "set_reservation_details",
				Desc: "Record date, time, and party size for the reservation.",
				Params: map[string]contractx.ToolParam{
					"date":       {Type: "string", Desc: "Reservation date", Required: true},
					"time":       {Type: "string", Desc: "Reservation time", Required: true},
					"party_size": {Type: "integer", Desc: "Number of people", Required: true},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) toolx.Outcome {
				date := toolx.StringArg(args, "date")
				timeOfDay := toolx.StringArg(args, "time")
				partySize, ok := toolx.IntArg(args, "party_size")
				if !ok || partySize <= 0 {
					return toolx.Outcome{Reply: "How many people should I put the table down for?"}
				}
				if err := d.Record.SetReservation(date, timeOfDay, partySize); err != nil {
					return toolx.Outcome{Reply: "Could you give me the date and time once more?"}
				}
				return toolx.Outcome{Reply: fmt.Sprintf("A table on %s at %s for %d, lovely.", date, timeOfDay, partySize)}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "confirm_reservation",
				Desc:   "The reservation details are complete; hand off to confirmation.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: func(ctx context.Context, args map[string]any) toolx.Outcome {
				return toolx.Outcome{Next: contractx.AgentConfirmer}
			},
		},
	})
	return a
}

func (a *reservationTaker) HandleTurn(ctx context.Context, utterance string) (contractx.TurnResult, error) {
	return a.handleTurn(ctx, utterance, a.CompletionHint)
}

func (a *reservationTaker) CompletionHint() string {
	if a.rec.CustomerName != "" && a.rec.CustomerPhone != "" && a.rec.HasReservation() {
		return "You can now use confirm_reservation to save this."
	}
	return ""
}
