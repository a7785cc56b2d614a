package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	statex "github.com/wasin-t/tablevoice/agent/state"
	restaurantx "github.com/wasin-t/tablevoice/store/restaurant"
)

// Shared builds the toolset every agent variant carries: customer field
// setters, special instructions, session summary, loyalty check, and the
// out-of-scope end_call. Setters validate before mutating; a failed
// validation leaves the session record untouched and speaks a correction
// prompt instead.
func Shared(rec *statex.SessionRecord, store restaurantx.Store) []Definition {
	return []Definition{
		{
			ToolSchema: contractx.ToolSchema{
				Name: "update_customer_name",
				Desc: "Record the customer's full name.",
				Params: map[string]contractx.ToolParam{
					"name": {Type: "string", Desc: "Customer's full name", Required: true},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) Outcome {
				name := TitleCase(StringArg(args, "name"))
				if name == "" {
					return Outcome{Reply: "I didn't catch your name, could you say it again?"}
				}
				rec.CustomerName = name
				return Outcome{Reply: fmt.Sprintf("Got it! I have your name as %s", name)}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name: "update_customer_phone",
				Desc: "Record the customer's phone number and look up their history.",
				Params: map[string]contractx.ToolParam{
					"phone": {Type: "string", Desc: "Customer's phone number", Required: true},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) Outcome {
				phone := StringArg(args, "phone")
				if !ValidPhone(phone) {
					return Outcome{Reply: "That phone number doesn't look right. Could you repeat it with the area code?"}
				}
				rec.CustomerPhone = NormalizePhone(phone)
				return Outcome{Reply: welcomeByPhone(ctx, rec, store)}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name: "update_customer_email",
				Desc: "Record the customer's email address.",
				Params: map[string]contractx.ToolParam{
					"email": {Type: "string", Desc: "Customer's email address", Required: true},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) Outcome {
				email := StringArg(args, "email")
				if !ValidEmail(email) {
					return Outcome{Reply: "That doesn't look like a valid email address. Could you try again?"}
				}
				rec.CustomerEmail = strings.ToLower(email)
				return Outcome{Reply: fmt.Sprintf("Email updated to %s", rec.CustomerEmail)}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name: "add_special_instructions",
				Desc: "Add special instructions to the current order or reservation.",
				Params: map[string]contractx.ToolParam{
					"instructions": {Type: "string", Desc: "Special instructions", Required: true},
				},
			},
			Handler: func(ctx context.Context, args map[string]any) Outcome {
				instructions := StringArg(args, "instructions")
				if instructions == "" {
					return Outcome{Reply: "What would you like me to note down?"}
				}
				rec.SpecialInstructions = instructions
				return Outcome{Reply: fmt.Sprintf("Added special instructions: %s", instructions)}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "get_customer_summary",
				Desc:   "Summarize everything collected so far in this session.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: func(ctx context.Context, args map[string]any) Outcome {
				return Outcome{Reply: rec.Summarize()}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "check_loyalty_status",
				Desc:   "Check the customer's loyalty points.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: func(ctx context.Context, args map[string]any) Outcome {
				if rec.LoyaltyPoints > 0 {
					return Outcome{Reply: fmt.Sprintf("You have %d loyalty points available!", rec.LoyaltyPoints)}
				}
				return Outcome{Reply: "You don't have any loyalty points yet, but you'll start earning them with your next order!"}
			},
		},
		{
			ToolSchema: contractx.ToolSchema{
				Name:   "end_call",
				Desc:   "End the call when the request is outside the restaurant's scope.",
				Params: map[string]contractx.ToolParam{},
			},
			Handler: func(ctx context.Context, args map[string]any) Outcome {
				return Outcome{
					Reply:   "Thank you for your time, have a wonderful day.",
					EndCall: true,
				}
			},
		},
	}
}

// welcomeByPhone pulls history for a freshly recorded phone number. Lookup
// failure degrades to a plain confirmation; the turn never fails on it.
func welcomeByPhone(ctx context.Context, rec *statex.SessionRecord, store restaurantx.Store) string {
	plain := fmt.Sprintf("Phone number updated to %s.", rec.CustomerPhone)
	if store == nil {
		return plain
	}

	cust, err := store.CustomerByPhone(ctx, rec.CustomerPhone)
	if err != nil {
		log.Warn().Err(err).Str("call_id", rec.CallID).Msg("customer lookup failed")
		return plain
	}
	if cust == nil {
		return plain + " Welcome to our restaurant!"
	}

	rec.PriorOrders = cust.TotalOrders
	rec.LoyaltyPoints = cust.LoyaltyPoints
	rec.Preferences = cust.Preferences
	if rec.CustomerName == "" && cust.Name != "" {
		rec.CustomerName = cust.Name
	}

	name := cust.Name
	if name == "" {
		name = "valued customer"
	}
	msg := fmt.Sprintf("Welcome back, %s!", name)
	if cust.LoyaltyPoints > 0 {
		msg += fmt.Sprintf(" I see you have %d loyalty points.", cust.LoyaltyPoints)
	}
	if cust.TotalOrders > 0 {
		msg += fmt.Sprintf(" You've ordered with us %d times before.", cust.TotalOrders)
	}
	return msg
}
