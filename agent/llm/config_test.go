package llm

import (
	"errors"
	"testing"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	statex "github.com/wasin-t/tablevoice/agent/state"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "complete", cfg: Config{APIKey: "sk-test", Model: "gpt-4o-mini"}},
		{name: "missing api key", cfg: Config{Model: "gpt-4o-mini"}, wantErr: true},
		{name: "blank api key", cfg: Config{APIKey: "   ", Model: "gpt-4o-mini"}, wantErr: true},
		{name: "missing model", cfg: Config{APIKey: "sk-test"}, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if !errors.Is(err, contractx.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestForAgentOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Model:                  "gpt-4o-mini",
		Temperature:            0.5,
		ConfirmerModel:         "gpt-4o",
		IntentTemperature:      0,
		OrderTemperature:       -1,
		ReservationTemperature: -1,
		ConfirmerTemperature:   -1,
	}

	if model, temp := cfg.ForAgent(contractx.AgentOrderTaker); model != "gpt-4o-mini" || temp != 0.5 {
		t.Fatalf("unset overrides must fall back to base, got %q %v", model, temp)
	}
	if model, temp := cfg.ForAgent(contractx.AgentConfirmer); model != "gpt-4o" || temp != 0.5 {
		t.Fatalf("confirmer model override not applied, got %q %v", model, temp)
	}
	// zero is a valid temperature override, only negatives mean unset
	if _, temp := cfg.ForAgent(contractx.AgentIntentClassifier); temp != 0 {
		t.Fatalf("intent temperature override not applied, got %v", temp)
	}
	if model, temp := cfg.ForAgent("unknown"); model != "gpt-4o-mini" || temp != 0.5 {
		t.Fatalf("unknown variant must resolve to base, got %q %v", model, temp)
	}
}

func TestBackendSetSharesBaseWithoutOverrides(t *testing.T) {
	t.Parallel()

	set, err := NewBackendSet(Config{APIKey: "sk-test", Model: "gpt-4o-mini", ConfirmerModel: "gpt-4o"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.For(contractx.AgentOrderTaker) != set.Base() {
		t.Fatal("variant without overrides must share the base backend")
	}
	if set.For(contractx.AgentConfirmer) == set.Base() {
		t.Fatal("overridden variant must get its own backend")
	}

	confirmer, ok := set.For(contractx.AgentConfirmer).(*OpenAIBackend)
	if !ok {
		t.Fatal("expected an OpenAI backend")
	}
	if confirmer.model != "gpt-4o" {
		t.Fatalf("confirmer model = %q, want gpt-4o", confirmer.model)
	}
}

func TestToToolsShapesFunctionSchema(t *testing.T) {
	t.Parallel()

	tools := toTools([]contractx.ToolSchema{{
		Name: "add_item",
		Desc: "Add one menu item to the customer's order.",
		Params: map[string]contractx.ToolParam{
			"item":     {Type: "string", Desc: "Menu item name", Required: true},
			"quantity": {Type: "integer", Desc: "How many"},
		},
	}})

	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}
	fn := tools[0].OfFunction
	if fn == nil {
		t.Fatal("expected a function tool")
	}
	if fn.Function.Name != "add_item" {
		t.Fatalf("name = %q", fn.Function.Name)
	}

	properties, ok := fn.Function.Parameters["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties missing: %v", fn.Function.Parameters)
	}
	if _, ok := properties["item"]; !ok {
		t.Fatal("item property missing")
	}
	required, ok := fn.Function.Parameters["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "item" {
		t.Fatalf("required = %v", fn.Function.Parameters["required"])
	}
}

func TestToMessagesMapsRoles(t *testing.T) {
	t.Parallel()

	req := contractx.CompletionRequest{
		Instructions: "Be friendly.",
		History: []statex.ContextEntry{
			{ID: "1", Role: statex.RoleUser, Content: "What's on the menu?"},
			{ID: "2", Role: statex.RoleAssistant, Content: "We have pizza and lattes."},
			{ID: "3", Role: statex.RoleTool, Content: "add_item: Added 1 x Latte to your order."},
		},
	}

	msgs := toMessages(req)
	// instructions + 3 history entries
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[0].OfSystem == nil {
		t.Fatal("first message must carry the instructions as system")
	}
	if msgs[1].OfUser == nil {
		t.Fatal("user entry must map to a user message")
	}
	if msgs[2].OfAssistant == nil {
		t.Fatal("assistant entry must map to an assistant message")
	}
	if msgs[3].OfAssistant == nil {
		t.Fatal("tool entry must read back as an assistant message")
	}
}
