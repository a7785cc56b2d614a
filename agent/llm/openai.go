// Package llm implements the reasoning backend contract on the OpenAI chat
// completions API.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	statex "github.com/wasin-t/tablevoice/agent/state"
)

type OpenAIBackend struct {
	client      openaisdk.Client
	model       string
	maxTokens   int64
	temperature float64
}

var _ contractx.Backend = (*OpenAIBackend)(nil)

func NewOpenAIBackend(cfg Config) (*OpenAIBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIBackend{
		client:      openaisdk.NewClient(opts...),
		model:       strings.TrimSpace(cfg.Model),
		maxTokens:   int64(cfg.MaxCompletionTokens),
		temperature: cfg.Temperature,
	}, nil
}

// BackendSet hands out the reasoning backend for each agent variant.
// Variants without overrides share the base backend; an overridden variant
// gets its own backend with the resolved model and temperature.
type BackendSet struct {
	base     *OpenAIBackend
	variants map[contractx.AgentName]*OpenAIBackend
}

func NewBackendSet(cfg Config) (*BackendSet, error) {
	base, err := NewOpenAIBackend(cfg)
	if err != nil {
		return nil, err
	}

	set := &BackendSet{
		base:     base,
		variants: make(map[contractx.AgentName]*OpenAIBackend, 4),
	}
	for _, name := range []contractx.AgentName{
		contractx.AgentIntentClassifier,
		contractx.AgentOrderTaker,
		contractx.AgentReservationTaker,
		contractx.AgentConfirmer,
	} {
		model, temp := cfg.ForAgent(name)
		if model == strings.TrimSpace(cfg.Model) && temp == cfg.Temperature {
			set.variants[name] = base
			continue
		}
		variantCfg := cfg
		variantCfg.Model = model
		variantCfg.Temperature = temp
		backend, err := NewOpenAIBackend(variantCfg)
		if err != nil {
			return nil, fmt.Errorf("backend for %s: %w", name, err)
		}
		set.variants[name] = backend
	}
	return set, nil
}

// Base is the fallback backend for callers that do not resolve per variant.
func (s *BackendSet) Base() contractx.Backend {
	return s.base
}

// For returns the backend serving the named variant.
func (s *BackendSet) For(name contractx.AgentName) contractx.Backend {
	if b, ok := s.variants[name]; ok {
		return b
	}
	return s.base
}

// Complete sends one agent activation or turn to the model. The reply is
// either plain text or the first tool invocation the model produced.
func (b *OpenAIBackend) Complete(ctx context.Context, req contractx.CompletionRequest) (contractx.CompletionReply, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:               openaisdk.ChatModel(b.model),
		Messages:            toMessages(req),
		MaxCompletionTokens: openaisdk.Int(b.maxTokens),
		Temperature:         openaisdk.Float(b.temperature),
	}
	if len(req.Tools) > 0 {
		params.Tools = toTools(req.Tools)
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return contractx.CompletionReply{}, fmt.Errorf("%w: %v", contractx.ErrBackend, err)
	}
	if len(resp.Choices) == 0 {
		return contractx.CompletionReply{}, fmt.Errorf("%w: empty completion", contractx.ErrBackend)
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return contractx.CompletionReply{Text: strings.TrimSpace(msg.Content)}, nil
	}

	call := msg.ToolCalls[0]
	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.CompletionReply{}, fmt.Errorf("%w: invalid tool args for %s: %v", contractx.ErrBackend, call.Function.Name, err)
		}
	}
	return contractx.CompletionReply{
		ToolName: call.Function.Name,
		ToolArgs: args,
	}, nil
}

func toMessages(req contractx.CompletionRequest) []openaisdk.ChatCompletionMessageParamUnion {
	msgs := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(req.History)+1)
	msgs = append(msgs, openaisdk.SystemMessage(req.Instructions))
	for _, entry := range req.History {
		switch entry.Role {
		case statex.RoleSystem:
			msgs = append(msgs, openaisdk.SystemMessage(entry.Content))
		case statex.RoleUser:
			msgs = append(msgs, openaisdk.UserMessage(entry.Content))
		default:
			// assistant and tool entries both read back as assistant turns
			msgs = append(msgs, openaisdk.AssistantMessage(entry.Content))
		}
	}
	return msgs
}

func toTools(schemas []contractx.ToolSchema) []openaisdk.ChatCompletionToolUnionParam {
	tools := make([]openaisdk.ChatCompletionToolUnionParam, 0, len(schemas))
	for _, schema := range schemas {
		properties := make(map[string]any, len(schema.Params))
		required := make([]string, 0, len(schema.Params))
		for name, param := range schema.Params {
			properties[name] = map[string]any{
				"type":        param.Type,
				"description": param.Desc,
			}
			if param.Required {
				required = append(required, name)
			}
		}
		tools = append(tools, openaisdk.ChatCompletionFunctionTool(openaisdk.FunctionDefinitionParam{
			Name:        schema.Name,
			Description: openaisdk.String(schema.Desc),
			Parameters: openaisdk.FunctionParameters{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		}))
	}
	return tools
}
