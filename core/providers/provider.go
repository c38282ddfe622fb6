// Package providers implements the model-calling collaborator: a
// provider-neutral request/response primitive over the Anthropic and OpenAI
// SDKs. The generation pipeline only ever sees the types in this file.
package providers

import (
	"context"
)

// Provider is a model-calling backend. Generate issues one completion
// request and blocks until the model responds or ctx is done.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Request describes one completion call.
type Request struct {
	Model        string    `json:"model,omitempty"`
	MaxTokens    int       `json:"max_tokens,omitempty"`
	Temperature  *float64  `json:"temperature,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Tools        []Tool    `json:"tools,omitempty"`
	Messages     []Message `json:"messages"`
}

// Message is one turn of the conversation history.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolError  bool       `json:"tool_error,omitempty"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Tool declares a callable tool to the model. Parameters is a JSON Schema
// object ("properties", "required").
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall is a tool invocation requested by the model. Arguments is the raw
// JSON input payload; ID correlates the eventual tool result back to this
// invocation.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Response is the model's reply: the concatenated plain-text segments, any
// requested tool invocations, and a stop indicator.
type Response struct {
	Content    string     `json:"content"`
	Model      string     `json:"model"`
	StopReason StopReason `json:"stop_reason"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	Usage      Usage      `json:"usage"`
}

// WantsTools reports whether the model stopped to request tool execution.
func (r *Response) WantsTools() bool {
	return r.StopReason == StopReasonToolUse && len(r.ToolCalls) > 0
}

type StopReason string

const (
	StopReasonEndTurn      StopReason = "end_turn"
	StopReasonMaxTokens    StopReason = "max_tokens"
	StopReasonStopSequence StopReason = "stop_sequence"
	StopReasonToolUse      StopReason = "tool_use"
)

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
