package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"goodfoods/internal/llm"
	"goodfoods/internal/trace"

	"github.com/openai/openai-go/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	fallbackNoAnswer  = "I'm not sure how to help with that."
	fallbackProcessed = "I processed your request."
	apologyReply      = "I'm sorry, something went wrong while handling your request. Please try again."
)

type RunnerOption func(*Runner)

func WithSystemPrompt(s string) RunnerOption {
	return func(r *Runner) { r.systemPrompt = s }
}

// Runner drives one user turn through at most two model round-trips: the
// model either answers directly, or requests tool invocations which are
// executed sequentially and fed back for a final answer. No tool dispatch
// happens after the second round.
type Runner struct {
	provider     llm.Provider
	registry     *Registry
	sessions     *SessionStore
	tools        []openai.ChatCompletionToolUnionParam
	systemPrompt string
}

func NewRunner(provider llm.Provider, registry *Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		provider:     provider,
		registry:     registry,
		sessions:     NewSessionStore(),
		systemPrompt: defaultSystemPrompt,
	}

	for _, opt := range opts {
		opt(r)
	}

	for _, t := range registry.All() {
		schema, _ := t.InputSchema().(map[string]any)
		r.tools = append(r.tools, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name(),
			Description: openai.String(t.Description()),
			Parameters:  openai.FunctionParameters(schema),
		}))
	}

	return r
}

// Reset discards a session's transcript.
func (r *Runner) Reset(sessionID string) {
	r.sessions.Reset(sessionID)
}

// Run processes one user message and always returns a textual reply: every
// fault on the way — transport error, malformed response, a panicking
// tool — degrades to an apologetic message rather than an error.
func (r *Runner) Run(ctx context.Context, sessionID, message string, emit func(Event)) (reply string) {
	if emit == nil {
		emit = func(Event) {}
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("agent: panic during turn", "session_id", sessionID, "panic", rec)
			reply = apologyReply
		}
		emit(Event{Type: EventDone, Data: reply})
	}()

	ctx, span := trace.Tracer().Start(ctx, "agent.run",
		oteltrace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	userMsg := openai.UserMessage(message)
	messages := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(r.systemPrompt)}
	messages = append(messages, r.sessions.History(sessionID)...)
	messages = append(messages, userMsg)

	comp, err := r.chat(ctx, messages, 0)
	if err != nil {
		slog.Error("agent: model call failed", "session_id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apologyReply
	}
	if len(comp.Choices) == 0 {
		slog.Error("agent: model returned no choices", "session_id", sessionID)
		return apologyReply
	}
	assistant := comp.Choices[0].Message

	// No tool calls: the model's text is the final answer.
	if len(assistant.ToolCalls) == 0 {
		reply = assistant.Content
		if reply == "" {
			reply = fallbackNoAnswer
		}
		r.sessions.Append(sessionID, userMsg, openai.AssistantMessage(reply))
		return reply
	}

	// Execute every requested invocation and append its result under the
	// call's correlation id.
	turn := []openai.ChatCompletionMessageParamUnion{userMsg, assistant.ToParam()}
	messages = append(messages, assistant.ToParam())
	for _, call := range assistant.ToolCalls {
		emit(Event{Type: EventToolCall, Data: map[string]string{
			"name":      call.Function.Name,
			"arguments": call.Function.Arguments,
		}})

		result := r.dispatch(ctx, call.Function.Name, call.Function.Arguments)

		emit(Event{Type: EventToolResult, Data: map[string]string{
			"name":    call.Function.Name,
			"content": result,
		}})

		toolMsg := openai.ToolMessage(result, call.ID)
		messages = append(messages, toolMsg)
		turn = append(turn, toolMsg)
	}

	comp, err = r.chat(ctx, messages, 1)
	if err != nil {
		slog.Error("agent: final model call failed", "session_id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apologyReply
	}

	reply = fallbackProcessed
	if len(comp.Choices) > 0 && comp.Choices[0].Message.Content != "" {
		reply = comp.Choices[0].Message.Content
	}
	r.sessions.Append(sessionID, append(turn, openai.AssistantMessage(reply))...)
	return reply
}

// chat performs a single model round. The tool schema catalog goes along on
// every round, even the final one where no dispatch will happen.
func (r *Runner) chat(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, round int) (*openai.ChatCompletion, error) {
	ctx, span := trace.Tracer().Start(ctx, "llm.chat",
		oteltrace.WithAttributes(attribute.Int("llm.round", round)),
	)
	defer span.End()

	comp, err := r.provider.Chat(ctx, messages, r.tools)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("llm.model", comp.Model),
		attribute.Int64("llm.input_tokens", comp.Usage.PromptTokens),
		attribute.Int64("llm.output_tokens", comp.Usage.CompletionTokens),
	)
	return comp, nil
}

// dispatch runs one tool invocation and always produces a serialized
// result: unknown names and faulting tools become structured error objects
// so a single bad call cannot abort the turn.
func (r *Runner) dispatch(ctx context.Context, name, arguments string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("tool panicked", "name", name, "panic", rec)
			out = errorResult(fmt.Sprintf("Tool execution failed: %v", rec))
		}
	}()

	tool, ok := r.registry.Get(name)
	if !ok {
		slog.Warn("unknown tool call", "name", name)
		return errorResult("Unknown tool: " + name)
	}

	result, err := withTrace(tool).Execute(ctx, arguments)
	if err != nil {
		slog.Warn("tool execution failed", "name", name, "error", err)
		return errorResult("Tool execution failed: " + err.Error())
	}
	return result
}

func errorResult(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}
