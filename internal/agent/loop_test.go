package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3"
)

// scriptedProvider returns one canned completion per round and records the
// messages it was called with.
type scriptedProvider struct {
	responses []*openai.ChatCompletion
	errs      []error
	calls     [][]openai.ChatCompletionMessageParamUnion
}

func (p *scriptedProvider) Chat(_ context.Context, messages []openai.ChatCompletionMessageParamUnion, _ []openai.ChatCompletionToolUnionParam) (*openai.ChatCompletion, error) {
	round := len(p.calls)
	p.calls = append(p.calls, messages)
	if round < len(p.errs) && p.errs[round] != nil {
		return nil, p.errs[round]
	}
	if round < len(p.responses) {
		return p.responses[round], nil
	}
	return textCompletion(""), nil
}

func textCompletion(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Content: content},
		}},
	}
}

func toolCallCompletion(calls ...openai.ChatCompletionMessageToolCallUnion) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{ToolCalls: calls},
		}},
	}
}

func functionCall(id, name, arguments string) openai.ChatCompletionMessageToolCallUnion {
	return openai.ChatCompletionMessageToolCallUnion{
		ID:   id,
		Type: "function",
		Function: openai.ChatCompletionMessageFunctionToolCallFunction{
			Name:      name,
			Arguments: arguments,
		},
	}
}

// echoTool reflects its input; panicTool and failTool model faulting tools.
type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "Echo the input back." }
func (echoTool) InputSchema() any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}
func (echoTool) Execute(_ context.Context, input string) (string, error) {
	return `{"echoed":` + input + `}`, nil
}

type panicTool struct{}

func (panicTool) Name() string        { return "panic" }
func (panicTool) Description() string { return "Always panics." }
func (panicTool) InputSchema() any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}
func (panicTool) Execute(context.Context, string) (string, error) {
	panic("boom")
}

type failTool struct{}

func (failTool) Name() string        { return "fail" }
func (failTool) Description() string { return "Always errors." }
func (failTool) InputSchema() any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}
func (failTool) Execute(context.Context, string) (string, error) {
	return "", errors.New("database exploded")
}

func newTestRunner(provider *scriptedProvider, tools ...Tool) *Runner {
	registry := NewRegistry()
	for _, t := range tools {
		registry.Register(t)
	}
	return NewRunner(provider, registry)
}

func TestRunDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*openai.ChatCompletion{
		textCompletion("Welcome to GoodFoods!"),
	}}
	runner := newTestRunner(provider, echoTool{})

	reply := runner.Run(context.Background(), "s1", "hello", nil)
	if reply != "Welcome to GoodFoods!" {
		t.Errorf("got reply %q", reply)
	}
	if len(provider.calls) != 1 {
		t.Errorf("model called %d times, want 1", len(provider.calls))
	}
}

func TestRunToolRound(t *testing.T) {
	provider := &scriptedProvider{responses: []*openai.ChatCompletion{
		toolCallCompletion(functionCall("call_1", "echo", `{"q":"pizza"}`)),
		textCompletion("Found it."),
	}}
	runner := newTestRunner(provider, echoTool{})

	var events []Event
	reply := runner.Run(context.Background(), "s1", "find pizza", func(ev Event) {
		events = append(events, ev)
	})

	if reply != "Found it." {
		t.Errorf("got reply %q", reply)
	}
	if len(provider.calls) != 2 {
		t.Fatalf("model called %d times, want 2", len(provider.calls))
	}

	var types []EventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	want := []EventType{EventToolCall, EventToolResult, EventDone}
	if len(types) != len(want) {
		t.Fatalf("got events %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d: got %v, want %v", i, types[i], want[i])
		}
	}
}

func TestRunAtMostTwoRounds(t *testing.T) {
	// The second round requests more tool calls; they must not execute.
	provider := &scriptedProvider{responses: []*openai.ChatCompletion{
		toolCallCompletion(functionCall("call_1", "echo", `{}`)),
		toolCallCompletion(functionCall("call_2", "echo", `{}`)),
	}}
	runner := newTestRunner(provider, echoTool{})

	var toolCalls int
	reply := runner.Run(context.Background(), "s1", "go", func(ev Event) {
		if ev.Type == EventToolCall {
			toolCalls++
		}
	})

	if len(provider.calls) != 2 {
		t.Errorf("model called %d times, want 2", len(provider.calls))
	}
	if toolCalls != 1 {
		t.Errorf("executed %d tool calls, want 1", toolCalls)
	}
	if reply != fallbackProcessed {
		t.Errorf("got reply %q, want fallback", reply)
	}
}

func TestRunUnknownTool(t *testing.T) {
	provider := &scriptedProvider{responses: []*openai.ChatCompletion{
		toolCallCompletion(functionCall("call_1", "time_travel", `{}`)),
		textCompletion("Sorry, I could not do that."),
	}}
	runner := newTestRunner(provider, echoTool{})

	var result string
	reply := runner.Run(context.Background(), "s1", "go", func(ev Event) {
		if ev.Type == EventToolResult {
			result = ev.Data.(map[string]string)["content"]
		}
	})

	if !strings.Contains(result, "Unknown tool: time_travel") {
		t.Errorf("tool result %q does not name the unknown tool", result)
	}
	if reply != "Sorry, I could not do that." {
		t.Errorf("got reply %q", reply)
	}
}

func TestRunToolErrorBecomesData(t *testing.T) {
	provider := &scriptedProvider{responses: []*openai.ChatCompletion{
		toolCallCompletion(functionCall("call_1", "fail", `{}`)),
		textCompletion("Something went wrong with that lookup."),
	}}
	runner := newTestRunner(provider, failTool{})

	var result string
	reply := runner.Run(context.Background(), "s1", "go", func(ev Event) {
		if ev.Type == EventToolResult {
			result = ev.Data.(map[string]string)["content"]
		}
	})

	if !strings.Contains(result, "Tool execution failed: database exploded") {
		t.Errorf("tool result %q does not carry the failure", result)
	}
	if reply == "" || strings.Contains(reply, "database exploded") {
		t.Errorf("raw error leaked into reply %q", reply)
	}
}

func TestRunToolPanicBecomesData(t *testing.T) {
	provider := &scriptedProvider{responses: []*openai.ChatCompletion{
		toolCallCompletion(functionCall("call_1", "panic", `{}`)),
		textCompletion("ok"),
	}}
	runner := newTestRunner(provider, panicTool{})

	var result string
	reply := runner.Run(context.Background(), "s1", "go", func(ev Event) {
		if ev.Type == EventToolResult {
			result = ev.Data.(map[string]string)["content"]
		}
	})

	if !strings.Contains(result, "Tool execution failed") {
		t.Errorf("tool result %q does not report the fault", result)
	}
	if reply != "ok" {
		t.Errorf("got reply %q, turn should survive a panicking tool", reply)
	}
}

func TestRunModelFailureApologizes(t *testing.T) {
	provider := &scriptedProvider{errs: []error{errors.New("connection refused")}}
	runner := newTestRunner(provider, echoTool{})

	reply := runner.Run(context.Background(), "s1", "hello", nil)
	if reply != apologyReply {
		t.Errorf("got reply %q, want apology", reply)
	}
	if strings.Contains(reply, "connection refused") {
		t.Errorf("raw error leaked into reply %q", reply)
	}
}

func TestRunEmptyCompletionFallsBack(t *testing.T) {
	provider := &scriptedProvider{responses: []*openai.ChatCompletion{
		textCompletion(""),
	}}
	runner := newTestRunner(provider, echoTool{})

	reply := runner.Run(context.Background(), "s1", "hello", nil)
	if reply != fallbackNoAnswer {
		t.Errorf("got reply %q, want %q", reply, fallbackNoAnswer)
	}
}

func TestRunKeepsSessionHistory(t *testing.T) {
	provider := &scriptedProvider{responses: []*openai.ChatCompletion{
		textCompletion("First answer."),
		textCompletion("Second answer."),
	}}
	runner := newTestRunner(provider, echoTool{})
	ctx := context.Background()

	runner.Run(ctx, "s1", "first", nil)
	runner.Run(ctx, "s1", "second", nil)

	// System prompt + first user + first assistant + second user.
	secondCall := provider.calls[1]
	if len(secondCall) != 4 {
		t.Errorf("second round saw %d messages, want 4", len(secondCall))
	}

	runner.Reset("s1")
	runner.Run(ctx, "s1", "third", nil)
	thirdCall := provider.calls[2]
	if len(thirdCall) != 2 {
		t.Errorf("after reset saw %d messages, want 2", len(thirdCall))
	}
}

func TestRegistryPreservesOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Register(failTool{})
	registry.Register(echoTool{})
	registry.Register(panicTool{})

	var names []string
	for _, tool := range registry.All() {
		names = append(names, tool.Name())
	}
	want := []string{"fail", "echo", "panic"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got order %v, want %v", names, want)
		}
	}
}
