package agent

import "context"

// Tool is a named, schema-described operation the model may request.
// Execute receives the raw argument payload and returns the serialized
// result. Business failures (validation, not-found, rule refusals) belong
// in the result payload as data; a non-nil error means the tool itself
// faulted unexpectedly.
type Tool interface {
	Name() string
	Description() string
	InputSchema() any
	Execute(ctx context.Context, input string) (string, error)
}

// Registry is the fixed catalog of tools. Registration order is preserved
// so the schema catalog sent to the model is identical on every round.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
