package rewrite

import "context"

// Backend is the capability a render engine (command or llm) exposes to
// the rewrite protocol: rewrite one chunk of protected text given
// instructions, or fail.
type Backend interface {
	Rewrite(ctx context.Context, instructions, text string) (string, error)
}

// BackendFunc adapts a function to Backend, convenient for tests. The noop
// render engine uses no Backend at all.
type BackendFunc func(ctx context.Context, instructions, text string) (string, error)

// Rewrite implements Backend.
func (f BackendFunc) Rewrite(ctx context.Context, instructions, text string) (string, error) {
	return f(ctx, instructions, text)
}
