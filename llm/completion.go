// Text completion capability used by the gateway's AI-assisted features.
//
// Information Hiding:
// - Which provider answers a prompt
// - How provider failures, empty output and a missing provider collapse
//   into a single CompletionError
//
// Callers receive a Result and choose a deterministic fallback for the
// error branch; completion failures never travel further than that.

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCompletionUnavailable is returned when no completion backend is configured.
	ErrCompletionUnavailable = errors.New("text completion unavailable")
	// ErrEmptyCompletion is returned when the backend answered with blank text.
	ErrEmptyCompletion = errors.New("text completion returned empty output")
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompletionError describes why a completion produced no usable text.
type CompletionError struct {
	Backend string
	Err     error
}

func (e *CompletionError) Error() string {
	if e.Backend == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Result holds either a value or the CompletionError that prevented it.
// The zero Result is an error result for ErrCompletionUnavailable.
type Result[T any] struct {
	value T
	err   *CompletionError
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Fail wraps err as a failed result.
func Fail[T any](err *CompletionError) Result[T] {
	if err == nil {
		err = &CompletionError{Err: ErrCompletionUnavailable}
	}
	return Result[T]{err: err}
}

// Get returns the value and whether the result succeeded.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.ok
}

// Err returns the failure, or nil for a successful result.
func (r Result[T]) Err() *CompletionError {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return &CompletionError{Err: ErrCompletionUnavailable}
	}
	return r.err
}

// Map applies fn to a successful value. A failure passes through unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if v, ok := r.Get(); ok {
		return Ok(fn(v))
	}
	return Fail[U](r.Err())
}

// Recover returns the value of r, or fallback(err) when r failed.
// fallback must be total; it is called at most once.
func Recover[T any](r Result[T], fallback func(*CompletionError) T) T {
	if v, ok := r.Get(); ok {
		return v
	}
	return fallback(r.Err())
}

// Attempt runs a single completion. It never retries; nil completers,
// transport errors and blank output all come back as a failed Result.
func Attempt(ctx context.Context, c Completer, prompt string) Result[string] {
	if c == nil {
		return Fail[string](&CompletionError{Err: ErrCompletionUnavailable})
	}
	backend := completerName(c)
	text, err := c.Complete(ctx, prompt)
	if err != nil {
		return Fail[string](&CompletionError{Backend: backend, Err: err})
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Fail[string](&CompletionError{Backend: backend, Err: ErrEmptyCompletion})
	}
	return Ok(text)
}

// ProviderCompleter adapts a Provider to the Completer interface by
// sending the prompt as a single user message, optionally preceded by a
// system instruction.
type ProviderCompleter struct {
	provider Provider
	format   *ResponseFormat
	system   string
}

// NewCompleter wraps provider for free-text completions.
func NewCompleter(provider Provider) *ProviderCompleter {
	return &ProviderCompleter{provider: provider}
}

// WithFormat returns a copy that requests the given response format.
func (c *ProviderCompleter) WithFormat(format *ResponseFormat) *ProviderCompleter {
	return &ProviderCompleter{provider: c.provider, format: format, system: c.system}
}

// WithSystem returns a copy that sends instruction as a system message
// ahead of every prompt.
func (c *ProviderCompleter) WithSystem(instruction string) *ProviderCompleter {
	return &ProviderCompleter{provider: c.provider, format: c.format, system: instruction}
}

// Name returns "<provider>/<model>".
func (c *ProviderCompleter) Name() string {
	return c.provider.Name() + "/" + c.provider.Model()
}

// Complete implements Completer.
func (c *ProviderCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	messages := make([]ChatMessage, 0, 2)
	if c.system != "" {
		messages = append(messages, SystemMessage(c.system))
	}
	messages = append(messages, UserMessage(prompt))

	resp, err := c.provider.ChatWithFormat(ctx, messages, c.format)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Disabled is a Completer that always reports ErrCompletionUnavailable.
type Disabled struct{}

// Complete implements Completer.
func (Disabled) Complete(context.Context, string) (string, error) {
	return "", ErrCompletionUnavailable
}

// Name implements the optional naming interface.
func (Disabled) Name() string {
	return "disabled"
}

func completerName(c Completer) string {
	if named, ok := c.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}

var (
	_ Completer = (*ProviderCompleter)(nil)
	_ Completer = Disabled{}
)
