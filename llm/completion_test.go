package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubCompleter struct {
	text  string
	err   error
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.text, s.err
}

type stubProvider struct {
	messages []ChatMessage
	format   *ResponseFormat
	content  string
	err      error
}

func (p *stubProvider) Name() string  { return "stub" }
func (p *stubProvider) Model() string { return "stub-1" }

func (p *stubProvider) ChatWithFormat(ctx context.Context, messages []ChatMessage, format *ResponseFormat) (LLMResponse, error) {
	p.messages = messages
	p.format = format
	return LLMResponse{Content: p.content}, p.err
}

func TestAttemptSuccessTrimsOutput(t *testing.T) {
	c := &stubCompleter{text: "  hello  \n"}
	r := Attempt(context.Background(), c, "prompt")

	v, ok := r.Get()
	if !ok {
		t.Fatalf("expected success, got %v", r.Err())
	}
	if v != "hello" {
		t.Errorf("expected trimmed 'hello', got %q", v)
	}
	if r.Err() != nil {
		t.Errorf("expected nil error, got %v", r.Err())
	}
}

func TestAttemptFailures(t *testing.T) {
	quota := errors.New("quota exceeded")

	tests := []struct {
		name    string
		c       Completer
		wantErr error
	}{
		{name: "nil completer", c: nil, wantErr: ErrCompletionUnavailable},
		{name: "disabled", c: Disabled{}, wantErr: ErrCompletionUnavailable},
		{name: "backend error", c: &stubCompleter{err: quota}, wantErr: quota},
		{name: "blank output", c: &stubCompleter{text: " \n\t"}, wantErr: ErrEmptyCompletion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Attempt(context.Background(), tt.c, "prompt")
			if _, ok := r.Get(); ok {
				t.Fatal("expected failure")
			}
			if !errors.Is(r.Err(), tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, r.Err())
			}
		})
	}
}

func TestAttemptDoesNotRetry(t *testing.T) {
	c := &stubCompleter{err: errors.New("timeout")}
	Attempt(context.Background(), c, "prompt")
	if c.calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", c.calls)
	}
}

func TestZeroResultIsUnavailable(t *testing.T) {
	var r Result[int]
	if _, ok := r.Get(); ok {
		t.Fatal("zero Result should not be ok")
	}
	if !errors.Is(r.Err(), ErrCompletionUnavailable) {
		t.Errorf("expected ErrCompletionUnavailable, got %v", r.Err())
	}
}

func TestRecoverAndMap(t *testing.T) {
	length := Map(Ok("four"), func(s string) int { return len(s) })
	if got := Recover(length, func(*CompletionError) int { return -1 }); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}

	failed := Map(Fail[string](&CompletionError{Err: ErrEmptyCompletion}), func(s string) int { return len(s) })
	var seen *CompletionError
	got := Recover(failed, func(err *CompletionError) int {
		seen = err
		return -1
	})
	if got != -1 {
		t.Errorf("expected fallback value -1, got %d", got)
	}
	if seen == nil || !errors.Is(seen, ErrEmptyCompletion) {
		t.Errorf("fallback should receive the original error, got %v", seen)
	}
}

func TestCompletionErrorNamesBackend(t *testing.T) {
	p := &stubProvider{err: errors.New("boom")}
	r := Attempt(context.Background(), NewCompleter(p), "prompt")
	if r.Err() == nil {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(r.Err().Error(), "stub/stub-1: ") {
		t.Errorf("expected backend prefix, got %q", r.Err().Error())
	}
}

func TestProviderCompleterSendsSingleUserMessage(t *testing.T) {
	p := &stubProvider{content: `{"topic":"bmw"}`}
	c := NewCompleter(p).WithFormat(NewJSONObjectFormat())

	text, err := c.Complete(context.Background(), "extract this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"topic":"bmw"}` {
		t.Errorf("unexpected text %q", text)
	}
	if len(p.messages) != 1 || p.messages[0].Role != "user" || p.messages[0].Content != "extract this" {
		t.Errorf("unexpected messages %+v", p.messages)
	}
	if p.format == nil || p.format.Type != ResponseFormatJSONObject {
		t.Errorf("expected json_object format, got %+v", p.format)
	}
}

func TestProviderCompleterPrependsSystemInstruction(t *testing.T) {
	p := &stubProvider{content: "ok"}
	c := NewCompleter(p).WithSystem("answer in JSON").WithFormat(NewJSONObjectFormat())

	if _, err := c.Complete(context.Background(), "extract this"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ChatMessage{SystemMessage("answer in JSON"), UserMessage("extract this")}
	if len(p.messages) != len(want) {
		t.Fatalf("got %d messages, want %d: %+v", len(p.messages), len(want), p.messages)
	}
	for i := range want {
		if p.messages[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, p.messages[i], want[i])
		}
	}
	if p.format == nil || p.format.Type != ResponseFormatJSONObject {
		t.Errorf("format lost after WithSystem, got %+v", p.format)
	}
}
