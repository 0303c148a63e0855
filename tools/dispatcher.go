// Tool Dispatcher.
//
// Information Hiding:
// - Auth gating, validation and routing order hidden
// - Panic containment hidden
// - Request correlation and metrics hidden

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/richinex/tubegate/auth"
	"github.com/richinex/tubegate/metrics"
)

// ErrMalformedCall marks an envelope that is not a JSON tool call.
var ErrMalformedCall = errors.New("malformed tool call")

// Call is an inbound tool-call envelope.
type Call struct {
	Tool  string `json:"tool"`
	Input Input  `json:"input"`
}

// Result is either a tool payload or an Error. It encodes to exactly one
// JSON object: the payload, or {"error": message}.
type Result struct {
	Payload any
	Err     *Error
}

// Success returns true if the dispatch succeeded.
func (r Result) Success() bool {
	return r.Err == nil
}

// Malformed reports whether the envelope itself could not be decoded.
func (r Result) Malformed() bool {
	return r.Err != nil && errors.Is(r.Err, ErrMalformedCall)
}

// MarshalJSON implements custom JSON marshaling for Result.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Err.Message})
	}
	if r.Payload == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Payload)
}

func failure(err *Error) Result {
	return Result{Err: err}
}

// Dispatcher routes calls to registered tools.
type Dispatcher struct {
	registry *Registry
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewDispatcher creates a Dispatcher over registry.
func NewDispatcher(registry *Registry, logger zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
		metrics:  m,
	}
}

// Registry returns the tools this dispatcher routes to.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs call with the credential in ac.
//
// The credential is checked first, before the tool name, so an anonymous
// caller never reaches validation or the platform. Input errors are
// reported before any upstream call. Dispatch never panics; a panicking
// tool yields an INTERNAL error result.
func (d *Dispatcher) Dispatch(ctx context.Context, ac auth.Context, call Call) (res Result) {
	start := time.Now()
	label := "unknown"
	log := d.logger.With().
		Str("request_id", uuid.NewString()).
		Str("tool", call.Tool).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("tool panicked")
			res = failure(internalf("%s failed unexpectedly", call.Tool))
		}

		code := "ok"
		event := log.Info()
		if res.Err != nil {
			code = string(res.Err.Code)
			event = log.Warn().Str("code", code).Str("error", res.Err.Message)
			if res.Err.Err != nil {
				event = event.AnErr("cause", res.Err.Err)
			}
		}
		elapsed := time.Since(start)
		event.Dur("elapsed", elapsed).Msg("dispatch finished")
		d.metrics.ObserveDispatch(label, code, elapsed)
	}()

	if !ac.Authenticated() {
		return failure(unauthenticated())
	}

	tool, ok := d.registry.Get(call.Tool)
	if !ok {
		return failure(unknownTool(call.Tool))
	}
	label = tool.Metadata().Name

	in := call.Input
	if in == nil {
		in = Input{}
	}
	if err := tool.Validate(in); err != nil {
		return failure(classify(err, CodeInvalidInput))
	}

	payload, err := tool.Execute(ctx, ac, in)
	if err != nil {
		return failure(classify(err, CodeUpstreamFailure))
	}
	if payload == nil {
		return failure(internalf("%s returned no result", label))
	}
	return Result{Payload: payload}
}

// DispatchJSON decodes a raw envelope and dispatches it. Malformed JSON is
// an INVALID_INPUT result wrapping ErrMalformedCall.
func (d *Dispatcher) DispatchJSON(ctx context.Context, ac auth.Context, raw []byte) Result {
	var call Call
	if err := json.Unmarshal(raw, &call); err != nil {
		return failure(&Error{
			Code:    CodeInvalidInput,
			Message: fmt.Sprintf("Invalid input: %v: %v", ErrMalformedCall, err),
			Err:     fmt.Errorf("%w: %w", ErrMalformedCall, err),
		})
	}
	return d.Dispatch(ctx, ac, call)
}
