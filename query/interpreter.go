// Package query turns a natural-language search request into a topic and
// a result count.
//
// Information Hiding:
// - The completion prompt and the JSON shape asked of the model
// - How loosely-typed model output is coerced into a count
// - The deterministic extractor used when the model is unavailable
//
// Interpret is total: completion failures degrade to Fallback and are
// logged, never returned.
package query

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	jsonx "github.com/richinex/tubegate/internal/json"
	"github.com/richinex/tubegate/llm"
	"github.com/richinex/tubegate/metrics"
)

const (
	MinCount     = 1
	MaxCount     = 10
	DefaultCount = 5
	DefaultTopic = "popular videos"
)

// feature labels completion metrics recorded by this package.
const feature = "query"

// Query is a resolved search request. Topic is never empty and Count is
// always within [MinCount, MaxCount].
type Query struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Clamp bounds n to [MinCount, MaxCount].
func Clamp(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// Interpreter resolves prompts, asking a Completer first.
type Interpreter struct {
	completer llm.Completer
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewInterpreter creates an Interpreter. A nil completer makes every call
// take the fallback path.
func NewInterpreter(completer llm.Completer, logger zerolog.Logger, m *metrics.Metrics) *Interpreter {
	return &Interpreter{
		completer: completer,
		logger:    logger.With().Str("component", "query").Logger(),
		metrics:   m,
	}
}

// Interpret resolves prompt into a Query. The model's topic wins when it
// is non-empty; its count wins when it is a usable integer. Anything the
// model does not supply comes from Fallback applied to the original prompt.
func (i *Interpreter) Interpret(ctx context.Context, prompt string) Query {
	base := Fallback(prompt)

	attempt := llm.Attempt(ctx, i.completer, buildPrompt(prompt))
	resolved := llm.Map(attempt, func(raw string) Query {
		c := parseCandidate(raw)
		q := base
		if c.topic != "" {
			q.Topic = c.topic
			i.metrics.CompletionUsed(feature)
		} else {
			i.metrics.FallbackUsed(feature)
		}
		if c.hasCount {
			q.Count = Clamp(c.count)
		}
		i.logger.Debug().Str("topic", q.Topic).Int("count", q.Count).Msg("prompt interpreted by model")
		return q
	})

	return llm.Recover(resolved, func(err *llm.CompletionError) Query {
		i.logger.Warn().Err(err).Msg("completion failed, using fallback parser")
		i.metrics.FallbackUsed(feature)
		return base
	})
}

var (
	firstInt    = regexp.MustCompile(`\d+`)
	countedTail = regexp.MustCompile(`(?i)\b\d+\s+videos?\s+(?:of|about)\s+(.+)$`)
	videoWord   = regexp.MustCompile(`(?i)\bvideos?\b`)
	ofWord      = regexp.MustCompile(`(?i)\bof\b`)
	spaces      = regexp.MustCompile(`\s+`)
)

// Fallback extracts a Query without a model.
//
// Count is the first integer in prompt (DefaultCount when there is none,
// MaxCount when it does not fit an int), clamped. Topic is the text after
// "<n> video(s) of|about" when the prompt has that shape; otherwise the
// prompt with the first integer, the words video/videos and a standalone
// "of" removed. An empty result reverts to the original prompt, and an
// empty prompt yields DefaultTopic.
func Fallback(prompt string) Query {
	original := strings.TrimSpace(prompt)
	if original == "" {
		return Query{Topic: DefaultTopic, Count: DefaultCount}
	}

	count := DefaultCount
	if loc := firstInt.FindStringIndex(original); loc != nil {
		n, err := strconv.Atoi(original[loc[0]:loc[1]])
		if err != nil {
			n = MaxCount
		}
		count = n
	}

	var topic string
	if m := countedTail.FindStringSubmatch(original); m != nil {
		topic = tidy(m[1])
	} else {
		stripped := original
		if loc := firstInt.FindStringIndex(stripped); loc != nil {
			stripped = stripped[:loc[0]] + " " + stripped[loc[1]:]
		}
		stripped = videoWord.ReplaceAllString(stripped, " ")
		stripped = ofWord.ReplaceAllString(stripped, " ")
		topic = tidy(stripped)
	}
	if topic == "" {
		topic = original
	}

	return Query{Topic: topic, Count: Clamp(count)}
}

func tidy(s string) string {
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ".!?"))
}

func buildPrompt(prompt string) string {
	var b strings.Builder
	b.WriteString("You are a parser for video search requests. The user prompt is:\n")
	b.WriteString(prompt)
	b.WriteString("\n\nExtract the search topic and how many videos the user wants, for example:\n")
	b.WriteString(`{"topic": "bmw cars", "count": 4}`)
	b.WriteString("\nOmit count when the user did not ask for a number. Return ONLY valid JSON.")
	return b.String()
}

type candidate struct {
	topic    string
	count    int
	hasCount bool
}

// parseCandidate reads the model's answer. Output that is not a JSON
// object is treated as empty.
func parseCandidate(raw string) candidate {
	fields, err := jsonx.Decode[map[string]any](raw)
	if err != nil {
		return candidate{}
	}

	var c candidate
	if s, ok := fields["topic"].(string); ok {
		c.topic = strings.TrimSpace(s)
	}
	for _, key := range []string{"count", "maxResults"} {
		if n, ok := coerceCount(fields[key]); ok {
			c.count, c.hasCount = n, true
			break
		}
	}
	return c
}

var leadingInt = regexp.MustCompile(`^[-+]?\d+`)

// coerceCount accepts JSON numbers, truncated toward zero, and strings
// starting with an integer. Out-of-range values saturate so Clamp can bound
// them; everything else is absent.
func coerceCount(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return saturate(math.Trunc(n)), true
	case string:
		digits := leadingInt.FindString(strings.TrimSpace(n))
		if digits == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil && !math.IsInf(f, 0) {
			return 0, false
		}
		return saturate(f), true
	default:
		return 0, false
	}
}

func saturate(f float64) int {
	switch {
	case f > MaxCount:
		return MaxCount
	case f < MinCount:
		return MinCount
	default:
		return int(f)
	}
}
