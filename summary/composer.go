// Package summary writes the natural-language digest of a user's recent
// activity.
//
// Information Hiding:
// - The digest prompt and its title cap
// - The fixed template used when no completion is available
//
// Compose only reads its inputs; it never calls the video platform.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/richinex/tubegate/activity"
	"github.com/richinex/tubegate/llm"
	"github.com/richinex/tubegate/metrics"
)

const (
	// DefaultTitleCap is how many titles the digest prompt lists.
	DefaultTitleCap = 40
	MinTitleCap     = 20
	MaxTitleCap     = 40
)

const feature = "summary"

// Composer builds activity digests.
type Composer struct {
	completer llm.Completer
	titleCap  int
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewComposer creates a Composer. titleCap outside [MinTitleCap, MaxTitleCap]
// is replaced by DefaultTitleCap.
func NewComposer(completer llm.Completer, titleCap int, logger zerolog.Logger, m *metrics.Metrics) *Composer {
	if titleCap < MinTitleCap || titleCap > MaxTitleCap {
		titleCap = DefaultTitleCap
	}
	return &Composer{
		completer: completer,
		titleCap:  titleCap,
		logger:    logger.With().Str("component", "summary").Logger(),
		metrics:   m,
	}
}

// TitleCap returns the number of titles sent to the model.
func (c *Composer) TitleCap() int {
	return c.titleCap
}

// Compose returns the model's digest of activities, or Fallback when the
// model fails, is unavailable or answers with blank text. With no titles
// to describe the model is not asked at all.
func (c *Composer) Compose(ctx context.Context, activities []activity.Canonical, watched, liked int) string {
	titles := activity.Titles(activities, c.titleCap)
	if len(titles) == 0 {
		c.metrics.FallbackUsed(feature)
		return Fallback(len(activities), watched, liked)
	}

	digest := llm.Map(llm.Attempt(ctx, c.completer, BuildPrompt(titles, watched, liked)), func(text string) string {
		c.metrics.CompletionUsed(feature)
		return text
	})
	return llm.Recover(digest, func(err *llm.CompletionError) string {
		c.logger.Warn().Err(err).Int("activities", len(activities)).Msg("completion failed, using summary template")
		c.metrics.FallbackUsed(feature)
		return Fallback(len(activities), watched, liked)
	})
}

// Fallback is the fixed digest reporting only counts.
func Fallback(total, watched, liked int) string {
	return fmt.Sprintf("Today you interacted with %d videos. You watched around %d, and liked about %d.", total, watched, liked)
}

// BuildPrompt lists titles, in order, with the fetched counts and asks for
// a short digest.
func BuildPrompt(titles []string, watched, liked int) string {
	var b strings.Builder
	b.WriteString("These are the titles of videos the user watched or liked recently:\n")
	for _, title := range titles {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nVideos watched: %d\nVideos liked: %d\n", watched, liked)
	b.WriteString("\nWrite a DAY SUMMARY with:\n")
	b.WriteString("- How many videos watched\n")
	b.WriteString("- How many liked\n")
	b.WriteString("- Main topics / interests\n")
	b.WriteString("- 3-5 types of videos to watch next.\n")
	b.WriteString("Keep it under 200 words.")
	return b.String()
}
