package tools

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/richinex/tubegate/activity"
	"github.com/richinex/tubegate/auth"
	"github.com/richinex/tubegate/model"
)

const (
	DefaultHistoryMax = 50
	DefaultLikedMax   = 50
)

// ActivitySummaryTool fetches watch history and liked videos, merges them
// and describes the result.
type ActivitySummaryTool struct {
	upstream   Upstream
	composer   Composer
	historyMax int
	likedMax   int
}

// NewActivitySummaryTool creates the summary tool. Non-positive limits use
// the defaults.
func NewActivitySummaryTool(upstream Upstream, composer Composer, historyMax, likedMax int) *ActivitySummaryTool {
	if historyMax <= 0 {
		historyMax = DefaultHistoryMax
	}
	if likedMax <= 0 {
		likedMax = DefaultLikedMax
	}
	return &ActivitySummaryTool{
		upstream:   upstream,
		composer:   composer,
		historyMax: historyMax,
		likedMax:   likedMax,
	}
}

// Metadata returns the tool metadata.
func (t *ActivitySummaryTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "activitySummary",
		Description: "Summarize recently watched and liked videos",
		Aliases:     []string{"youtube.getActivitySummary"},
	}
}

// Validate accepts any input.
func (t *ActivitySummaryTool) Validate(Input) error {
	return nil
}

// Execute reads both feeds concurrently, then folds history before liked
// regardless of which read finished first. Either read failing fails the
// whole call.
func (t *ActivitySummaryTool) Execute(ctx context.Context, ac auth.Context, _ Input) (any, error) {
	token, err := ac.Require()
	if err != nil {
		return nil, err
	}
	if t.composer == nil {
		return nil, internalf("activitySummary has no composer")
	}

	var history, liked model.Page
	g, gctx := errgroup.WithContext(ctx)
	g.Go(contain("history", func() error {
		var err error
		history, err = t.upstream.History(gctx, token, t.historyMax)
		return err
	}))
	g.Go(contain("liked videos", func() error {
		var err error
		liked, err = t.upstream.LikedVideos(gctx, token, t.likedMax)
		return err
	}))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	videos := activity.Reconcile(history.Items, liked.Items)
	watched, likedCount := len(history.Items), len(liked.Items)

	return SummaryResult{
		Summary:      t.composer.Compose(ctx, videos, watched, likedCount),
		WatchedCount: watched,
		LikedCount:   likedCount,
		Videos:       videos,
	}, nil
}

// contain turns a panic in fetch into an INTERNAL error. Panics on errgroup
// goroutines are out of reach of the dispatcher's recover.
func contain(op string, fetch func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				e := internalf("%s fetch failed unexpectedly", op)
				e.Err = fmt.Errorf("panic: %v", r)
				err = e
			}
		}()
		return fetch()
	}
}

var _ Tool = (*ActivitySummaryTool)(nil)
