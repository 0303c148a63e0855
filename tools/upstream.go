package tools

import (
	"context"

	"github.com/richinex/tubegate/activity"
	"github.com/richinex/tubegate/model"
	"github.com/richinex/tubegate/query"
	"github.com/richinex/tubegate/youtube"
)

// Upstream is the video platform surface the tools call.
type Upstream interface {
	Search(ctx context.Context, token, query string, maxResults int) (model.Page, error)
	History(ctx context.Context, token string, maxResults int) (model.Page, error)
	LikedVideos(ctx context.Context, token string, maxResults int) (model.Page, error)
	Trending(ctx context.Context, token, regionCode string, maxResults int) (model.Page, error)
	LikeVideo(ctx context.Context, token, videoID string) error
}

// Interpreter resolves a natural-language prompt. It never fails.
type Interpreter interface {
	Interpret(ctx context.Context, prompt string) query.Query
}

// Composer writes an activity digest. It never fails.
type Composer interface {
	Compose(ctx context.Context, activities []activity.Canonical, watched, liked int) string
}

var _ Upstream = (*youtube.Client)(nil)

// ItemsResult is the payload of the listing tools.
type ItemsResult struct {
	Items         []model.Item `json:"items"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
	Query         *query.Query `json:"query,omitempty"`
}

// LikeResult is the payload of likeVideo.
type LikeResult struct {
	Success bool   `json:"success"`
	VideoID string `json:"videoId"`
}

// SummaryResult is the payload of activitySummary.
type SummaryResult struct {
	Summary      string               `json:"summary"`
	WatchedCount int                  `json:"watchedCount"`
	LikedCount   int                  `json:"likedCount"`
	Videos       []activity.Canonical `json:"videos"`
}

func itemsOf(page model.Page) ItemsResult {
	items := page.Items
	if items == nil {
		items = []model.Item{}
	}
	return ItemsResult{Items: items, NextPageToken: page.NextPageToken}
}
