// Package youtube is the video platform client used by the tools.
//
// Information Hiding:
// - The YouTube Data API v3 resources, parts and parameters each call uses
// - How a bearer token becomes an authenticated HTTP client
// - Conversion of the API's typed responses into model.Page
//
// Every call takes the caller's access token; the client holds no credential.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/richinex/tubegate/metrics"
	"github.com/richinex/tubegate/model"
)

// ErrNoToken is returned when a call is made without an access token.
var ErrNoToken = errors.New("missing access token")

// Error describes a failed platform call. Status is the HTTP status when
// the platform answered, 0 otherwise.
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("youtube %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("youtube %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds client settings. Zero values use the public API and a
// 15 second timeout.
type Config struct {
	Endpoint  string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client calls the YouTube Data API on behalf of a token holder.
type Client struct {
	endpoint  string
	timeout   time.Duration
	transport http.RoundTripper
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewClient creates a Client.
func NewClient(cfg Config, logger zerolog.Logger, m *metrics.Metrics) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint != "" && !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		endpoint:  endpoint,
		timeout:   timeout,
		transport: transport,
		logger:    logger.With().Str("component", "youtube").Logger(),
		metrics:   m,
	}
}

// Search returns videos matching query.
func (c *Client) Search(ctx context.Context, token, query string, maxResults int) (model.Page, error) {
	const op = "search"
	svc, err := c.service(ctx, op, token)
	if err != nil {
		return model.Page{}, err
	}
	resp, err := svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return model.Page{}, c.fail(op, err)
	}
	c.done(op, len(resp.Items))

	page := model.Page{Items: make([]model.Item, 0, len(resp.Items)), NextPageToken: resp.NextPageToken}
	if resp.PageInfo != nil {
		page.TotalResults = resp.PageInfo.TotalResults
	}
	for _, r := range resp.Items {
		if r == nil {
			continue
		}
		item := model.Item{Kind: r.Kind}
		if r.Id != nil {
			item.ID = r.Id.VideoId
		}
		if s := r.Snippet; s != nil {
			item.Snippet = snippet(s.Title, s.ChannelTitle, s.Description, s.PublishedAt, s.Thumbnails)
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// History returns the authenticated user's recent channel activity.
func (c *Client) History(ctx context.Context, token string, maxResults int) (model.Page, error) {
	const op = "history"
	svc, err := c.service(ctx, op, token)
	if err != nil {
		return model.Page{}, err
	}
	resp, err := svc.Activities.List([]string{"snippet", "contentDetails"}).
		Mine(true).
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return model.Page{}, c.fail(op, err)
	}
	c.done(op, len(resp.Items))

	page := model.Page{Items: make([]model.Item, 0, len(resp.Items)), NextPageToken: resp.NextPageToken}
	if resp.PageInfo != nil {
		page.TotalResults = resp.PageInfo.TotalResults
	}
	for _, a := range resp.Items {
		if a == nil {
			continue
		}
		item := model.Item{Kind: a.Kind, ID: a.Id}
		if s := a.Snippet; s != nil {
			item.Snippet = snippet(s.Title, s.ChannelTitle, s.Description, s.PublishedAt, s.Thumbnails)
		}
		if d := a.ContentDetails; d != nil {
			item.ContentDetails = activityDetails(d)
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// LikedVideos returns videos the authenticated user rated "like".
func (c *Client) LikedVideos(ctx context.Context, token string, maxResults int) (model.Page, error) {
	const op = "likedVideos"
	svc, err := c.service(ctx, op, token)
	if err != nil {
		return model.Page{}, err
	}
	resp, err := svc.Videos.List([]string{"snippet", "contentDetails"}).
		MyRating("like").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return model.Page{}, c.fail(op, err)
	}
	c.done(op, len(resp.Items))
	return videoPage(resp), nil
}

// Trending returns the most popular videos in regionCode.
func (c *Client) Trending(ctx context.Context, token, regionCode string, maxResults int) (model.Page, error) {
	const op = "trending"
	svc, err := c.service(ctx, op, token)
	if err != nil {
		return model.Page{}, err
	}
	resp, err := svc.Videos.List([]string{"snippet", "contentDetails"}).
		Chart("mostPopular").
		RegionCode(regionCode).
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return model.Page{}, c.fail(op, err)
	}
	c.done(op, len(resp.Items))
	return videoPage(resp), nil
}

// LikeVideo rates videoID "like" for the authenticated user.
func (c *Client) LikeVideo(ctx context.Context, token, videoID string) error {
	const op = "likeVideo"
	svc, err := c.service(ctx, op, token)
	if err != nil {
		return err
	}
	if err := svc.Videos.Rate(videoID, "like").Context(ctx).Do(); err != nil {
		return c.fail(op, err)
	}
	c.done(op, 1)
	return nil
}

func (c *Client) service(ctx context.Context, op, token string) (*yt.Service, error) {
	if strings.TrimSpace(token) == "" {
		return nil, c.fail(op, ErrNoToken)
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: src, Base: c.transport},
		Timeout:   c.timeout,
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return svc, nil
}

func (c *Client) fail(op string, err error) error {
	c.metrics.ObserveUpstream(op, err)

	e := &Error{Op: op, Err: err}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		e.Status = apiErr.Code
		if apiErr.Message != "" {
			e.Err = errors.New(apiErr.Message)
		}
	}
	c.logger.Warn().Str("op", op).Int("status", e.Status).Err(e.Err).Msg("upstream call failed")
	return e
}

func (c *Client) done(op string, n int) {
	c.metrics.ObserveUpstream(op, nil)
	c.logger.Debug().Str("op", op).Int("items", n).Msg("upstream call succeeded")
}

func videoPage(resp *yt.VideoListResponse) model.Page {
	page := model.Page{Items: make([]model.Item, 0, len(resp.Items)), NextPageToken: resp.NextPageToken}
	if resp.PageInfo != nil {
		page.TotalResults = resp.PageInfo.TotalResults
	}
	for _, v := range resp.Items {
		if v == nil {
			continue
		}
		item := model.Item{Kind: v.Kind, ID: v.Id}
		if s := v.Snippet; s != nil {
			item.Snippet = snippet(s.Title, s.ChannelTitle, s.Description, s.PublishedAt, s.Thumbnails)
		}
		if d := v.ContentDetails; d != nil && d.Duration != "" {
			item.ContentDetails = &model.ContentDetails{Duration: d.Duration}
		}
		page.Items = append(page.Items, item)
	}
	return page
}

func snippet(title, channel, description, published string, thumbs *yt.ThumbnailDetails) *model.Snippet {
	return &model.Snippet{
		Title:        title,
		ChannelTitle: channel,
		Description:  description,
		PublishedAt:  published,
		Thumbnails:   thumbnails(thumbs),
	}
}

func thumbnails(d *yt.ThumbnailDetails) map[string]model.Thumbnail {
	if d == nil {
		return nil
	}
	out := make(map[string]model.Thumbnail, 5)
	for key, t := range map[string]*yt.Thumbnail{
		"default":  d.Default,
		"medium":   d.Medium,
		"high":     d.High,
		"standard": d.Standard,
		"maxres":   d.Maxres,
	} {
		if t != nil && t.Url != "" {
			out[key] = model.Thumbnail{URL: t.Url, Width: t.Width, Height: t.Height}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func activityDetails(d *yt.ActivityContentDetails) *model.ContentDetails {
	out := &model.ContentDetails{}
	if d.Upload != nil {
		out.Upload = &model.Upload{VideoID: d.Upload.VideoId}
	}
	if d.Recommendation != nil {
		out.Recommendation = resourceRef(d.Recommendation.ResourceId)
	}
	if d.Like != nil {
		out.Like = resourceRef(d.Like.ResourceId)
	}
	return out
}

func resourceRef(id *yt.ResourceId) *model.ResourceRef {
	if id == nil {
		return &model.ResourceRef{}
	}
	return &model.ResourceRef{ResourceID: &model.ResourceID{Kind: id.Kind, VideoID: id.VideoId}}
}
