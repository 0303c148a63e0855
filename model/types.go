// Package model provides the raw upstream item shapes shared across packages.
//
// Items mirror the JSON the video platform returns. Different feeds put the
// video identifier in different places: search results and liked videos
// carry it in ID, activity entries nest it under ContentDetails.
package model

// Thumbnail is a single preview image.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int64  `json:"width,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// Snippet holds display metadata for a video or activity.
type Snippet struct {
	Title        string               `json:"title"`
	ChannelTitle string               `json:"channelTitle"`
	Description  string               `json:"description,omitempty"`
	PublishedAt  string               `json:"publishedAt,omitempty"`
	Thumbnails   map[string]Thumbnail `json:"thumbnails,omitempty"`
}

// ResourceID points at another platform resource.
type ResourceID struct {
	Kind    string `json:"kind,omitempty"`
	VideoID string `json:"videoId,omitempty"`
}

// Upload is the payload of an upload activity.
type Upload struct {
	VideoID string `json:"videoId,omitempty"`
}

// ResourceRef is the payload of recommendation and like activities.
type ResourceRef struct {
	ResourceID *ResourceID `json:"resourceId,omitempty"`
}

// ContentDetails carries the per-feed identifier substructure.
type ContentDetails struct {
	Upload         *Upload      `json:"upload,omitempty"`
	Recommendation *ResourceRef `json:"recommendation,omitempty"`
	Like           *ResourceRef `json:"like,omitempty"`
	Duration       string       `json:"duration,omitempty"`
}

// Item is one raw result from any feed.
type Item struct {
	Kind           string          `json:"kind,omitempty"`
	ID             string          `json:"id,omitempty"`
	Snippet        *Snippet        `json:"snippet,omitempty"`
	ContentDetails *ContentDetails `json:"contentDetails,omitempty"`
}

// Title returns the snippet title, or "" when the item has no snippet.
func (i Item) Title() string {
	if i.Snippet == nil {
		return ""
	}
	return i.Snippet.Title
}

// Page is one page of items from a list call.
type Page struct {
	Items         []Item `json:"items"`
	NextPageToken string `json:"nextPageToken,omitempty"`
	TotalResults  int64  `json:"totalResults,omitempty"`
}
