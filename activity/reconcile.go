// Package activity merges the watch-history and liked-video feeds into one
// deduplicated, source-tagged list.
//
// Information Hiding:
// - Where each feed keeps its video identifier (see IDRules)
// - Merge bookkeeping (index map, source sets)
package activity

import (
	"github.com/richinex/tubegate/model"
)

// Source tags which feed an activity came from.
type Source string

const (
	Watched Source = "watched"
	Liked   Source = "liked"
)

// Snippet is the display metadata kept for a reconciled activity.
type Snippet struct {
	Title        string                     `json:"title"`
	ChannelTitle string                     `json:"channelTitle"`
	Thumbnails   map[string]model.Thumbnail `json:"thumbnails"`
}

// Canonical is one video in a reconciled set. Sources is never empty and
// holds each tag at most once, in the order the feeds were folded.
type Canonical struct {
	ID      string   `json:"id"`
	Snippet Snippet  `json:"snippet"`
	Sources []Source `json:"sources"`
}

// HasSource reports whether s is among the activity's sources.
func (c Canonical) HasSource(s Source) bool {
	for _, have := range c.Sources {
		if have == s {
			return true
		}
	}
	return false
}

// IDRule extracts a candidate canonical id from an item.
// An empty result means the rule does not apply.
type IDRule struct {
	Name    string
	Extract func(model.Item) string
}

// IDRules is the canonical-id precedence: the first rule that yields a
// non-empty id wins.
var IDRules = []IDRule{
	{Name: "upload", Extract: func(it model.Item) string {
		if it.ContentDetails == nil || it.ContentDetails.Upload == nil {
			return ""
		}
		return it.ContentDetails.Upload.VideoID
	}},
	{Name: "recommendation", Extract: func(it model.Item) string {
		if it.ContentDetails == nil {
			return ""
		}
		return resourceVideoID(it.ContentDetails.Recommendation)
	}},
	{Name: "like", Extract: func(it model.Item) string {
		if it.ContentDetails == nil {
			return ""
		}
		return resourceVideoID(it.ContentDetails.Like)
	}},
	{Name: "id", Extract: func(it model.Item) string {
		return it.ID
	}},
}

func resourceVideoID(ref *model.ResourceRef) string {
	if ref == nil || ref.ResourceID == nil {
		return ""
	}
	return ref.ResourceID.VideoID
}

// CanonicalID resolves an item's video id using IDRules.
func CanonicalID(item model.Item) (string, bool) {
	return canonicalID(IDRules, item)
}

func canonicalID(rules []IDRule, item model.Item) (string, bool) {
	for _, rule := range rules {
		if id := rule.Extract(item); id != "" {
			return id, true
		}
	}
	return "", false
}

// Reconcile folds history (tagged Watched) and then liked (tagged Liked)
// into one list keyed by canonical id. The first occurrence of an id keeps
// its snippet; later occurrences only add their source tag. Items with no
// resolvable id are dropped. Output follows first-seen order.
func Reconcile(history, liked []model.Item) []Canonical {
	return ReconcileWith(IDRules, history, liked)
}

// ReconcileWith is Reconcile with a caller-supplied rule list.
func ReconcileWith(rules []IDRule, history, liked []model.Item) []Canonical {
	m := newMerger(rules, len(history)+len(liked))
	m.fold(history, Watched)
	m.fold(liked, Liked)
	return m.out
}

type merger struct {
	rules []IDRule
	index map[string]int
	out   []Canonical
}

func newMerger(rules []IDRule, capacity int) *merger {
	return &merger{
		rules: rules,
		index: make(map[string]int, capacity),
		out:   make([]Canonical, 0, capacity),
	}
}

func (m *merger) fold(items []model.Item, source Source) {
	for _, item := range items {
		id, ok := canonicalID(m.rules, item)
		if !ok {
			continue
		}
		if i, seen := m.index[id]; seen {
			if !m.out[i].HasSource(source) {
				m.out[i].Sources = append(m.out[i].Sources, source)
			}
			continue
		}
		m.index[id] = len(m.out)
		m.out = append(m.out, Canonical{
			ID:      id,
			Snippet: snippetOf(item),
			Sources: []Source{source},
		})
	}
}

func snippetOf(item model.Item) Snippet {
	if item.Snippet == nil {
		return Snippet{Thumbnails: map[string]model.Thumbnail{}}
	}
	thumbs := make(map[string]model.Thumbnail, len(item.Snippet.Thumbnails))
	for k, v := range item.Snippet.Thumbnails {
		thumbs[k] = v
	}
	return Snippet{
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		Thumbnails:   thumbs,
	}
}

// Titles returns up to limit non-empty titles in list order.
// A limit <= 0 means no limit.
func Titles(activities []Canonical, limit int) []string {
	titles := make([]string, 0, len(activities))
	for _, a := range activities {
		if a.Snippet.Title == "" {
			continue
		}
		if limit > 0 && len(titles) == limit {
			break
		}
		titles = append(titles, a.Snippet.Title)
	}
	return titles
}
