package activity

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/richinex/tubegate/model"
)

func video(id, title string) model.Item {
	return model.Item{ID: id, Snippet: &model.Snippet{Title: title}}
}

func uploadActivity(activityID, videoID, title string) model.Item {
	return model.Item{
		ID:             activityID,
		Snippet:        &model.Snippet{Title: title},
		ContentDetails: &model.ContentDetails{Upload: &model.Upload{VideoID: videoID}},
	}
}

func ids(list []Canonical) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func TestCanonicalIDPrecedence(t *testing.T) {
	ref := func(id string) *model.ResourceRef {
		return &model.ResourceRef{ResourceID: &model.ResourceID{VideoID: id}}
	}

	tests := []struct {
		name   string
		item   model.Item
		want   string
		wantOK bool
	}{
		{
			name: "upload beats everything",
			item: model.Item{ID: "act", ContentDetails: &model.ContentDetails{
				Upload: &model.Upload{VideoID: "up"}, Recommendation: ref("rec"), Like: ref("like"),
			}},
			want: "up", wantOK: true,
		},
		{
			name: "recommendation beats like",
			item: model.Item{ID: "act", ContentDetails: &model.ContentDetails{
				Recommendation: ref("rec"), Like: ref("like"),
			}},
			want: "rec", wantOK: true,
		},
		{
			name: "like beats own id",
			item: model.Item{ID: "act", ContentDetails: &model.ContentDetails{Like: ref("like")}},
			want: "like", wantOK: true,
		},
		{
			name: "empty upload falls through",
			item: model.Item{ID: "act", ContentDetails: &model.ContentDetails{Upload: &model.Upload{}}},
			want: "act", wantOK: true,
		},
		{
			name: "resource without id falls through",
			item: model.Item{ID: "act", ContentDetails: &model.ContentDetails{Like: &model.ResourceRef{}}},
			want: "act", wantOK: true,
		},
		{
			name:   "unresolvable",
			item:   model.Item{Snippet: &model.Snippet{Title: "orphan"}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalID(tt.item)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CanonicalID() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIDRulesOrder(t *testing.T) {
	var names []string
	for _, r := range IDRules {
		names = append(names, r.Name)
	}
	want := []string{"upload", "recommendation", "like", "id"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("IDRules order = %v, want %v", names, want)
	}
}

func TestReconcileMergesSources(t *testing.T) {
	history := []model.Item{uploadActivity("act-1", "v1", "From history")}
	liked := []model.Item{video("v1", "From liked")}

	got := Reconcile(history, liked)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d: %+v", len(got), got)
	}
	if got[0].ID != "v1" {
		t.Errorf("expected id v1, got %q", got[0].ID)
	}
	if !reflect.DeepEqual(got[0].Sources, []Source{Watched, Liked}) {
		t.Errorf("expected [watched liked], got %v", got[0].Sources)
	}
	if got[0].Snippet.Title != "From history" {
		t.Errorf("first occurrence snippet should win, got %q", got[0].Snippet.Title)
	}
}

func TestReconcileOrderAndDrops(t *testing.T) {
	history := []model.Item{
		video("a", "A"),
		{Snippet: &model.Snippet{Title: "no id"}},
		video("b", "B"),
		video("a", "A again"),
	}
	liked := []model.Item{
		video("c", "C"),
		video("b", "B liked"),
		video("d", "D"),
	}

	got := Reconcile(history, liked)
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("order = %v, want %v", ids(got), want)
	}
	if !reflect.DeepEqual(got[0].Sources, []Source{Watched}) {
		t.Errorf("duplicate within one feed must not repeat a tag, got %v", got[0].Sources)
	}
	if !reflect.DeepEqual(got[1].Sources, []Source{Watched, Liked}) {
		t.Errorf("b should be watched+liked, got %v", got[1].Sources)
	}
	if !reflect.DeepEqual(got[2].Sources, []Source{Liked}) {
		t.Errorf("c should be liked only, got %v", got[2].Sources)
	}
}

func TestReconcileSingleHistoryItem(t *testing.T) {
	got := Reconcile([]model.Item{video("a", "A")}, nil)
	if len(got) != 1 || got[0].ID != "a" || !reflect.DeepEqual(got[0].Sources, []Source{Watched}) {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestReconcileEmpty(t *testing.T) {
	got := Reconcile(nil, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	history := []model.Item{
		uploadActivity("act-1", "v1", "One"),
		{ID: "v2", Snippet: &model.Snippet{Title: "Two", Thumbnails: map[string]model.Thumbnail{
			"high":    {URL: "https://i.ytimg.com/vi/v2/hq.jpg"},
			"default": {URL: "https://i.ytimg.com/vi/v2/d.jpg"},
			"medium":  {URL: "https://i.ytimg.com/vi/v2/mq.jpg"},
		}}},
	}
	liked := []model.Item{video("v2", "Two"), video("v3", "Three")}

	first, err := json.Marshal(Reconcile(history, liked))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Reconcile(history, liked))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("reconcile is not idempotent:\n%s\n%s", first, second)
	}
}

func TestReconcileDoesNotAliasInputThumbnails(t *testing.T) {
	thumbs := map[string]model.Thumbnail{"default": {URL: "before"}}
	history := []model.Item{{ID: "a", Snippet: &model.Snippet{Title: "A", Thumbnails: thumbs}}}

	got := Reconcile(history, nil)
	thumbs["default"] = model.Thumbnail{URL: "after"}

	if got[0].Snippet.Thumbnails["default"].URL != "before" {
		t.Error("reconciled snippet should not share the input thumbnail map")
	}
}

func TestReconcileWithCustomRules(t *testing.T) {
	onlyID := []IDRule{IDRules[len(IDRules)-1]}
	history := []model.Item{uploadActivity("act-1", "v1", "One")}

	got := ReconcileWith(onlyID, history, nil)
	if len(got) != 1 || got[0].ID != "act-1" {
		t.Errorf("expected activity id with id-only rules, got %+v", got)
	}
}

func TestTitles(t *testing.T) {
	list := []Canonical{
		{ID: "a", Snippet: Snippet{Title: "A"}},
		{ID: "b"},
		{ID: "c", Snippet: Snippet{Title: "C"}},
		{ID: "d", Snippet: Snippet{Title: "D"}},
	}

	if got := Titles(list, 2); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("Titles(2) = %v", got)
	}
	if got := Titles(list, 0); !reflect.DeepEqual(got, []string{"A", "C", "D"}) {
		t.Errorf("Titles(0) = %v", got)
	}
}
