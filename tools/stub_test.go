package tools

import (
	"context"
	"sync"

	"github.com/richinex/tubegate/activity"
	"github.com/richinex/tubegate/model"
	"github.com/richinex/tubegate/query"
)

// stubUpstream counts calls and returns canned pages.
type stubUpstream struct {
	mu    sync.Mutex
	calls map[string]int

	searchPage  model.Page
	history     model.Page
	liked       model.Page
	trending    model.Page
	err         error
	historyErr  error
	lastQuery   string
	lastMax     int
	lastRegion  string
	lastVideoID string
	lastToken   string

	// historyPanic and likedPanic, when set, are raised by the reads.
	historyPanic any
	likedPanic   any

	// historyWait, when set, blocks History until it is closed.
	historyWait chan struct{}
	// likedDone, when set, is closed once LikedVideos returns.
	likedDone chan struct{}
}

func newStubUpstream() *stubUpstream {
	return &stubUpstream{calls: make(map[string]int)}
}

func (s *stubUpstream) record(op, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	s.lastToken = token
}

func (s *stubUpstream) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *stubUpstream) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubUpstream) Search(ctx context.Context, token, q string, maxResults int) (model.Page, error) {
	s.record("search", token)
	s.mu.Lock()
	s.lastQuery, s.lastMax = q, maxResults
	s.mu.Unlock()
	return s.searchPage, s.err
}

func (s *stubUpstream) History(ctx context.Context, token string, maxResults int) (model.Page, error) {
	s.record("history", token)
	if s.historyPanic != nil {
		panic(s.historyPanic)
	}
	if s.historyWait != nil {
		select {
		case <-s.historyWait:
		case <-ctx.Done():
			return model.Page{}, ctx.Err()
		}
	}
	if s.historyErr != nil {
		return model.Page{}, s.historyErr
	}
	return s.history, s.err
}

func (s *stubUpstream) LikedVideos(ctx context.Context, token string, maxResults int) (model.Page, error) {
	s.record("liked", token)
	if s.likedPanic != nil {
		panic(s.likedPanic)
	}
	if s.likedDone != nil {
		defer close(s.likedDone)
	}
	return s.liked, s.err
}

func (s *stubUpstream) Trending(ctx context.Context, token, region string, maxResults int) (model.Page, error) {
	s.record("trending", token)
	s.mu.Lock()
	s.lastRegion, s.lastMax = region, maxResults
	s.mu.Unlock()
	return s.trending, s.err
}

func (s *stubUpstream) LikeVideo(ctx context.Context, token, videoID string) error {
	s.record("like", token)
	s.mu.Lock()
	s.lastVideoID = videoID
	s.mu.Unlock()
	return s.err
}

type stubInterpreter struct {
	q      query.Query
	prompt string
}

func (s *stubInterpreter) Interpret(ctx context.Context, prompt string) query.Query {
	s.prompt = prompt
	return s.q
}

type stubComposer struct {
	text       string
	activities []activity.Canonical
	watched    int
	liked      int
}

func (s *stubComposer) Compose(ctx context.Context, activities []activity.Canonical, watched, liked int) string {
	s.activities, s.watched, s.liked = activities, watched, liked
	return s.text
}

func item(id, title string) model.Item {
	return model.Item{ID: id, Snippet: &model.Snippet{Title: title}}
}
