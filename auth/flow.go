package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes requested at login: read access for search, history and liked
// videos, and force-ssl for rating videos.
var Scopes = []string{
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}

var (
	// ErrInvalidState is returned when a callback's state was never issued,
	// was already used, or has expired.
	ErrInvalidState = errors.New("invalid or expired login state")
	// ErrMissingCode is returned when a callback carries no authorization code.
	ErrMissingCode = errors.New("missing authorization code")
)

// stateTTL bounds how long a login URL stays usable.
const stateTTL = 10 * time.Minute

// FlowConfig holds the OAuth client registration.
type FlowConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint overrides the Google endpoints; zero uses google.Endpoint.
	Endpoint oauth2.Endpoint
}

// Flow runs the authorization-code login against Google.
type Flow struct {
	config *oauth2.Config
	now    func() time.Time

	mu     sync.Mutex
	states map[string]time.Time
}

// NewFlow creates a Flow. ClientID and RedirectURL are required.
func NewFlow(cfg FlowConfig) (*Flow, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("oauth client id is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("oauth redirect url is required")
	}
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	return &Flow{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		now:    time.Now,
		states: make(map[string]time.Time),
	}, nil
}

// LoginURL returns the consent page URL with a fresh one-time state.
// Offline access and a forced consent prompt make Google return a refresh
// token on every login.
func (f *Flow) LoginURL() string {
	state := uuid.NewString()

	f.mu.Lock()
	f.pruneLocked()
	f.states[state] = f.now().Add(stateTTL)
	f.mu.Unlock()

	return f.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange validates state and trades code for a token. A state is
// consumed by its first use whether or not the exchange succeeds.
func (f *Flow) Exchange(ctx context.Context, state, code string) (*oauth2.Token, error) {
	if !f.consume(state) {
		return nil, ErrInvalidState
	}
	if code == "" {
		return nil, ErrMissingCode
	}
	tok, err := f.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

func (f *Flow) consume(state string) bool {
	if state == "" {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	expires, ok := f.states[state]
	if !ok {
		return false
	}
	delete(f.states, state)
	return f.now().Before(expires)
}

func (f *Flow) pruneLocked() {
	now := f.now()
	for s, expires := range f.states {
		if !now.Before(expires) {
			delete(f.states, s)
		}
	}
}
