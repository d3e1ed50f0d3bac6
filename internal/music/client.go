// Package music talks to the Spotify Web API to turn a detected emotion and
// its analysis accuracy into track and playlist recommendations. All access
// uses the client-credentials flow; the token is cached and refreshed on
// expiry by the underlying oauth2 transport.
package music

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNotConfigured is returned when Spotify credentials are missing. Callers
// surface this as a degraded (empty) recommendation payload rather than a
// hard failure.
var ErrNotConfigured = errors.New("spotify credentials not configured")

// Config carries the Spotify application credentials. TokenURL and BaseURL
// override the production endpoints and exist for tests.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
}

// Client wraps the Spotify API client with mood-oriented search methods.
type Client struct {
	api        *spotify.Client
	configured bool
}

// NewClient builds a Client from application credentials. A client built
// without credentials is still usable; every call returns ErrNotConfigured.
func NewClient(cfg Config) *Client {
	configured := cfg.ClientID != "" && cfg.ClientSecret != ""
	log.Info().
		Bool("client_id_set", cfg.ClientID != "").
		Bool("client_secret_set", cfg.ClientSecret != "").
		Msg("spotify client initialized")
	if !configured {
		return &Client{}
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	opts := []spotify.ClientOption{spotify.WithRetry(true)}
	if cfg.BaseURL != "" {
		opts = append(opts, spotify.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api:        spotify.New(cc.Client(context.Background()), opts...),
		configured: true,
	}
}

// Configured reports whether the client has credentials and can reach the
// API.
func (c *Client) Configured() bool { return c.configured }

func normalizeEmotion(emotion string) string {
	return strings.ToLower(strings.TrimSpace(emotion))
}
