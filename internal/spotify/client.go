// Package spotify implements the track lookup gateway: a stateless search
// proxy against the Spotify Web API using the client-credentials grant.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"drift-bottle/internal/utils"
)

const (
	defaultTokenURL  = "https://accounts.spotify.com/api/token"
	defaultSearchURL = "https://api.spotify.com/v1/search"

	// searchLimit bounds every search call.
	searchLimit = 10

	// tokenExpirySkew refreshes the cached bearer token a little before
	// the provider would reject it.
	tokenExpirySkew = 60 * time.Second
)

// Track is the normalized shape returned to callers.
type Track struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	AlbumArt   string  `json:"album_art"`
	URI        string  `json:"uri"`
	PreviewURL *string `json:"preview_url"`
}

// Client exchanges long-lived credentials for short-lived bearer tokens
// and proxies track searches. The bearer token is cached until near
// expiry; credential exchange otherwise happens on demand. Safe for
// concurrent use.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	searchURL    string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Option tweaks a Client, mostly for tests.
type Option func(*Client)

// WithEndpoints overrides the provider endpoints.
func WithEndpoints(tokenURL, searchURL string) Option {
	return func(c *Client) {
		c.tokenURL = tokenURL
		c.searchURL = searchURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		searchURL:    defaultSearchURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search looks up tracks for a free-text query. An empty result is a
// valid outcome, not an error. Queries are not validated here beyond the
// upstream contract; the HTTP handler rejects empty queries before any
// upstream call is made.
func (c *Client) Search(ctx context.Context, query string) ([]Track, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", fmt.Sprintf("%d", searchLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrUpstreamSearch, "Failed to search Spotify", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.NewAppError(utils.ErrUpstreamSearch, "Failed to search Spotify", fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload struct {
		Tracks struct {
			Items []struct {
				ID      string `json:"id"`
				Name    string `json:"name"`
				URI     string `json:"uri"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				Album struct {
					Images []struct {
						URL string `json:"url"`
					} `json:"images"`
				} `json:"album"`
				PreviewURL *string `json:"preview_url"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, utils.NewAppError(utils.ErrUpstreamSearch, "Failed to decode search response", err)
	}

	tracks := make([]Track, 0, len(payload.Tracks.Items))
	for _, item := range payload.Tracks.Items {
		names := make([]string, 0, len(item.Artists))
		for _, artist := range item.Artists {
			names = append(names, artist.Name)
		}

		albumArt := ""
		if len(item.Album.Images) > 0 {
			albumArt = item.Album.Images[0].URL
		}

		tracks = append(tracks, Track{
			ID:         item.ID,
			Name:       item.Name,
			Artist:     strings.Join(names, ", "),
			AlbumArt:   albumArt,
			URI:        item.URI,
			PreviewURL: item.PreviewURL,
		})
	}

	return tracks, nil
}

// bearerToken returns the cached token or performs a client-credentials
// exchange when the cache is empty or near expiry.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, body)
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", utils.NewAppError(utils.ErrUpstreamAuth, "Failed to authenticate with Spotify", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", utils.NewAppError(utils.ErrUpstreamAuth, "Failed to authenticate with Spotify", fmt.Errorf("status %d", resp.StatusCode))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", utils.NewAppError(utils.ErrUpstreamAuth, "Failed to decode token response", err)
	}
	if tokenResp.AccessToken == "" {
		return "", utils.NewAppError(utils.ErrUpstreamAuth, "Failed to authenticate with Spotify", nil)
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - tokenExpirySkew)

	return c.accessToken, nil
}
