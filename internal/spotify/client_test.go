package spotify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	stdctx "context"

	"drift-bottle/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeProvider(t *testing.T, searchBody string) (*httptest.Server, *int32, *int32) {
	t.Helper()
	var authCalls, searchCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&authCalls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fake-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&searchCalls, 1)
		assert.Equal(t, "Bearer fake-token", r.Header.Get("Authorization"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &authCalls, &searchCalls
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient("id", "secret",
		WithEndpoints(server.URL+"/api/token", server.URL+"/v1/search"),
		WithHTTPClient(server.Client()),
	)
}

func TestSearchNormalizesTracks(t *testing.T) {
	body := `{
		"tracks": {
			"items": [
				{
					"id": "t1",
					"name": "Song One",
					"uri": "spotify:track:t1",
					"artists": [{"name": "Artist A"}, {"name": "Artist B"}],
					"album": {"images": [{"url": "http://img/large"}, {"url": "http://img/small"}]},
					"preview_url": "http://preview/t1"
				},
				{
					"id": "t2",
					"name": "Song Two",
					"uri": "spotify:track:t2",
					"artists": [{"name": "Solo"}],
					"album": {"images": []},
					"preview_url": null
				}
			]
		}
	}`
	server, _, _ := newFakeProvider(t, body)
	client := newTestClient(server)

	tracks, err := client.Search(stdctx.Background(), "song")
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	assert.Equal(t, "t1", tracks[0].ID)
	assert.Equal(t, "Artist A, Artist B", tracks[0].Artist)
	assert.Equal(t, "http://img/large", tracks[0].AlbumArt)
	require.NotNil(t, tracks[0].PreviewURL)
	assert.Equal(t, "http://preview/t1", *tracks[0].PreviewURL)

	assert.Equal(t, "Solo", tracks[1].Artist)
	assert.Equal(t, "", tracks[1].AlbumArt)
	assert.Nil(t, tracks[1].PreviewURL)
}

func TestSearchNoMatchesIsNotAnError(t *testing.T) {
	server, _, _ := newFakeProvider(t, `{"tracks": {"items": []}}`)
	client := newTestClient(server)

	tracks, err := client.Search(stdctx.Background(), "zxqv no such song")
	require.NoError(t, err)
	assert.NotNil(t, tracks)
	assert.Empty(t, tracks)
}

func TestSearchReusesCachedToken(t *testing.T) {
	server, authCalls, searchCalls := newFakeProvider(t, `{"tracks": {"items": []}}`)
	client := newTestClient(server)

	for i := 0; i < 3; i++ {
		_, err := client.Search(stdctx.Background(), "anything")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(authCalls))
	assert.Equal(t, int32(3), atomic.LoadInt32(searchCalls))
}

func TestSearchAuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(server)

	_, err := client.Search(stdctx.Background(), "anything")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrUpstreamAuth))
}
