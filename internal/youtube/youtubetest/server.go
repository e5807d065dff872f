// Package youtubetest provides an in-process fake of the YouTube Data API and image host.
package youtubetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Page is one playlistItems response. The first page is served for an empty pageToken,
// every following page for the previous page's NextPageToken.
type Page struct {
	VideoIDs      []string
	NextPageToken string

	// Status, when non-zero, is returned instead of the page.
	Status int
}

// Fixture describes everything the fake serves. Missing entries produce empty result lists
// for the API routes and 404 for images.
type Fixture struct {
	// APIKey, when set, must match the key query parameter.
	APIKey string

	Handles   map[string][]string
	Usernames map[string][]string

	// Uploads maps channel ID to uploads playlist ID. An empty playlist ID produces
	// a channel item without a contentDetails block.
	Uploads map[string]string

	Playlists map[string][]Page

	Images      map[string][]byte
	ImageStatus map[string]int

	// Fail maps a route ("search", "channels", "playlistItems") to a forced status code.
	Fail map[string]int

	// Malformed lists routes that answer with a body that is not valid JSON.
	Malformed map[string]bool
}

// Request is a recorded call to the fake.
type Request struct {
	Route string
	Query url.Values
}

// Server is a running fake.
type Server struct {
	*httptest.Server

	fixture Fixture

	mu       sync.Mutex
	requests []Request
}

// New starts a fake serving f and stops it when the test ends.
func New(t testing.TB, f Fixture) *Server {
	t.Helper()

	s := &Server{fixture: f}

	r := chi.NewRouter()
	r.Route("/youtube/v3", func(r chi.Router) {
		r.Use(s.recordAndCheckKey)
		r.Get("/search", s.handleSearch)
		r.Get("/channels", s.handleChannels)
		r.Get("/playlistItems", s.handlePlaylistItems)
	})
	r.Get("/vi/{videoID}/{variant}", s.handleImage)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// APIBaseURL is the Data API base URL of the fake.
func (s *Server) APIBaseURL() string { return s.URL + "/youtube/v3" }

// ImageBaseURL is the image host base URL of the fake.
func (s *Server) ImageBaseURL() string { return s.URL }

// Requests returns the recorded requests for route, in arrival order.
// Image requests are recorded under the route "image".
func (s *Server) Requests(route string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Request
	for _, req := range s.requests {
		if req.Route == route {
			out = append(out, req)
		}
	}
	return out
}

// RequestCount returns the number of requests for route.
func (s *Server) RequestCount(route string) int {
	return len(s.Requests(route))
}

// TotalAPIRequests counts requests across all Data API routes.
func (s *Server) TotalAPIRequests() int {
	return s.RequestCount("search") + s.RequestCount("channels") + s.RequestCount("playlistItems")
}

func (s *Server) record(route string, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Route: route, Query: r.URL.Query()})
	s.mu.Unlock()
}

// recordAndCheckKey records every Data API call under its resource name, then enforces APIKey.
func (s *Server) recordAndCheckKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.record(path.Base(r.URL.Path), r)
		if s.fixture.APIKey != "" && r.URL.Query().Get("key") != s.fixture.APIKey {
			writeError(w, http.StatusBadRequest, "API key not valid. Please pass a valid API key.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// forced answers with a configured failure for route and reports whether it did.
func (s *Server) forced(w http.ResponseWriter, route string) bool {
	if status, ok := s.fixture.Fail[route]; ok {
		writeError(w, status, "forced failure")
		return true
	}
	if s.fixture.Malformed[route] {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"items": [`))
		return true
	}
	return false
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.forced(w, "search") {
		return
	}

	q := r.URL.Query()
	if q.Get("type") != "channel" {
		writeError(w, http.StatusBadRequest, "expected type=channel")
		return
	}

	items := []map[string]any{}
	for _, id := range s.fixture.Handles[q.Get("q")] {
		items = append(items, map[string]any{
			"kind": "youtube#searchResult",
			"id":   map[string]string{"kind": "youtube#channel", "channelId": id},
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"kind": "youtube#searchListResponse", "items": items})
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	if s.forced(w, "channels") {
		return
	}

	q := r.URL.Query()
	items := []map[string]any{}

	switch {
	case q.Has("forUsername"):
		for _, id := range s.fixture.Usernames[q.Get("forUsername")] {
			items = append(items, map[string]any{"kind": "youtube#channel", "id": id})
		}
	case q.Has("id"):
		id := q.Get("id")
		if playlist, ok := s.fixture.Uploads[id]; ok {
			item := map[string]any{"kind": "youtube#channel", "id": id}
			if playlist != "" {
				item["contentDetails"] = map[string]any{
					"relatedPlaylists": map[string]string{"likes": "", "uploads": playlist},
				}
			}
			items = append(items, item)
		}
	default:
		writeError(w, http.StatusBadRequest, "no filter selected")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"kind": "youtube#channelListResponse", "items": items})
}

func (s *Server) handlePlaylistItems(w http.ResponseWriter, r *http.Request) {
	if s.forced(w, "playlistItems") {
		return
	}

	q := r.URL.Query()
	pages, ok := s.fixture.Playlists[q.Get("playlistId")]
	if !ok {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	index := -1
	token := q.Get("pageToken")
	if token == "" {
		index = 0
	} else {
		for i := 1; i < len(pages); i++ {
			if pages[i-1].NextPageToken == token {
				index = i
				break
			}
		}
	}
	if index < 0 || index >= len(pages) {
		writeError(w, http.StatusBadRequest, "invalid page token")
		return
	}

	page := pages[index]
	if page.Status != 0 {
		writeError(w, page.Status, "page failure")
		return
	}

	items := []map[string]any{}
	for _, id := range page.VideoIDs {
		items = append(items, map[string]any{
			"kind":           "youtube#playlistItem",
			"contentDetails": map[string]string{"videoId": id},
		})
	}

	body := map[string]any{
		"kind":     "youtube#playlistItemListResponse",
		"items":    items,
		"pageInfo": map[string]int{"totalResults": countVideos(pages), "resultsPerPage": 50},
	}
	if page.NextPageToken != "" {
		body["nextPageToken"] = page.NextPageToken
	}

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	s.record("image", r)

	videoID := chi.URLParam(r, "videoID")
	if status, ok := s.fixture.ImageStatus[videoID]; ok {
		w.WriteHeader(status)
		return
	}

	data, ok := s.fixture.Images[videoID]
	if !ok || chi.URLParam(r, "variant") != "maxresdefault.jpg" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func countVideos(pages []Page) int {
	n := 0
	for _, p := range pages {
		n += len(p.VideoIDs)
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": message},
	})
}
