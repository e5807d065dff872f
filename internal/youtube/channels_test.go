package youtube

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranemoloko/channel-covers/internal/domain"
	errpkg "github.com/veranemoloko/channel-covers/internal/errors"
	"github.com/veranemoloko/channel-covers/internal/youtube/youtubetest"
)

func TestClient_UploadsPlaylistID(t *testing.T) {
	srv := youtubetest.New(t, youtubetest.Fixture{
		Uploads: map[string]string{"UCabc": "UUabc"},
	})
	client := newTestClient(srv, Options{})

	id, err := client.UploadsPlaylistID(context.Background(), "UCabc")
	require.NoError(t, err)

	assert.Equal(t, domain.PlaylistID("UUabc"), id)
	require.Equal(t, 1, srv.RequestCount("channels"))
	q := srv.Requests("channels")[0].Query
	assert.Equal(t, "contentDetails", q.Get("part"))
	assert.Equal(t, "UCabc", q.Get("id"))
}

func TestClient_UploadsPlaylistID_NotFound(t *testing.T) {
	srv := youtubetest.New(t, youtubetest.Fixture{
		Uploads: map[string]string{"UCrestricted": ""},
	})
	client := newTestClient(srv, Options{})

	_, err := client.UploadsPlaylistID(context.Background(), "UCrestricted")
	assert.ErrorIs(t, err, errpkg.ErrNotFound, "missing contentDetails block")

	_, err = client.UploadsPlaylistID(context.Background(), "UCdeleted")
	assert.ErrorIs(t, err, errpkg.ErrNotFound, "no items")
}

func TestClient_UploadsPlaylistID_Upstream(t *testing.T) {
	srv := youtubetest.New(t, youtubetest.Fixture{
		Fail: map[string]int{"channels": http.StatusServiceUnavailable},
	})
	client := newTestClient(srv, Options{})

	_, err := client.UploadsPlaylistID(context.Background(), "UCabc")
	assert.ErrorIs(t, err, errpkg.ErrUpstream)
	assert.Contains(t, err.Error(), "forced failure")
}

func TestClient_AllVideoIDs_TwoPages(t *testing.T) {
	srv := youtubetest.New(t, youtubetest.Fixture{
		Playlists: map[string][]youtubetest.Page{
			"UUabc": {
				{VideoIDs: []string{"v1"}, NextPageToken: "T"},
				{VideoIDs: []string{"v2"}},
			},
		},
	})
	client := newTestClient(srv, Options{})

	ids, err := client.AllVideoIDs(context.Background(), "UUabc")
	require.NoError(t, err)

	assert.Equal(t, []domain.VideoID{"v1", "v2"}, ids)

	reqs := srv.Requests("playlistItems")
	require.Len(t, reqs, 2)
	assert.False(t, reqs[0].Query.Has("pageToken"))
	assert.Equal(t, "T", reqs[1].Query.Get("pageToken"))
	for _, r := range reqs {
		assert.Equal(t, "50", r.Query.Get("maxResults"))
		assert.Equal(t, "UUabc", r.Query.Get("playlistId"))
		assert.Equal(t, "contentDetails", r.Query.Get("part"))
	}
}

func TestClient_AllVideoIDs_ManyPagesPreserveOrder(t *testing.T) {
	const pageCount = 5

	var (
		pages []youtubetest.Page
		want  []domain.VideoID
	)
	for p := 0; p < pageCount; p++ {
		page := youtubetest.Page{}
		for i := 0; i < 3; i++ {
			id := fmt.Sprintf("p%dv%d", p, i)
			page.VideoIDs = append(page.VideoIDs, id)
			want = append(want, domain.VideoID(id))
		}
		if p < pageCount-1 {
			page.NextPageToken = fmt.Sprintf("tok%d", p)
		}
		pages = append(pages, page)
	}

	srv := youtubetest.New(t, youtubetest.Fixture{
		Playlists: map[string][]youtubetest.Page{"UUmany": pages},
	})
	client := newTestClient(srv, Options{})

	ids, err := client.AllVideoIDs(context.Background(), "UUmany")
	require.NoError(t, err)

	assert.Equal(t, want, ids)
	assert.Equal(t, pageCount, srv.RequestCount("playlistItems"))
}

func TestClient_AllVideoIDs_EmptyPlaylist(t *testing.T) {
	srv := youtubetest.New(t, youtubetest.Fixture{
		Playlists: map[string][]youtubetest.Page{"UUempty": {{}}},
	})
	client := newTestClient(srv, Options{})

	ids, err := client.AllVideoIDs(context.Background(), "UUempty")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 1, srv.RequestCount("playlistItems"))
}

func TestClient_AllVideoIDs_PageFailureAborts(t *testing.T) {
	srv := youtubetest.New(t, youtubetest.Fixture{
		Playlists: map[string][]youtubetest.Page{
			"UUabc": {
				{VideoIDs: []string{"v1"}, NextPageToken: "T1"},
				{Status: http.StatusInternalServerError, NextPageToken: "T2"},
				{VideoIDs: []string{"v3"}},
			},
		},
	})
	client := newTestClient(srv, Options{})

	ids, err := client.AllVideoIDs(context.Background(), "UUabc")

	assert.ErrorIs(t, err, errpkg.ErrUpstream)
	assert.Nil(t, ids)
	assert.Equal(t, 2, srv.RequestCount("playlistItems"), "no retry and no further pages")
}

func TestClient_AllVideoIDs_MalformedResponse(t *testing.T) {
	srv := youtubetest.New(t, youtubetest.Fixture{
		Malformed: map[string]bool{"playlistItems": true},
	})
	client := newTestClient(srv, Options{})

	_, err := client.AllVideoIDs(context.Background(), "UUabc")
	assert.ErrorIs(t, err, errpkg.ErrUpstream)
}

func TestClient_AllVideoIDs_MaxPagesGuard(t *testing.T) {
	srv := youtubetest.New(t, youtubetest.Fixture{
		Playlists: map[string][]youtubetest.Page{
			"UUloop": {
				{VideoIDs: []string{"v1"}, NextPageToken: "a"},
				{VideoIDs: []string{"v2"}, NextPageToken: "b"},
				{VideoIDs: []string{"v3"}, NextPageToken: "c"},
				{VideoIDs: []string{"v4"}},
			},
		},
	})
	client := newTestClient(srv, Options{MaxPages: 2})

	_, err := client.AllVideoIDs(context.Background(), "UUloop")

	assert.ErrorIs(t, err, errpkg.ErrUpstream)
	assert.Equal(t, 2, srv.RequestCount("playlistItems"))
}
