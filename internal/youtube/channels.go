package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/veranemoloko/channel-covers/internal/domain"
	errpkg "github.com/veranemoloko/channel-covers/internal/errors"
	"github.com/veranemoloko/channel-covers/internal/metrics"
)

// SearchChannelByHandle runs a channel-type search for handle and returns the first result.
func (c *Client) SearchChannelByHandle(ctx context.Context, handle string) (domain.ChannelID, error) {
	params := url.Values{}
	params.Set("part", "id")
	params.Set("q", handle)
	params.Set("type", "channel")

	var resp searchListResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return "", err
	}

	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: could not find a channel ID for handle %q", errpkg.ErrNotFound, handle)
	}

	id := resp.Items[0].ID.ChannelID
	if id == "" {
		return "", fmt.Errorf("%w: first search result for handle %q has no channel ID", errpkg.ErrUpstream, handle)
	}

	return domain.ChannelID(id), nil
}

// ChannelByUsername looks up a channel by its legacy username and returns the first match.
func (c *Client) ChannelByUsername(ctx context.Context, username string) (domain.ChannelID, error) {
	params := url.Values{}
	params.Set("part", "id")
	params.Set("forUsername", username)

	var resp channelListResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return "", err
	}

	if len(resp.Items) == 0 || resp.Items[0].ID == "" {
		return "", fmt.Errorf("%w: could not find a channel ID for username %q", errpkg.ErrNotFound, username)
	}

	return domain.ChannelID(resp.Items[0].ID), nil
}

// UploadsPlaylistID returns the ID of the implicit playlist holding every upload of channelID.
func (c *Client) UploadsPlaylistID(ctx context.Context, channelID domain.ChannelID) (domain.PlaylistID, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", string(channelID))

	var resp channelListResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return "", err
	}

	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
		return "", fmt.Errorf("%w: could not find uploads playlist for channel %s", errpkg.ErrNotFound, channelID)
	}

	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return "", fmt.Errorf("%w: channel %s has no uploads playlist", errpkg.ErrNotFound, channelID)
	}

	return domain.PlaylistID(uploads), nil
}

// AllVideoIDs pages through playlistID and returns every video ID in API order.
// A failed page aborts the whole enumeration; nothing partial is returned.
func (c *Client) AllVideoIDs(ctx context.Context, playlistID domain.PlaylistID) ([]domain.VideoID, error) {
	var (
		videoIDs  []domain.VideoID
		pageToken string
	)

	for page := 1; ; page++ {
		if c.opts.MaxPages > 0 && page > c.opts.MaxPages {
			return nil, fmt.Errorf("%w: playlist %s pagination did not terminate after %d pages",
				errpkg.ErrUpstream, playlistID, c.opts.MaxPages)
		}

		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("playlistId", string(playlistID))
		params.Set("maxResults", strconv.Itoa(pageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemListResponse
		if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
			return nil, fmt.Errorf("fetch page %d of playlist %s: %w", page, playlistID, err)
		}

		for _, item := range resp.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoID == "" {
				c.logger.Debug("playlist item without video ID ignored", "playlist_id", playlistID, "page", page)
				continue
			}
			videoIDs = append(videoIDs, domain.VideoID(item.ContentDetails.VideoID))
		}

		c.logger.Debug("playlist page fetched",
			"playlist_id", playlistID,
			"page", page,
			"items", len(resp.Items),
			"collected", len(videoIDs),
		)

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	metrics.VideosEnumerated.Add(float64(len(videoIDs)))
	return videoIDs, nil
}
