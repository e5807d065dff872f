package youtube

// Wire shapes of the Data API v3 responses. Only the fields this tool reads are declared;
// optional blocks are pointers so that absent or null values decode cleanly.

type searchListResponse struct {
	Items []searchResult `json:"items"`
}

type searchResult struct {
	ID struct {
		Kind      string `json:"kind"`
		ChannelID string `json:"channelId"`
	} `json:"id"`
}

type channelListResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	ID             string                 `json:"id"`
	ContentDetails *channelContentDetails `json:"contentDetails"`
}

type channelContentDetails struct {
	RelatedPlaylists struct {
		Uploads string `json:"uploads"`
	} `json:"relatedPlaylists"`
}

type playlistItemListResponse struct {
	NextPageToken string         `json:"nextPageToken"`
	Items         []playlistItem `json:"items"`
	PageInfo      *struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
}

type playlistItem struct {
	ContentDetails *struct {
		VideoID string `json:"videoId"`
	} `json:"contentDetails"`
}

type apiErrorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
