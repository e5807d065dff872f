package domain

// ChannelID is the canonical identifier of a channel.
type ChannelID string

// PlaylistID identifies a channel's uploads playlist.
type PlaylistID string

// VideoID identifies a single video.
type VideoID string

func (id VideoID) String() string { return string(id) }
