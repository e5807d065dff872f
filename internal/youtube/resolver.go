package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/veranemoloko/channel-covers/internal/domain"
	errpkg "github.com/veranemoloko/channel-covers/internal/errors"
	"github.com/veranemoloko/channel-covers/internal/validation"
)

const supportedFormats = "use a URL like https://www.youtube.com/@handle, " +
	"https://www.youtube.com/channel/ID, or https://www.youtube.com/user/username"

// ChannelLookup performs the network lookups the Resolver needs.
type ChannelLookup interface {
	SearchChannelByHandle(ctx context.Context, handle string) (domain.ChannelID, error)
	ChannelByUsername(ctx context.Context, username string) (domain.ChannelID, error)
}

// Resolver turns a channel URL into a ChannelID.
type Resolver struct {
	lookup ChannelLookup
	logger *slog.Logger
}

func NewResolver(lookup ChannelLookup, logger *slog.Logger) *Resolver {
	return &Resolver{lookup: lookup, logger: logger}
}

// Resolve dispatches on the URL path:
//
//	/@handle          channel-type search, first result
//	/channel/<id>     the id itself, no network call
//	/user/<username>  legacy username lookup, first result
//
// Anything else fails with ErrInputFormat before touching the network.
func (r *Resolver) Resolve(ctx context.Context, reference string) (domain.ChannelID, error) {
	if err := validation.ValidateChannelURL(reference); err != nil {
		return "", err
	}

	u, err := url.Parse(reference)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errpkg.ErrInputFormat, err)
	}

	parts := pathSegments(u.Path)
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: URL %q has no path; %s", errpkg.ErrInputFormat, reference, supportedFormats)
	}

	if handle, ok := strings.CutPrefix(parts[0], "@"); ok {
		r.logger.Info("found handle, searching for channel ID", "handle", handle)
		return r.lookup.SearchChannelByHandle(ctx, handle)
	}

	if len(parts) >= 2 {
		switch parts[0] {
		case "channel":
			r.logger.Info("found channel ID directly in URL", "channel_id", parts[1])
			return domain.ChannelID(parts[1]), nil
		case "user":
			r.logger.Info("found legacy username, looking up channel ID", "username", parts[1])
			return r.lookup.ChannelByUsername(ctx, parts[1])
		}
	}

	return "", fmt.Errorf("%w: %q; %s", errpkg.ErrInputFormat, reference, supportedFormats)
}

func pathSegments(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
