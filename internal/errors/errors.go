package errors

import "errors"

var (
	ErrConfiguration = errors.New("configuration error")
	ErrInputFormat   = errors.New("unsupported channel URL format")
	ErrNotFound      = errors.New("not found")
	ErrUpstream      = errors.New("upstream API error")
	ErrAssetSkipped  = errors.New("thumbnail skipped")
	ErrAssetFetch    = errors.New("thumbnail fetch failed")
	ErrReportMissing = errors.New("run report missing")
)

// Kind names the taxonomy class of err for diagnostics, or "unknown".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInputFormat):
		return "input_format"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrAssetSkipped):
		return "asset_skipped"
	case errors.Is(err, ErrAssetFetch):
		return "asset_fetch"
	default:
		return "unknown"
	}
}
