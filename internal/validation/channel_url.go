package validation

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	errpkg "github.com/veranemoloko/channel-covers/internal/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("channel_url", validateChannelURL)
}

// ValidateChannelURL checks that raw is an absolute http(s) URL with a host.
// Failures wrap ErrInputFormat.
func ValidateChannelURL(raw string) error {
	if err := validate.Var(raw, "required,channel_url"); err != nil {
		return fmt.Errorf("%w: invalid channel URL %q: %w", errpkg.ErrInputFormat, raw, err)
	}
	return nil
}

// Struct validates v against its `validate` struct tags.
func Struct(v any) error {
	return validate.Struct(v)
}

func validateChannelURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}
