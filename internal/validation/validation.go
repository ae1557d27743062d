// Package validation decides which URLs may be shortened and which short codes
// are well-formed. Both checks are pure and perform no network access.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ShortenableURLTag is the validator tag backed by IsValidURL.
const ShortenableURLTag = "shortenable_url"

// Scheme, then a dotted hostname, localhost or an IPv4 address, an optional
// port and an optional path or query.
var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,6}\.?|localhost|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

var validate = validator.New()

// IsValidURL reports whether rawURL is an absolute http or https URL with a host.
func IsValidURL(rawURL string) bool {
	return rawURL != "" && urlPattern.MatchString(rawURL)
}

// IsValidShortCode reports whether code has at least 3 characters, all of them
// letters or digits.
func IsValidShortCode(code string) bool {
	return validate.Var(code, "min=3,alphanumunicode") == nil
}

// RegisterValidations adds ShortenableURLTag to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation(ShortenableURLTag, func(fl validator.FieldLevel) bool {
		return IsValidURL(fl.Field().String())
	})
}
