package scanner

import (
	"fmt"
	"net/url"
	"strings"

	valid "github.com/asaskevich/govalidator"

	serr "github.com/sardhan/security-scanner/internal/shared/errors"
)

// ValidateURL rejects input that must never be probed. The base rule is the
// literal "http" prefix; strict additionally requires a well-formed request
// URL.
func ValidateURL(raw string, strict bool) error {
	if raw == "" {
		return fmt.Errorf("%w: %w", serr.ErrInvalidURL, serr.ErrEmptyURL)
	}
	if !strings.HasPrefix(raw, "http") {
		return fmt.Errorf("%w: %q does not start with http", serr.ErrInvalidURL, raw)
	}
	if strict && !valid.IsRequestURL(raw) {
		return fmt.Errorf("%w: %q is not a request URL", serr.ErrInvalidURL, raw)
	}
	return nil
}

// robotsURL appends /robots.txt to the target exactly as given, so
// "https://x/app" is checked at "https://x/app/robots.txt".
func robotsURL(target string) string {
	return target + "/robots.txt"
}

// originRobotsURL returns the robots.txt location at the root of the target
// origin.
func originRobotsURL(target string) string {
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return strings.TrimRight(target, "/") + "/robots.txt"
	}
	return fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
}
