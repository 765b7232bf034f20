// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var hostRegex = regexp.MustCompile(`^[a-z0-9.-]+(:[0-9]{1,5})?$`)

var blockedPhotoHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
}

// ValidatePhotoURL checks that raw is an absolute http(s) URL on a public host.
func ValidatePhotoURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("photo URL must be a valid URL")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("photo URL must use http or https")
	}

	host := strings.ToLower(u.Host)
	if !hostRegex.MatchString(host) {
		return fmt.Errorf("photo URL must include a valid host")
	}

	if _, blocked := blockedPhotoHosts[u.Hostname()]; blocked {
		return fmt.Errorf("photo URL host is not allowed")
	}

	return nil
}
