package common

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrMissingConfig          = errors.New("organization URL and access token are required")
	ErrInvalidOrganizationURL = errors.New("invalid organization URL")
	ErrInvalidRepository      = errors.New("invalid repository")
	ErrUnsupportedTracker     = errors.New("unsupported tracker")
)

var apiMessageRegex = regexp.MustCompile(`Message:([^\]}]+)`)

// ExtractErrorMessage trims REST client errors down to the message a user
// can act on.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	if matches := apiMessageRegex.FindStringSubmatch(msg); len(matches) == 2 {
		return strings.TrimSpace(matches[1])
	}

	// TF400813: Resource not available for anonymous access. Client authentication required.
	if idx := strings.Index(msg, "TF"); idx >= 0 && strings.Contains(msg[idx:], ": ") {
		code := msg[idx : strings.Index(msg[idx:], ": ")+idx]
		if isTFSCode(code) {
			return strings.TrimSpace(msg[idx:])
		}
	}

	return msg
}

func isTFSCode(code string) bool {
	if len(code) < 3 || !strings.HasPrefix(code, "TF") {
		return false
	}
	for _, r := range code[2:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
