// Package pagination normalizes page size and page token request fields.
package pagination

import (
	"errors"
	"strings"
)

// ErrInvalidPageToken reports a page token the caller did not receive from
// a previous page.
var ErrInvalidPageToken = errors.New("invalid page token")

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int32, cfg PageSizeConfig) int {
	pageSize := int(value)
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// NormalizePageToken trims token and, when non-empty, checks it with valid.
func NormalizePageToken(token string, valid func(string) bool) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil
	}
	if valid != nil && !valid(token) {
		return "", ErrInvalidPageToken
	}
	return token, nil
}
