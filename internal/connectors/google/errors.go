package google

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// rateLimitReasons are the 403 reasons the Tasks API uses for quota errors.
var rateLimitReasons = []string{"rateLimitExceeded", "userRateLimitExceeded"}

// IsRateLimited reports a 429, a quota 403 or a wrapped domain.ErrRateLimited.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	gerr, ok := apiError(err)
	if !ok {
		return false
	}
	if gerr.Code == http.StatusTooManyRequests {
		return true
	}
	return gerr.Code == http.StatusForbidden && slices.ContainsFunc(gerr.Errors, func(item googleapi.ErrorItem) bool {
		return slices.Contains(rateLimitReasons, item.Reason)
	})
}

// RetryAfter reads the Retry-After header of an API error, in either the
// seconds or the HTTP-date form. It returns 0 when there is no usable hint.
func RetryAfter(err error, now time.Time) time.Duration {
	gerr, ok := apiError(err)
	if !ok || gerr.Header == nil {
		return 0
	}
	value := gerr.Header.Get("Retry-After")
	if secs, convErr := strconv.Atoi(value); convErr == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, parseErr := http.ParseTime(value); parseErr == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}

// WrapError puts the domain error matching an API status in front of err.
// Errors that are not API errors, or whose status has no domain meaning,
// are returned unchanged.
func WrapError(err error) error {
	gerr, ok := apiError(err)
	if !ok {
		return err
	}

	var kind error
	switch {
	case IsRateLimited(err):
		kind = domain.ErrRateLimited
	case gerr.Code == http.StatusUnauthorized:
		kind = domain.ErrAuthRequired
	case gerr.Code == http.StatusNotFound:
		kind = domain.ErrNotFound
	case gerr.Code == http.StatusBadRequest:
		kind = domain.ErrInvalidInput
	default:
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func apiError(err error) (*googleapi.Error, bool) {
	var gerr *googleapi.Error
	ok := errors.As(err, &gerr)
	return gerr, ok
}
