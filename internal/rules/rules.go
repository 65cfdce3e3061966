package rules

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"backend-nexus/internal/platform"
)

const MaxMediaCount = 4

var (
	ErrContentTooLong  = errors.New("content exceeds platform limit")
	ErrEmptyPost       = errors.New("post needs content or media")
	ErrTooManyMedia    = errors.New("too many media attachments")
	ErrEmptyMediaURL   = errors.New("media url must not be empty")
	ErrScheduleInPast  = errors.New("scheduled time must be in the future")
	ErrMissingSchedule = errors.New("scheduled time required")
)

// IsValidationError reports whether err belongs to the validation taxonomy,
// as opposed to state or store errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContentTooLong) ||
		errors.Is(err, ErrEmptyPost) ||
		errors.Is(err, ErrTooManyMedia) ||
		errors.Is(err, ErrEmptyMediaURL) ||
		errors.Is(err, ErrScheduleInPast) ||
		errors.Is(err, ErrMissingSchedule) ||
		errors.Is(err, platform.ErrUnsupportedPlatform)
}

// ValidateContent checks the post body as a whole: length against the
// platform ceiling (boundary-inclusive) and the emptiness rule, which
// considers content and media together.
func ValidateContent(p platform.Platform, content string, mediaCount int) error {
	limit, err := platform.MaxContentLength(p)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(content) > limit {
		return ErrContentTooLong
	}
	if content == "" && mediaCount == 0 {
		return ErrEmptyPost
	}
	return nil
}

func ValidateMediaCount(count int) error {
	if count > MaxMediaCount {
		return ErrTooManyMedia
	}
	return nil
}

func ValidateMediaURLs(urls []string) error {
	if err := ValidateMediaCount(len(urls)); err != nil {
		return err
	}
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			return ErrEmptyMediaURL
		}
	}
	return nil
}

// ValidateSchedule requires a strictly-future instant. A time equal to now
// is rejected.
func ValidateSchedule(scheduledAt *time.Time, now time.Time) error {
	if scheduledAt == nil || scheduledAt.IsZero() {
		return ErrMissingSchedule
	}
	if !scheduledAt.After(now) {
		return ErrScheduleInPast
	}
	return nil
}
