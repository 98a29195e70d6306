package service

import (
	"strings"
	"time"
)

// Stored timestamps carry millisecond precision, so the clock is truncated to match.
func systemNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// optionalString trims s and treats blank input as absent.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
