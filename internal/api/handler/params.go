package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"leet_tracker/internal/api/middleware"
	"leet_tracker/internal/common"
)

// currentUser is the authenticated username, falling back to ?user= for
// anonymous reads. Empty means the legacy slot.
func currentUser(r *http.Request) string {
	if username, ok := middleware.GetUsernameFromContext(r.Context()); ok {
		return username
	}
	return strings.TrimSpace(r.URL.Query().Get("user"))
}

// parseTime accepts unix milliseconds or RFC3339.
func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, common.Validationf("%q is neither unix milliseconds nor RFC3339", raw)
	}
	return t.UTC(), nil
}

// flexTime decodes a JSON number of unix milliseconds or an RFC3339 string.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		f.Time = time.Time{}
		return nil
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	t, err := parseTime(raw)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("Invalid request payload: %v: %w", err, common.ErrBadRequest)
	}
	return nil
}
