package checks

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp interprets a string as a point in time. Accepted forms are
// unix seconds (optionally fractional) and RFC 3339.
func ParseTimestamp(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if seconds, err := strconv.ParseFloat(text, 64); err == nil {
		sec := int64(seconds)
		nsec := int64((seconds - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).UTC(), nil
	}

	if at, err := time.Parse(time.RFC3339, text); err == nil {
		return at, nil
	}

	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected unix seconds or RFC 3339", text)
}
