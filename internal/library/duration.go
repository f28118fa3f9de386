package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a song length as written in the library document: "m:ss",
// "h:mm:ss" or a number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	if secs < 0 {
		return fmt.Errorf("duration: negative value %v", secs)
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// ParseDuration parses "m:ss", "h:mm:ss" or plain seconds. An empty string is
// an unknown length.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("duration %q: too many fields", s)
	}

	if len(parts) == 1 {
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil || secs < 0 {
			return 0, fmt.Errorf("duration %q: not a number of seconds", s)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}

	var total time.Duration
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("duration %q: bad field %q", s, p)
		}
		// Every field after the first is base 60.
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("duration %q: field %q out of range", s, p)
		}
		total = total*60 + time.Duration(n)
	}
	return total * time.Second, nil
}

// FormatDuration renders d as "m:ss", or "h:mm:ss" from one hour up.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "--:--"
	}
	secs := int(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Year accepts either a JSON number or a numeric string. Anything else reads
// as unknown.
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			*y = 0
			return nil
		}
		*y = Year(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		*y = 0
		return nil //nolint:nilerr // unknown year is not fatal
	}
	*y = Year(int(n))
	return nil
}
