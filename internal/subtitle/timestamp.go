package subtitle

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatClock renders a display time: MM:SS, or H:MM:SS past the hour.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// maxSeconds is the longest timestamp a time.Duration can hold.
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

// ParseClock parses SS, MM:SS or HH:MM:SS with an optional .mmm or ,mmm fraction.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 || secs > maxSeconds {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	var whole int
	for _, p := range parts[:len(parts)-1] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		whole = whole*60 + n
		if float64(whole)*60 > maxSeconds {
			return 0, fmt.Errorf("timestamp %q out of range", s)
		}
	}
	if float64(whole)*60+secs > maxSeconds {
		return 0, fmt.Errorf("timestamp %q out of range", s)
	}

	return time.Duration(whole)*time.Minute + fromSeconds(secs), nil
}

func formatTimecode(d time.Duration, sep string) string {
	if d < 0 {
		d = 0
	}
	totalMs := int64(d / time.Millisecond)
	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, sep, ms)
}

// Timecode decodes either a number of seconds or a clock string from JSON.
type Timecode time.Duration

func (t *Timecode) UnmarshalJSON(data []byte) error {
	var secs float64
	if err := json.Unmarshal(data, &secs); err == nil {
		if math.Abs(secs) > maxSeconds {
			return fmt.Errorf("timecode %v out of range", secs)
		}
		*t = Timecode(fromSeconds(secs))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("timecode: %w", err)
	}
	d, err := ParseClock(str)
	if err != nil {
		return err
	}
	*t = Timecode(d)
	return nil
}

// Duration returns the timecode as a time.Duration.
func (t Timecode) Duration() time.Duration {
	return time.Duration(t)
}
