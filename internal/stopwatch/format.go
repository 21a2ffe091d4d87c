package stopwatch

import (
	"errors"
	"fmt"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	msPerHour   = 3600000
	msPerMinute = 60000
	msPerSecond = 1000
)

// Format renders ms as HH:MM:SS.CC. Centiseconds are truncated. Hours grow
// past two digits instead of wrapping.
func Format(ms int64) (string, error) {
	if ms < 0 {
		return "", fmt.Errorf("format %d: negative duration: %w", ms, ErrInvalidInput)
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	centis := (ms % msPerSecond) / 10

	return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, seconds, centis), nil
}
