package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultServiceMinutes is the time spent at a stop when the caller does not say.
const DefaultServiceMinutes = 15

// TimeWindow bounds the arrival at a stop, expressed as "HH:MM" wall-clock values.
type TimeWindow struct {
	Start string
	End   string
}

// Seconds converts the window to seconds since midnight.
func (tw TimeWindow) Seconds() (start int, end int, err error) {
	start, err = clockSeconds(tw.Start)
	if err != nil {
		return 0, 0, fmt.Errorf("time window start: %w", err)
	}

	end, err = clockSeconds(tw.End)
	if err != nil {
		return 0, 0, fmt.Errorf("time window end: %w", err)
	}

	if end < start {
		return 0, 0, fmt.Errorf("time window %s-%s ends before it starts", tw.Start, tw.End)
	}

	return start, end, nil
}

func clockSeconds(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock value %q: want HH:MM", s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return h*3600 + m*60, nil
}

// Represents a single location visited by a route.
// Stops must be geocoded before they reach the optimizer; a stop still
// carrying the (0,0) sentinel is filtered out by the caller.
type Stop struct {
	ID             string
	Name           string
	Coordinates    Coordinates
	Address        string
	TimeWindow     *TimeWindow
	ServiceMinutes float64
	Demand         float64
}

// WithDefaults fills unset optional fields.
func (s Stop) WithDefaults() Stop {
	if s.ServiceMinutes <= 0 {
		s.ServiceMinutes = DefaultServiceMinutes
	}
	return s
}

// Geocoded reports whether the stop has usable coordinates.
func (s Stop) Geocoded() bool { return !s.Coordinates.IsZero() }
