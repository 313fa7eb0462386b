package types

import (
	"errors"
	"fmt"
	"time"
)

const (
	timeStringLayout = "15:04"
	minutesPerDay    = 24 * 60
)

var (
	// ErrInvalidTimeString is returned when a value is not a valid "HH:MM" wall-clock time
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOutOfDay is returned when arithmetic leaves the [00:00, 24:00) range
	ErrTimeOutOfDay = errors.New("time is out of day range")
)

// TimeString is a wall-clock time of day in "HH:MM" format, without date or zone
type TimeString string

// NewTimeStringFromString parses and validates an "HH:MM" string
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes builds a TimeString from minutes since midnight
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfDay, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate checks the "HH:MM" format
func (t TimeString) Validate() error {
	if len(t) != len(timeStringLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if _, err := time.Parse(timeStringLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// String returns the "HH:MM" representation
func (t TimeString) String() string {
	return string(t)
}

// Clock returns hour and minute. The value must be valid.
func (t TimeString) Clock() (hour, minute int, err error) {
	parsed, err := time.Parse(timeStringLayout, string(t))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour(), parsed.Minute(), nil
}
