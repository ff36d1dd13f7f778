package domain

import "errors"

// ErrInvalidNumber is returned when a number outside [0,36] reaches the
// engine. It indicates a caller bug, never bad feed data.
var ErrInvalidNumber = errors.New("number outside wheel range")

// Outcome represents one observed roulette spin result.
// Corresponds to the outcomes table in PostgreSQL.
type Outcome struct {
	SpinID      string // PRIMARY KEY, deterministic hash (see idhash)
	Table       string // feed/table identifier
	Number      int    // winning number, 0..36
	TimestampMs int64  // Unix timestamp in milliseconds
}

// Roulette wheel bounds. Numbers outside [MinNumber, MaxNumber] never
// enter the engine; stores and analyzers reject them as invalid input.
const (
	MinNumber   = 0
	MaxNumber   = 36
	WheelSize   = 37
	TerminalMod = 10 // terminal ("cavalo") = number % 10
)

// ValidNumber reports whether n is a playable roulette number.
func ValidNumber(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}

// Terminal returns the last decimal digit of a number (0-9 buckets).
func Terminal(n int) int {
	return n % TerminalMod
}
