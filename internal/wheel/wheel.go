// Package wheel defines the physical single-zero wheel layout and the
// adjacency lookups derived from it. Everything here is computed from one
// constant order, is immutable after package init, and is safe for
// concurrent use.
package wheel

import (
	"errors"
	"fmt"

	"roulette-signal-lab/internal/domain"
)

// ErrInvalidNumber aliases the shared domain sentinel so callers can match
// either name.
var ErrInvalidNumber = domain.ErrInvalidNumber

// ErrInvalidRadius is returned for a radius that is negative or would wrap
// the wheel onto itself.
var ErrInvalidRadius = errors.New("radius outside valid range")

// MaxRadius is the largest usable neighbor radius: anything >= half the
// wheel would wrap onto itself.
const MaxRadius = domain.WheelSize/2 - 1 // 17

// order is the European single-zero layout, clockwise from the zero.
var order = [domain.WheelSize]int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30, 8, 23,
	10, 5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7, 28, 12, 35, 3, 26,
}

// position maps number -> index in order. Built once at init.
var position [domain.WheelSize]int

func init() {
	for idx, n := range order {
		position[n] = idx
	}
}

// Order returns the wheel layout as a fresh slice, index 0 = the zero.
func Order() []int {
	out := make([]int, domain.WheelSize)
	copy(out, order[:])
	return out
}

// PositionOf returns the wheel index of a number.
func PositionOf(number int) (int, error) {
	if !domain.ValidNumber(number) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNumber, number)
	}
	return position[number], nil
}

// Neighbors returns the 2*radius+1 numbers at wheel positions
// center-radius .. center+radius (cyclic), in wheel order. The center is
// always included at the middle index.
func Neighbors(center, radius int) ([]int, error) {
	if !domain.ValidNumber(center) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNumber, center)
	}
	if radius < 0 || radius > MaxRadius {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRadius, radius)
	}

	pos := position[center]
	out := make([]int, 0, 2*radius+1)
	for off := -radius; off <= radius; off++ {
		idx := ((pos+off)%domain.WheelSize + domain.WheelSize) % domain.WheelSize
		out = append(out, order[idx])
	}
	return out, nil
}

// LeftNeighbors returns the radius numbers counter-clockwise of center,
// nearest first, excluding center.
func LeftNeighbors(center, radius int) ([]int, error) {
	if !domain.ValidNumber(center) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNumber, center)
	}
	if radius < 0 || radius > MaxRadius {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRadius, radius)
	}

	pos := position[center]
	out := make([]int, 0, radius)
	for off := 1; off <= radius; off++ {
		idx := ((pos-off)%domain.WheelSize + domain.WheelSize) % domain.WheelSize
		out = append(out, order[idx])
	}
	return out, nil
}

// RightNeighbors returns the radius numbers clockwise of center,
// nearest first, excluding center.
func RightNeighbors(center, radius int) ([]int, error) {
	if !domain.ValidNumber(center) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNumber, center)
	}
	if radius < 0 || radius > MaxRadius {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRadius, radius)
	}

	pos := position[center]
	out := make([]int, 0, radius)
	for off := 1; off <= radius; off++ {
		idx := (pos + off) % domain.WheelSize
		out = append(out, order[idx])
	}
	return out, nil
}

// Pair is an unordered adjacent-number pair on the wheel ("horse" pair).
// Low/High order the pair by numeric value for stable comparison.
type Pair struct {
	Low  int
	High int
}

// HorsePairs returns all 37 adjacent pairs on the wheel, deduplicated,
// in wheel order of their first member.
func HorsePairs() []Pair {
	pairs := make([]Pair, 0, domain.WheelSize)
	for idx, n := range order {
		next := order[(idx+1)%domain.WheelSize]
		p := Pair{Low: n, High: next}
		if p.Low > p.High {
			p.Low, p.High = p.High, p.Low
		}
		pairs = append(pairs, p)
	}
	return pairs
}
