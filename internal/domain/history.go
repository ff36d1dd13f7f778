package domain

// History is an ordered sequence of outcomes, newest first.
// Analyzers receive it as a read-only view and never mutate it;
// ownership stays with the caller.
type History []Outcome

// Window returns the most recent n outcomes as a sub-slice.
// n <= 0 or n > len(h) returns the full history.
func (h History) Window(n int) History {
	if n <= 0 || n > len(h) {
		return h
	}
	return h[:n]
}

// Numbers returns the winning numbers in history order (newest first).
func (h History) Numbers() []int {
	nums := make([]int, len(h))
	for i, o := range h {
		nums[i] = o.Number
	}
	return nums
}

// Chronological returns the winning numbers oldest first.
func (h History) Chronological() []int {
	nums := make([]int, len(h))
	for i, o := range h {
		nums[len(h)-1-i] = o.Number
	}
	return nums
}

// HistoryFromNumbers builds a history from bare numbers (newest first).
// Intended for tests and replay fixtures; SpinID and timestamps are zero.
func HistoryFromNumbers(numbers []int) History {
	h := make(History, len(numbers))
	for i, n := range numbers {
		h[i] = Outcome{Number: n}
	}
	return h
}
