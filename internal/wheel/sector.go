package wheel

import (
	"fmt"

	"roulette-signal-lab/internal/domain"
)

// Sector is one fixed arc of physically adjacent numbers, used for
// dealer-signature analysis.
type Sector struct {
	ID      string
	Name    string
	Numbers []int
}

// Size returns how many numbers the sector covers.
func (s Sector) Size() int {
	return len(s.Numbers)
}

// The wheel is partitioned into six contiguous arcs starting at the zero.
// 6x6=36 does not cover 37 numbers, so the zero arc absorbs the extra one
// (7 numbers); the remaining five arcs hold 6 each. The partition is the
// canonical one for the whole engine.
const SectorCount = 6

var sectors = []Sector{
	{ID: "A", Name: "Zero arc", Numbers: []int{0, 32, 15, 19, 4, 21, 2}},
	{ID: "B", Name: "Orphan arc", Numbers: []int{25, 17, 34, 6, 27, 13}},
	{ID: "C", Name: "East arc", Numbers: []int{36, 11, 30, 8, 23, 10}},
	{ID: "D", Name: "South arc", Numbers: []int{5, 24, 16, 33, 1, 20}},
	{ID: "E", Name: "West arc", Numbers: []int{14, 31, 9, 22, 18, 29}},
	{ID: "F", Name: "North arc", Numbers: []int{7, 28, 12, 35, 3, 26}},
}

// sectorOf maps number -> index into sectors. Built once at init.
var sectorOf [domain.WheelSize]int

func init() {
	for si, s := range sectors {
		for _, n := range s.Numbers {
			sectorOf[n] = si
		}
	}
}

// Sectors returns the six fixed sectors. The returned slice shares the
// underlying sector number slices; callers must not mutate them.
func Sectors() []Sector {
	out := make([]Sector, len(sectors))
	copy(out, sectors)
	return out
}

// SectorIndexOf returns the index (into Sectors) of the sector holding n.
func SectorIndexOf(number int) (int, error) {
	if !domain.ValidNumber(number) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNumber, number)
	}
	return sectorOf[number], nil
}
