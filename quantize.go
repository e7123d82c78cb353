package beatline

import (
	"math"
	"strconv"
	"strings"
)

// Grids lists the quantize grids offered to the user.
var Grids = []string{"off", "1/1", "1/2", "1/4", "1/8", "1/16", "1/32", "1/4T", "1/8T", "1/16T"}

// ParseGrid returns the size in beats of a quantize grid such as "1/16" or
// "1/8T". The fraction is of a whole note, and a T suffix marks a triplet.
// ok is false for "off" and for grids that do not parse.
func ParseGrid(grid string) (size float64, ok bool) {
	g := strings.TrimSpace(grid)
	triplet := strings.HasSuffix(g, "T") || strings.HasSuffix(g, "t")
	if triplet {
		g = g[:len(g)-1]
	}
	num, den, found := strings.Cut(g, "/")
	if !found {
		return 0, false
	}
	a, err := strconv.Atoi(num)
	if err != nil || a <= 0 {
		return 0, false
	}
	b, err := strconv.Atoi(den)
	if err != nil || b <= 0 {
		return 0, false
	}
	size = 4 * float64(a) / float64(b)
	if triplet {
		size = size * 2 / 3
	}
	return size, true
}

// Snap rounds v to the nearest multiple of grid.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}
