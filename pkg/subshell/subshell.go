// Package subshell holds the physical constants of relativistic atomic
// subshells and the conversions between subshell notations.
//
// Two notations name the same subshell. Full notation carries the principal
// quantum number ("4d-", "5s"); angular notation is a fixed 2-character code,
// the orbital letter followed by '-' for the j = l - 1/2 partner or a space
// otherwise ("d-", "s "). Lookups use angular codes only.
package subshell

// properties of one subshell flavor
type properties struct {
	maxElectrons int // 2j+1
	kappa        int
}

var codes = []string{
	"s ",
	"p-", "p ",
	"d-", "d ",
	"f-", "f ",
	"g-", "g ",
	"h-", "h ",
	"i-", "i ",
}

var table = map[string]properties{
	"s ": {maxElectrons: 2, kappa: -1},
	"p-": {maxElectrons: 2, kappa: 1},
	"p ": {maxElectrons: 4, kappa: -2},
	"d-": {maxElectrons: 4, kappa: 2},
	"d ": {maxElectrons: 6, kappa: -3},
	"f-": {maxElectrons: 6, kappa: 3},
	"f ": {maxElectrons: 8, kappa: -4},
	"g-": {maxElectrons: 8, kappa: 4},
	"g ": {maxElectrons: 10, kappa: -5},
	"h-": {maxElectrons: 10, kappa: 5},
	"h ": {maxElectrons: 12, kappa: -6},
	"i-": {maxElectrons: 12, kappa: 6},
	"i ": {maxElectrons: 14, kappa: -7},
}

// MaxElectrons returns the electron capacity of an angular subshell code.
func MaxElectrons(code string) (int, bool) {
	p, ok := table[code]
	return p.maxElectrons, ok
}

// HalfFilled returns half of the capacity of an angular subshell code.
func HalfFilled(code string) (float64, bool) {
	p, ok := table[code]
	if !ok {
		return 0, false
	}
	return float64(p.maxElectrons) / 2, true
}

// Kappa returns the relativistic angular quantum number of a code.
func Kappa(code string) (int, bool) {
	p, ok := table[code]
	return p.kappa, ok
}

// KappaSquared returns kappa² for an angular subshell code.
func KappaSquared(code string) (int, bool) {
	p, ok := table[code]
	if !ok {
		return 0, false
	}
	return p.kappa * p.kappa, true
}

// Known reports whether code is one of the 13 angular subshell codes.
func Known(code string) bool {
	_, ok := table[code]
	return ok
}

// Codes returns the known angular codes in increasing l order.
func Codes() []string {
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// Limits returns a fresh map of angular code to electron capacity.
func Limits() map[string]int {
	out := make(map[string]int, len(table))
	for code, p := range table {
		out[code] = p.maxElectrons
	}
	return out
}
