// Package descriptor turns three-line CSF records into flat integer
// descriptors.
//
// A record is laid out in 9-character columns, one per peel subshell:
//
//	  5s ( 2)  4d-( 4)  4d ( 6)  5p-( 2)  5p ( 4)  6s ( 2)
//	                   3/2               2
//	                                           4-
//
// The first line gives the electron count of each subshell, the second the
// intermediate J couplings and the third the final J. The descriptor holds
// one (electrons, 2·J_middle, 2·J_coupling) triplet per subshell, in peel
// order.
package descriptor

import (
	"strconv"
	"strings"

	"github.com/ajitpratap0/csfs/pkg/errors"
)

// ColumnWidth is the width of one subshell column in a CSF record.
const ColumnWidth = 9

// ValuesPerOrbital is the number of descriptor entries per subshell.
const ValuesPerOrbital = 3

// Generator parses CSF records for a fixed peel subshell list. It holds no
// mutable state and is safe for concurrent use.
type Generator struct {
	peel []string
}

// New creates a generator for the given peel subshells (full notation,
// e.g. "5s", "4d-"). The slice is copied.
func New(peelSubshells []string) *Generator {
	peel := make([]string, len(peelSubshells))
	copy(peel, peelSubshells)
	return &Generator{peel: peel}
}

// OrbitalCount returns the number of peel subshells.
func (g *Generator) OrbitalCount() int {
	return len(g.peel)
}

// PeelSubshells returns a copy of the peel subshell list.
func (g *Generator) PeelSubshells() []string {
	out := make([]string, len(g.peel))
	copy(out, g.peel)
	return out
}

// DescriptorSize returns the length of every descriptor this generator emits.
func (g *Generator) DescriptorSize() int {
	return ValuesPerOrbital * len(g.peel)
}

// Config describes the generator layout.
func (g *Generator) Config() map[string]interface{} {
	return map[string]interface{}{
		"orbital_count":  g.OrbitalCount(),
		"peel_subshells": g.PeelSubshells(),
	}
}

// ParseRecord is Parse over a [occupation, intermediate, final] triple.
func (g *Generator) ParseRecord(lines [3]string) ([]int32, error) {
	return g.Parse(lines[0], lines[1], lines[2])
}

// Parse decodes one CSF record into a descriptor of length
// 3 × OrbitalCount().
//
// Coupling tokens on the intermediate line are attributed with a single open
// group: the first token is the J_middle of the subshell whose column it
// sits in and opens that subshell; every later token is the J_coupling of
// the currently open subshell and then reopens the group on its own column.
// The final-line token supplies the last subshell's J_coupling when nothing
// on the intermediate line did.
func (g *Generator) Parse(occupation, middle, final string) ([]int32, error) {
	desc := make([]int32, g.DescriptorSize())
	if err := g.parseOccupation(occupation, desc); err != nil {
		return nil, err
	}
	if err := g.parseCouplings(middle, final, desc); err != nil {
		return nil, err
	}
	return desc, nil
}

func (g *Generator) parseOccupation(line string, desc []int32) error {
	n := len(g.peel)
	line = strings.TrimRight(line, " \t\r\n")

	// The last column may lose trailing blanks, so any length in
	// ((n-1)*width, n*width] is accepted.
	if len(line) > n*ColumnWidth || (n > 0 && len(line) <= (n-1)*ColumnWidth) {
		return errors.Newf(errors.ErrorTypeParse, errors.KindLengthMismatch,
			"occupation line has %d characters, expected %d columns of %d", len(line), n, ColumnWidth).
			WithDetail("length", len(line)).
			WithDetail("orbital_count", n)
	}

	for i := 0; i < n; i++ {
		start := i * ColumnWidth
		end := min(start+ColumnWidth, len(line))
		count, ok := electronCount(line[start:end])
		if !ok {
			return errors.Newf(errors.ErrorTypeParse, errors.KindBadToken,
				"cannot read electron count of %s from %q", g.peel[i], line[start:end]).
				WithDetail("orbital", i)
		}
		desc[i*ValuesPerOrbital] = count
	}
	return nil
}

// electronCount reads the integer between parentheses of one column.
func electronCount(field string) (int32, bool) {
	open := strings.IndexByte(field, '(')
	if open < 0 {
		return 0, false
	}
	closing := strings.IndexByte(field[open:], ')')
	if closing < 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(field[open+1 : open+closing]), 10, 32)
	if err != nil || v < 0 {
		return 0, false
	}
	return int32(v), true
}

func (g *Generator) parseCouplings(middle, final string, desc []int32) error {
	n := len(g.peel)
	couplingSet := make([]bool, n)
	open := -1

	for _, tok := range scanTokens(middle) {
		home := tok.offset / ColumnWidth
		if home >= n {
			return errors.Newf(errors.ErrorTypeParse, errors.KindUnknownColumn,
				"coupling token %q at offset %d is outside the %d subshell columns", tok.text, tok.offset, n).
				WithDetail("offset", tok.offset)
		}
		v, err := decode(tok.text, false)
		if err != nil {
			return err.WithDetail("offset", tok.offset).WithDetail("line", "intermediate")
		}
		if open < 0 {
			desc[home*ValuesPerOrbital+1] = v
		} else {
			desc[open*ValuesPerOrbital+2] = v
			couplingSet[open] = true
		}
		open = home
	}

	if n == 0 || couplingSet[n-1] {
		return nil
	}
	toks := scanTokens(final)
	if len(toks) == 0 {
		return nil
	}
	// only one token is expected; the rightmost one is the total J
	tok := toks[len(toks)-1]
	v, err := decode(tok.text, true)
	if err != nil {
		return err.WithDetail("offset", tok.offset).WithDetail("line", "final")
	}
	desc[(n-1)*ValuesPerOrbital+2] = v
	return nil
}

type token struct {
	text   string
	offset int
}

// scanTokens splits a line on blanks, remembering where each token starts.
func scanTokens(line string) []token {
	var toks []token
	start := -1
	for i := 0; i < len(line); i++ {
		blank := line[i] == ' ' || line[i] == '\t' || line[i] == '\r' || line[i] == '\n'
		switch {
		case blank && start >= 0:
			toks = append(toks, token{text: line[start:i], offset: start})
			start = -1
		case !blank && start < 0:
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, token{text: line[start:], offset: start})
	}
	return toks
}
