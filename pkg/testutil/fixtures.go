package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// SixPeel is a realistic peel subshell list.
var SixPeel = []string{"5s", "4d-", "4d", "5p-", "5p", "6s"}

// ColumnWidth mirrors the 9-character CSF column.
const ColumnWidth = 9

// GRASPHeader builds the 5-line preamble of a CSF list with peel as the
// peel subshells.
func GRASPHeader(peel []string) []string {
	return []string{
		"Core subshells:",
		"  1s   2s   2p-  2p   3s   3p-  3p   3d-  3d   4s   4p-  4p",
		"Peel subshells:",
		"  " + strings.Join(peel, "  "),
		"CSF(s):",
	}
}

// FakeHeader is a 5-line header without a peel list.
func FakeHeader() []string {
	h := make([]string, 5)
	for i := range h {
		h[i] = fmt.Sprintf("  Header line %d", i+1)
	}
	return h
}

// Token is a coupling token placed in a subshell column.
type Token struct {
	Col  int
	Text string
}

// Occupation formats an occupation line: one "  4d-( 4)" column per subshell.
func Occupation(peel []string, counts []int) string {
	var b strings.Builder
	for i, name := range peel {
		fmt.Fprintf(&b, "  %-3s(%2d)", name, counts[i])
	}
	return b.String()
}

// CouplingLine places tokens one character into their column on a line
// spanning n columns.
func CouplingLine(n int, tokens ...Token) string {
	line := []byte(strings.Repeat(" ", n*ColumnWidth+1))
	for _, tok := range tokens {
		copy(line[tok.Col*ColumnWidth+1:], tok.Text)
	}
	return string(line)
}

// SampleRecords returns n valid, varied records for SixPeel.
func SampleRecords(n int) [][3]string {
	records := make([][3]string, n)
	for i := range records {
		counts := []int{2, 4, 6, 2, 4, 2}
		counts[i%6] = (i/6)%2 + 1
		var middle []Token
		switch i % 4 {
		case 1:
			middle = []Token{{Col: 2, Text: "3/2"}}
		case 2:
			middle = []Token{{Col: 2, Text: "3/2"}, {Col: 4, Text: "2"}}
		case 3:
			middle = []Token{{Col: 0, Text: "1/2"}, {Col: 3, Text: "5/2"}}
		}
		parity := "+"
		if i%2 == 1 {
			parity = "-"
		}
		records[i] = [3]string{
			Occupation(SixPeel, counts),
			CouplingLine(6, middle...),
			CouplingLine(6, Token{Col: 4, Text: fmt.Sprintf("%d%s", i%5, parity)}),
		}
	}
	return records
}

// CSFList is an in-memory CSF list file.
type CSFList struct {
	Header  []string
	Records [][3]string
	// Trailing lines after the last complete record
	Trailing []string
}

// Lines flattens the list into file lines.
func (l *CSFList) Lines() []string {
	lines := append([]string{}, l.Header...)
	for _, r := range l.Records {
		lines = append(lines, r[0], r[1], r[2])
	}
	return append(lines, l.Trailing...)
}

// String renders the file content with a final newline.
func (l *CSFList) String() string {
	return strings.Join(l.Lines(), "\n") + "\n"
}

// Write stores the list as dir/name and returns the path.
func (l *CSFList) Write(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(l.String()), 0o644))
	return path
}
