package descriptor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/csfs/pkg/errors"
)

var sixPeel = []string{"5s", "4d-", "4d", "5p-", "5p", "6s"}

const (
	sixOccupation = "  5s ( 2)  4d-( 4)  4d ( 6)  5p-( 2)  5p ( 4)  6s ( 2)"
	sixMiddle     = "                   3/2               2        "
	sixFinal      = "                                           4-  "
)

func TestParseThreeOrbitals(t *testing.T) {
	g := New([]string{"5s", "4d-", "4d"})
	desc, err := g.Parse(
		"  5s ( 2)  4d-( 4)  4d ( 6)",
		"                   3/2      ",
		"                        4-  ",
	)
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 0, 0, 4, 0, 0, 6, 3, 8}, desc)
}

func TestParseSixOrbitals(t *testing.T) {
	g := New(sixPeel)
	desc, err := g.Parse(sixOccupation, sixMiddle, sixFinal)
	require.NoError(t, err)
	require.Len(t, desc, 18)

	assert.Equal(t, []int32{2, 0, 0}, desc[0:3], "5s")
	assert.Equal(t, []int32{4, 0, 0}, desc[3:6], "4d-")
	assert.Equal(t, []int32{6, 3, 2}, desc[6:9], "4d")
	assert.Equal(t, []int32{2, 0, 0}, desc[9:12], "5p-")
	assert.Equal(t, []int32{4, 0, 0}, desc[12:15], "5p")
	assert.Equal(t, []int32{2, 0, 8}, desc[15:18], "6s")
}

func TestParseRecord(t *testing.T) {
	g := New(sixPeel)
	a, err := g.ParseRecord([3]string{sixOccupation, sixMiddle, sixFinal})
	require.NoError(t, err)
	b, err := g.Parse(sixOccupation, sixMiddle, sixFinal)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseTrailingBlanksTolerated(t *testing.T) {
	g := New([]string{"5s", "4d-", "4d"})
	// last column without its trailing blanks is still a full record
	desc, err := g.Parse("  5s ( 2)  4d-( 4)  4d ( 6)   ", "", "   0+")
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 0, 0, 4, 0, 0, 6, 0, 0}, desc)
}

func TestParseFinalDoesNotOverwrite(t *testing.T) {
	g := New([]string{"2s", "2p"})
	// second token closes the 2s group onto the last orbital's column
	desc, err := g.Parse(
		"  2s ( 1)  2p ( 3)",
		"       1/2      3/2",
		"               5/2+",
	)
	require.NoError(t, err)
	// 2s: J_middle=1, coupling=3 ; 2p: never closed, final fills it
	assert.Equal(t, []int32{1, 1, 3, 3, 0, 5}, desc)

	desc, err = g.Parse(
		"  2s ( 1)  2p ( 3)",
		"         1/2  3/2",
		"               7/2-",
	)
	require.NoError(t, err)
	// both tokens live in the 2p column: the second closes 2p itself
	assert.Equal(t, []int32{1, 0, 0, 3, 1, 3}, desc)
}

func TestParseLengthMismatch(t *testing.T) {
	g := New(sixPeel)
	for _, line := range []string{
		"  5s ( 2)  4d-( 4)",
		sixOccupation + "  7s ( 1)",
		"",
	} {
		_, err := g.Parse(line, "", "")
		require.Error(t, err, "%q", line)
		assert.True(t, errors.IsKind(err, errors.KindLengthMismatch), "%q: %v", line, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
	}
}

func TestParseBadTokens(t *testing.T) {
	g := New([]string{"5s", "4d-", "4d"})
	occ := "  5s ( 2)  4d-( 4)  4d ( 6)"

	_, err := g.Parse("  5s ( x)  4d-( 4)  4d ( 6)", "", "")
	assert.True(t, errors.IsKind(err, errors.KindBadToken), "%v", err)

	_, err = g.Parse("  5s   2   4d-( 4)  4d ( 6)", "", "")
	assert.True(t, errors.IsKind(err, errors.KindBadToken), "%v", err)

	_, err = g.Parse(occ, "                   3/4", "")
	assert.True(t, errors.IsKind(err, errors.KindBadToken), "%v", err)

	_, err = g.Parse(occ, "                   abc", "")
	assert.True(t, errors.IsKind(err, errors.KindBadToken), "%v", err)

	_, err = g.Parse(occ, "", "                        +")
	assert.True(t, errors.IsKind(err, errors.KindBadToken), "%v", err)
}

func TestParseUnknownColumn(t *testing.T) {
	g := New([]string{"5s", "4d-"})
	_, err := g.Parse("  5s ( 2)  4d-( 4)", "                     3/2", "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnknownColumn), "%v", err)

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	offset, ok := e.Detail("offset")
	require.True(t, ok)
	assert.Equal(t, 21, offset)
}

func TestGeneratorAccessors(t *testing.T) {
	peel := []string{"5s", "4d-"}
	g := New(peel)
	peel[0] = "zz"

	assert.Equal(t, 2, g.OrbitalCount())
	assert.Equal(t, 6, g.DescriptorSize())
	assert.Equal(t, []string{"5s", "4d-"}, g.PeelSubshells())

	cfg := g.Config()
	assert.Equal(t, 2, cfg["orbital_count"])
	assert.Equal(t, []string{"5s", "4d-"}, cfg["peel_subshells"])

	empty := New(nil)
	desc, err := empty.Parse("", "", "")
	require.NoError(t, err)
	assert.Empty(t, desc)
}

func TestParseConcurrent(t *testing.T) {
	g := New(sixPeel)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				desc, err := g.Parse(sixOccupation, sixMiddle, sixFinal)
				if assert.NoError(t, err) {
					assert.Equal(t, int32(8), desc[17])
				}
			}
		}()
	}
	wg.Wait()
}

func TestDecodeJ(t *testing.T) {
	tests := map[string]int32{
		"3/2":  3,
		"1/2":  1,
		"5/2+": 5,
		"4-":   8,
		"0+":   0,
		"2":    4,
		"11/2": 11,
	}
	for tok, want := range tests {
		got, err := DecodeJ(tok)
		require.NoError(t, err, tok)
		assert.Equal(t, want, got, tok)
	}

	for _, tok := range []string{"", "+", "a", "3/4", "x/2", "-", "1/2/2"} {
		_, err := DecodeJ(tok)
		assert.True(t, errors.IsKind(err, errors.KindBadToken), "%q", tok)
	}
}

func TestDecodeJOverflow(t *testing.T) {
	got, err := DecodeJ("1073741823")
	require.NoError(t, err)
	assert.Equal(t, int32(2147483646), got)

	for _, tok := range []string{"3000000000", "1073741824", "2147483648/2", "99999999999999999999+"} {
		_, err := DecodeJ(tok)
		assert.True(t, errors.IsKind(err, errors.KindBadToken), "%q", tok)
	}

	v, derr := decode("2147483647", false)
	require.Nil(t, derr)
	assert.Equal(t, int32(2147483647), v)
}

func TestElectronCountOverflow(t *testing.T) {
	_, ok := electronCount("(3000000000)")
	assert.False(t, ok)

	v, ok := electronCount("  4d-( 4)")
	require.True(t, ok)
	assert.Equal(t, int32(4), v)
}

func TestPeelFromHeader(t *testing.T) {
	header := []string{
		"Core subshells:",
		"  1s  2s  2p- 2p  3s  3p- 3p  3d- 3d  4s  4p- 4p",
		"Peel subshells:",
		"  5s  4d- 4d  5p- 5p  6s",
		"CSF(s):",
	}
	peel, ok := PeelFromHeader(header)
	require.True(t, ok)
	assert.Equal(t, sixPeel, peel)

	_, ok = PeelFromHeader([]string{"header line 1", "header line 2", "a", "b", "c"})
	assert.False(t, ok)

	_, ok = PeelFromHeader([]string{"Core subshells:", "", "Peel subshells:"})
	assert.False(t, ok)

	_, ok = PeelFromHeader([]string{"Peel subshells:", "   "})
	assert.False(t, ok)
}
