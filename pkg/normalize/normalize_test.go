package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/csfs/pkg/errors"
)

var peel = []string{"5s", "4d-", "4d", "5p-", "5p", "6s"}

func TestPropertiesFor(t *testing.T) {
	p, err := PropertiesFor("4d-", 20)
	require.NoError(t, err)
	assert.Equal(t, Properties{MaxElectrons: 4, KappaSquared: 4, MaxCumulativeDoubledJ: 20}, p)

	p, err = PropertiesFor("i ", 7)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{14, 49, 7}, p.Flat())

	_, err = PropertiesFor("xyz", 20)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnknownSubshell))
	assert.True(t, errors.IsType(err, errors.ErrorTypeNormalization))

	for _, code := range []string{"dz", "4d+", "dd", "d-x"} {
		_, err = PropertiesFor(code, 20)
		assert.True(t, errors.IsKind(err, errors.KindUnknownSubshell), "%q", code)
	}
}

func TestPropertiesForList(t *testing.T) {
	props, err := PropertiesForList([]string{"5s", "4d-", "4d"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 10, 4, 4, 10, 6, 9, 10}, props)

	props, err = PropertiesForList(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, props)

	_, err = PropertiesForList([]string{"5s", "9k"}, 10)
	assert.True(t, errors.IsKind(err, errors.KindUnknownSubshell))
}

func TestReciprocals(t *testing.T) {
	r, err := Reciprocals([]float64{2, 4, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25, 2}, r)

	_, err = Reciprocals([]float64{1, 0, 3})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDivideByZero))

	// a zero cumulative J bound surfaces the same way
	_, err = Normalize(make([]int32, 3), []string{"5s"}, 0)
	assert.True(t, errors.IsKind(err, errors.KindDivideByZero))
}

func TestNormalize(t *testing.T) {
	desc := []int32{2, 0, 0, 4, 0, 0, 6, 3, 2, 2, 0, 0, 4, 0, 0, 2, 0, 8}
	norm, err := Normalize(desc, peel, 16)
	require.NoError(t, err)
	require.Len(t, norm, len(desc))

	assert.InDelta(t, 1.0, norm[0], 1e-6)
	assert.InDelta(t, 1.0, norm[6], 1e-6)
	assert.InDelta(t, 3.0/9.0, norm[7], 1e-6)
	assert.InDelta(t, 2.0/16.0, norm[8], 1e-6)
	assert.InDelta(t, 8.0/16.0, norm[17], 1e-6)
}

func TestNormalizeErrors(t *testing.T) {
	_, err := Normalize([]int32{1, 2}, []string{"5s"}, 10)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindLengthMismatch))

	_, err = Normalize([]int32{1, 2, 3}, []string{"5q"}, 10)
	assert.True(t, errors.IsKind(err, errors.KindUnknownSubshell))
}

func TestRoundTrip(t *testing.T) {
	n, err := New(peel, 24)
	require.NoError(t, err)
	require.Equal(t, 18, n.Size())
	recips := n.Reciprocals()

	descs := [][]int32{
		{2, 0, 0, 4, 0, 0, 6, 3, 2, 2, 0, 0, 4, 0, 0, 2, 0, 8},
		{1, 1, 1, 3, 3, 4, 5, 5, 7, 1, 1, 6, 3, 3, 9, 1, 1, 10},
		make([]int32, 18),
	}
	for _, desc := range descs {
		norm, err := n.Normalize(desc)
		require.NoError(t, err)
		for i := range desc {
			assert.InDelta(t, float64(desc[i]), float64(norm[i])/recips[i], 1e-4, "position %d", i)
		}
	}
}

func TestBatchNormalize(t *testing.T) {
	codes := []string{"5s", "4d"}
	good := []int32{2, 1, 1, 6, 3, 5}

	out, err := BatchNormalize([][]int32{good, good}, codes, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, out[0], out[1])

	out, err = BatchNormalize([][]int32{good, good, {1, 2}, good}, codes, 10)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.IsKind(err, errors.KindLengthMismatch))

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	idx, ok := e.Detail("index")
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	out, err = BatchNormalize(nil, codes, 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNormalizeElectronCount(t *testing.T) {
	v, err := NormalizeElectronCount(3, "4d")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-6)

	// overfilled counts are not clamped
	v, err = NormalizeElectronCount(4, "s ")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-6)

	_, err = NormalizeElectronCount(1, "zz")
	assert.True(t, errors.IsKind(err, errors.KindUnknownSubshell))
}

func TestNormalizeElectrons(t *testing.T) {
	out, err := NormalizeElectrons([]int32{1, 1, 1, 3, 3, 8}, []string{"5s", "4d"})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 1, 1, 0.5, 3, 8}, out)

	_, err = NormalizeElectrons([]int32{1}, []string{"5s"})
	assert.True(t, errors.IsKind(err, errors.KindLengthMismatch))

	batch, err := BatchNormalizeElectrons([][]int32{{2, 0, 0}, {1, 0, 0}}, []string{"2s"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0, 0}, {0.5, 0, 0}}, batch)

	_, err = BatchNormalizeElectrons([][]int32{{2, 0, 0}, {1, 0}}, []string{"2s"})
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	idx, _ := e.Detail("index")
	assert.Equal(t, 1, idx)
}
