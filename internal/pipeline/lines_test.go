package pipeline

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, lr *LineReader) []string {
	t.Helper()
	var out []string
	for {
		line, err := lr.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, line)
	}
}

func TestLineReaderTerminators(t *testing.T) {
	lr := NewLineReader(strings.NewReader("a\r\nb\n\nlast"))
	assert.Equal(t, []string{"a", "b", "", "last"}, readAll(t, lr))
	assert.EqualValues(t, 4, lr.Lines())

	lr = NewLineReader(strings.NewReader(""))
	assert.Empty(t, readAll(t, lr))
}

func TestLineReaderLongLines(t *testing.T) {
	long := strings.Repeat("x", 3*readerBufferSize+17)
	lr := NewLineReader(strings.NewReader("short\n" + long + "\nafter\n"))
	lines := readAll(t, lr)
	require.Len(t, lines, 3)
	assert.Equal(t, long, lines[1])
	assert.Equal(t, "after", lines[2])
}

func TestReadChunk(t *testing.T) {
	lr := NewLineReader(strings.NewReader("1\n2\n3\n4\n5\n6\n7\n"))
	c, err := lr.ReadChunk(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, c)
	c, err = lr.ReadChunk(3)
	require.NoError(t, err)
	assert.Len(t, c, 3)
	c, err = lr.ReadChunk(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, c)
	_, err = lr.ReadChunk(3)
	assert.Equal(t, io.EOF, err)
}

func TestTruncate(t *testing.T) {
	s, cut := Truncate(strings.Repeat("a", 500), 256)
	assert.True(t, cut)
	assert.Len(t, s, 256)

	s, cut = Truncate("exact", 5)
	assert.False(t, cut)
	assert.Equal(t, "exact", s)

	s, cut = Truncate("anything", 0)
	assert.False(t, cut)
	assert.Equal(t, "anything", s)

	// "é" is two bytes; cutting inside it drops the whole rune
	s, cut = Truncate("aé", 2)
	assert.True(t, cut)
	assert.Equal(t, "a", s)
}

func TestAppendChunkReusesBuffer(t *testing.T) {
	lr := NewLineReader(strings.NewReader("a\nb\nc\n"))
	buf := make([]string, 0, 4)
	buf, err := lr.AppendChunk(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, buf)

	buf, err = lr.AppendChunk(buf[:0], 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, buf)

	buf, err = lr.AppendChunk(buf[:0], 2)
	assert.Equal(t, io.EOF, err)
	assert.Empty(t, buf)
}
