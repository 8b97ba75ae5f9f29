package pipeline

import (
	"bufio"
	"io"
	"unicode/utf8"
)

const readerBufferSize = 256 * 1024

// LineReader yields the lines of a text stream without length limits.
// Line terminators ("\n" or "\r\n") are stripped.
type LineReader struct {
	r     *bufio.Reader
	lines int64
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReaderSize(r, readerBufferSize)}
}

// Next returns the next line, or io.EOF once the stream is exhausted.
func (lr *LineReader) Next() (string, error) {
	frag, isPrefix, err := lr.r.ReadLine()
	if err != nil {
		return "", err
	}
	if !isPrefix {
		lr.lines++
		return string(frag), nil
	}

	// long line: the fragment is only valid until the next read
	buf := append([]byte(nil), frag...)
	for isPrefix {
		frag, isPrefix, err = lr.r.ReadLine()
		if err != nil {
			return "", err
		}
		buf = append(buf, frag...)
	}
	lr.lines++
	return string(buf), nil
}

// ReadChunk reads up to max lines. It returns io.EOF only when no line was
// left; a short chunk means the stream ended.
func (lr *LineReader) ReadChunk(max int) ([]string, error) {
	return lr.AppendChunk(make([]string, 0, max), max)
}

// AppendChunk is ReadChunk appending to dst, which lets callers reuse
// buffers.
func (lr *LineReader) AppendChunk(dst []string, max int) ([]string, error) {
	start := len(dst)
	for len(dst)-start < max {
		line, err := lr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dst, err
		}
		dst = append(dst, line)
	}
	if len(dst) == start {
		return dst, io.EOF
	}
	return dst, nil
}

// Lines returns the number of lines read so far.
func (lr *LineReader) Lines() int64 {
	return lr.lines
}

// Truncate cuts line to at most maxLen bytes, backing off to a rune
// boundary, and reports whether it was cut. maxLen <= 0 disables the limit.
func Truncate(line string, maxLen int) (string, bool) {
	if maxLen <= 0 || len(line) <= maxLen {
		return line, false
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut], true
}
