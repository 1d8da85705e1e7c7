package textual

import (
	"bufio"
	"bytes"
	"unicode/utf8"
)

// ScanLines is a bufio.SplitFunc returning each line of text with its
// trailing end-of-line marker. Unlike bufio.ScanLines, nothing is dropped, so
// concatenating the tokens restores the input exactly.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ScanChunks returns a bufio.SplitFunc cutting the input into tokens of at
// most size bytes that never split a UTF-8 sequence. It suits rune-level
// mapping of inputs without line structure (minified text, huge lines).
//
// A size below utf8.UTFMax is raised to utf8.UTFMax. Invalid bytes are
// emitted as they are; the mapper decodes them to utf8.RuneError.
func ScanChunks(size int) bufio.SplitFunc {
	size = max(size, utf8.UTFMax)
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if len(data) < size && !atEOF {
			return 0, nil, nil
		}
		n := min(len(data), size)
		if n < len(data) || !atEOF {
			n = runeBoundary(data, n)
		}
		if n == 0 {
			return 0, nil, nil
		}
		return n, data[:n], nil
	}
}

// runeBoundary moves n back to the start of the last UTF-8 sequence of
// data[:n] when that sequence is incomplete. It returns 0 only when data[:n]
// holds a single incomplete sequence.
func runeBoundary(data []byte, n int) int {
	for i := n - 1; i >= 0 && i > n-1-utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if utf8.FullRune(data[i:n]) {
				return n
			}
			return i
		}
	}
	return n
}
