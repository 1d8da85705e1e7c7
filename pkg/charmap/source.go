// Copyright 2026 Benoit Pereira da Silva
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package charmap

import (
	"errors"
	"io"
	"iter"
	"unicode/utf8"
)

// Source is a forward-only cursor over input runes.
//
// Next returns the next rune and true, or false once the source is
// exhausted. After returning false, Next must keep returning false.
type Source interface {
	Next() (rune, bool)
}

// StringSource walks the runes of a string without copying it.
// Invalid UTF-8 bytes decode to utf8.RuneError, as with a range loop.
type StringSource struct {
	s   string
	pos int
}

// NewStringSource returns a StringSource over s.
func NewStringSource(s string) *StringSource {
	return &StringSource{s: s}
}

// Next implements Source.
func (s *StringSource) Next() (rune, bool) {
	if s.pos >= len(s.s) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s.s[s.pos:])
	s.pos += size
	return r, true
}

// RuneSource yields a single rune once.
type RuneSource struct {
	r    rune
	done bool
}

// NewRuneSource returns a RuneSource yielding r.
func NewRuneSource(r rune) *RuneSource {
	return &RuneSource{r: r}
}

// Next implements Source.
func (s *RuneSource) Next() (rune, bool) {
	if s.done {
		return 0, false
	}
	s.done = true
	return s.r, true
}

// SeqSource pulls runes from an iter.Seq.
//
// The underlying iterator is released as soon as it is exhausted. Callers
// that stop early should call Stop.
type SeqSource struct {
	next func() (rune, bool)
	stop func()
	done bool
}

// NewSeqSource returns a SeqSource pulling from seq.
func NewSeqSource(seq iter.Seq[rune]) *SeqSource {
	next, stop := iter.Pull(seq)
	return &SeqSource{next: next, stop: stop}
}

// Next implements Source.
func (s *SeqSource) Next() (rune, bool) {
	if s.done {
		return 0, false
	}
	r, ok := s.next()
	if !ok {
		s.Stop()
	}
	return r, ok
}

// Stop releases the pulled iterator. It is safe to call more than once.
func (s *SeqSource) Stop() {
	if s.done {
		return
	}
	s.done = true
	s.stop()
}

// ReaderSource reads runes from an io.RuneReader.
//
// Read failures other than io.EOF end the source and are kept for the caller
// in Err: the engine only sees exhaustion.
type ReaderSource struct {
	rr   io.RuneReader
	err  error
	done bool
}

// NewReaderSource returns a ReaderSource reading from rr.
func NewReaderSource(rr io.RuneReader) *ReaderSource {
	return &ReaderSource{rr: rr}
}

// Next implements Source. It returns false on io.EOF or a read error.
func (s *ReaderSource) Next() (rune, bool) {
	if s.done {
		return 0, false
	}
	r, _, err := s.rr.ReadRune()
	if err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return 0, false
	}
	return r, true
}

// Err returns the first non-EOF error met while reading, if any.
func (s *ReaderSource) Err() error {
	return s.err
}
