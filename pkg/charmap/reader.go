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
	"bufio"
	"io"
	"unicode/utf8"
)

// Reader is an io.Reader producing the UTF-8 encoding of a mapped stream.
//
// Bytes are produced on demand: Read pulls just enough runes from the
// Transform to fill p. Once the underlying reader is exhausted, Read returns
// the error that ended it, or io.EOF.
type Reader struct {
	t   *Transform
	src *ReaderSource

	// pending holds the tail of a rune that did not fit in the last Read.
	pending [utf8.UTFMax]byte
	np, off int
}

// NewReader returns a Reader mapping the UTF-8 text read from r.
func (m *Mapper) NewReader(r io.Reader) *Reader {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	t, src := m.RuneReader(rr)
	return &Reader{t: t, src: src}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := copy(p, r.pending[r.off:r.np])
	r.off += n
	for n < len(p) {
		c, ok := r.t.Next()
		if !ok {
			if n > 0 {
				return n, nil
			}
			if err := r.src.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		size := utf8.RuneLen(c)
		if size < 0 {
			c, size = utf8.RuneError, 3
		}
		if size <= len(p)-n {
			n += utf8.EncodeRune(p[n:], c)
			continue
		}
		r.np = utf8.EncodeRune(r.pending[:], c)
		r.off = copy(p[n:], r.pending[:r.np])
		n += r.off
	}
	return n, nil
}
