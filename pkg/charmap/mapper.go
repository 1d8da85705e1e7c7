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
	"io"
	"iter"
)

// Mapper binds a Resolver and a default Action.
//
// A Mapper is immutable and cheap: it holds two references and never copies
// the resolver's contents. It can be shared by any number of Transforms,
// including Transforms running on different goroutines, as long as the
// Resolver itself is safe for concurrent lookups.
//
// Usage:
//
//	m := charmap.NewMapper(charmap.Map{
//		'!': charmap.Delete(),
//		'l': charmap.SubStr("LLL"),
//	}, charmap.Pass())
//
//	m.Map("Hello, world!") // "HeLLLLLLo, worLLLd"
type Mapper struct {
	resolver Resolver
	def      Action
}

// NewMapper returns a Mapper resolving runes with resolver and falling back to
// def for runes the resolver has no entry for. A nil resolver has no entries.
func NewMapper(resolver Resolver, def Action) *Mapper {
	return &Mapper{resolver: resolver, def: def}
}

// Default returns the action applied to runes the resolver does not know.
func (m *Mapper) Default() Action {
	return m.def
}

// Resolve returns the action for r.
func (m *Mapper) Resolve(r rune) Action {
	if m.resolver != nil {
		if a, ok := m.resolver.Lookup(r); ok {
			return a
		}
	}
	return m.def
}

// Transform binds m to src and returns a fresh Transform.
func (m *Mapper) Transform(src Source) *Transform {
	return &Transform{mapper: m, src: src}
}

// String returns a Transform over the runes of s.
func (m *Mapper) String(s string) *Transform {
	return m.Transform(NewStringSource(s))
}

// Rune returns a Transform over the single rune r.
func (m *Mapper) Rune(r rune) *Transform {
	return m.Transform(NewRuneSource(r))
}

// Seq returns a Transform pulling runes from seq.
// Call Stop on the Transform if it is abandoned before exhaustion.
func (m *Mapper) Seq(seq iter.Seq[rune]) *Transform {
	return m.Transform(NewSeqSource(seq))
}

// RuneReader returns a Transform reading runes from rr, together with the
// source so the caller can check its Err once the Transform is exhausted.
func (m *Mapper) RuneReader(rr io.RuneReader) (*Transform, *ReaderSource) {
	src := NewReaderSource(rr)
	return m.Transform(src), src
}

// Map transforms s and returns the whole result.
func (m *Mapper) Map(s string) string {
	return m.String(s).Collect()
}

// MapSeq returns a lazy sequence of the transformed runes of seq.
func (m *Mapper) MapSeq(seq iter.Seq[rune]) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		t := m.Seq(seq)
		defer t.Stop()
		for r, ok := t.Next(); ok; r, ok = t.Next() {
			if !yield(r) {
				return
			}
		}
	}
}
