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
	"iter"
	"strings"
	"unicode/utf8"
)

// Transform lazily produces the mapped runes of one Source.
//
// A Transform is a small state machine with three states:
//
//   - draining: emitting the remaining runes of a string substitution,
//   - scanning: pulling runes from the source and resolving them,
//   - exhausted: terminal, every call to Next returns false.
//
// Work happens only inside Next, one output rune per call. A single call may
// consume several source runes when they resolve to Delete or to an empty
// string substitution: those never surface as an empty step.
//
// A Transform is forward-only and single-use. It is not safe for concurrent
// use; create one Transform per goroutine from a shared Mapper.
type Transform struct {
	mapper *Mapper
	src    Source

	// sub[pos:] is what remains of the substitution being drained.
	// draining is true only while pos < len(sub).
	sub      string
	pos      int
	draining bool

	done bool
}

// Next returns the next output rune, or false once the Transform is
// exhausted. Exhaustion is permanent.
func (t *Transform) Next() (rune, bool) {
	if t.draining {
		if r, ok := t.drain(); ok {
			return r, true
		}
	}
	if t.done {
		return 0, false
	}
	for {
		c, ok := t.src.Next()
		if !ok {
			t.finish()
			return 0, false
		}
		a := t.mapper.Resolve(c)
		switch a.kind {
		case KindDelete:
			continue
		case KindSubChar:
			return a.char, true
		case KindSubStr:
			if a.str == "" {
				continue
			}
			t.sub, t.pos, t.draining = a.str, 0, true
			r, _ := t.drain()
			return r, true
		default:
			return c, true
		}
	}
}

// drain emits the next rune of the current substitution.
func (t *Transform) drain() (rune, bool) {
	if t.pos >= len(t.sub) {
		t.sub, t.pos, t.draining = "", 0, false
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(t.sub[t.pos:])
	t.pos += size
	if t.pos >= len(t.sub) {
		t.sub, t.pos, t.draining = "", 0, false
	}
	return r, true
}

func (t *Transform) finish() {
	t.done = true
	if s, ok := t.src.(interface{ Stop() }); ok {
		s.Stop()
	}
}

// Draining reports whether a string substitution still has runes to emit.
func (t *Transform) Draining() bool {
	return t.draining
}

// Exhausted reports whether Next has already returned false.
func (t *Transform) Exhausted() bool {
	return t.done
}

// Stop abandons the Transform: the source is released when it supports it
// and every later call to Next returns false.
func (t *Transform) Stop() {
	t.sub, t.pos, t.draining = "", 0, false
	if !t.done {
		t.finish()
	}
}

// All yields the remaining output runes.
func (t *Transform) All() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for r, ok := t.Next(); ok; r, ok = t.Next() {
			if !yield(r) {
				return
			}
		}
	}
}

// Collect drains the Transform and returns the output as a string.
func (t *Transform) Collect() string {
	var b strings.Builder
	for r, ok := t.Next(); ok; r, ok = t.Next() {
		b.WriteRune(r)
	}
	return b.String()
}
