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
	"cmp"
	"iter"
	"slices"
)

// Resolver maps a single rune to an optional Action.
//
// Lookup is a point query: the engine never iterates a Resolver and never
// relies on any ordering of its backing structure. Implementations must be
// safe to call from several Transforms at once if the Mapper holding them is
// shared across goroutines. A Resolver whose backing store can fail must
// degrade to "no entry" (ok == false) so the Mapper's default applies.
type Resolver interface {
	Lookup(r rune) (Action, bool)
}

// ResolverFunc adapts a plain function to a Resolver.
type ResolverFunc func(r rune) (Action, bool)

// Lookup calls f(r).
func (f ResolverFunc) Lookup(r rune) (Action, bool) {
	return f(r)
}

// Map is a hash table Resolver.
type Map map[rune]Action

// Lookup implements Resolver.
func (m Map) Lookup(r rune) (Action, bool) {
	a, ok := m[r]
	return a, ok
}

// Entry pairs a rune with its Action.
type Entry struct {
	Rune   rune
	Action Action
}

// Sorted is an ordered Resolver backed by a slice sorted by rune.
// Lookups are binary searches; Entries iterates in rune order.
type Sorted struct {
	entries []Entry
}

// NewSorted builds a Sorted resolver. When a rune appears more than once the
// last entry wins.
func NewSorted(entries ...Entry) *Sorted {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Compare(a.Rune, b.Rune)
	})
	// Keep the last entry of each run of equal runes.
	out := sorted[:0]
	for i, e := range sorted {
		if i+1 < len(sorted) && sorted[i+1].Rune == e.Rune {
			continue
		}
		out = append(out, e)
	}
	return &Sorted{entries: out}
}

// Lookup implements Resolver.
func (s *Sorted) Lookup(r rune) (Action, bool) {
	if s == nil {
		return Action{}, false
	}
	i, found := slices.BinarySearchFunc(s.entries, r, func(e Entry, target rune) int {
		return cmp.Compare(e.Rune, target)
	})
	if !found {
		return Action{}, false
	}
	return s.entries[i].Action, true
}

// Len returns the number of distinct runes in s.
func (s *Sorted) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries yields the entries of s in ascending rune order.
func (s *Sorted) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if s == nil {
			return
		}
		for _, e := range s.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Dense is a precomputed static table covering the contiguous rune range
// [low, low+n). Runes outside the range have no entry.
type Dense struct {
	low     rune
	actions []Action
	present []bool
}

// NewDense builds a Dense table starting at low. Every rune of the range has
// an entry.
func NewDense(low rune, actions []Action) *Dense {
	present := make([]bool, len(actions))
	for i := range present {
		present[i] = true
	}
	return &Dense{low: low, actions: slices.Clone(actions), present: present}
}

// DenseFrom builds the smallest Dense table holding every entry of entries.
func DenseFrom(entries ...Entry) *Dense {
	if len(entries) == 0 {
		return &Dense{}
	}
	lo, hi := entries[0].Rune, entries[0].Rune
	for _, e := range entries[1:] {
		lo = min(lo, e.Rune)
		hi = max(hi, e.Rune)
	}
	d := &Dense{
		low:     lo,
		actions: make([]Action, hi-lo+1),
		present: make([]bool, hi-lo+1),
	}
	for _, e := range entries {
		d.actions[e.Rune-lo] = e.Action
		d.present[e.Rune-lo] = true
	}
	return d
}

// Lookup implements Resolver.
func (d *Dense) Lookup(r rune) (Action, bool) {
	if d == nil || r < d.low {
		return Action{}, false
	}
	i := int(r - d.low)
	if i >= len(d.actions) || !d.present[i] {
		return Action{}, false
	}
	return d.actions[i], true
}

type chain []Resolver

// Chain returns a Resolver that asks each resolver in turn; the first one
// holding an entry wins. Nil resolvers are ignored.
func Chain(resolvers ...Resolver) Resolver {
	c := make(chain, 0, len(resolvers))
	for _, r := range resolvers {
		if r != nil {
			c = append(c, r)
		}
	}
	return c
}

func (c chain) Lookup(r rune) (Action, bool) {
	for _, res := range c {
		if a, ok := res.Lookup(r); ok {
			return a, true
		}
	}
	return Action{}, false
}
