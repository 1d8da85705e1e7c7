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

package textual

import (
	"context"
	"strings"

	"github.com/benoit-pereira-da-silva/charmap/pkg/charmap"
)

// CharMap returns a stage mapping the text of every token with m.
//
// Index and error of each token are preserved. A token whose runes are all
// deleted is still forwarded, with an empty text, so downstream stages keep
// seeing one output per input.
//
// m is shared read-only by the stage; every token gets its own Transform.
func CharMap[S Carrier[S]](m *charmap.Mapper) ProcessorFunc[S] {
	return func(ctx context.Context, in <-chan S) <-chan S {
		return Async(ctx, in, func(s S) S {
			return mapCarrier(m, s)
		})
	}
}

func mapCarrier[S Carrier[S]](m *charmap.Mapper, s S) S {
	src := s.UTF8String()
	t := m.String(src)

	var b strings.Builder
	b.Grow(len(src))
	for r, ok := t.Next(); ok; r, ok = t.Next() {
		b.WriteRune(r)
	}

	res := s.FromUTF8String(b.String()).WithIndex(s.GetIndex())
	if err := s.GetError(); err != nil {
		res = res.WithError(err)
	}
	return res
}
