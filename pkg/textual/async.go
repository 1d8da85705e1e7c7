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
	"runtime/debug"
)

// Async starts a single-worker, one-to-one streaming stage: every value read
// from in is passed to f and the result is sent on the returned channel.
//
// Streaming contract:
//
//   - Async never closes in; it closes the returned channel exactly once.
//   - The worker stops when ctx is canceled, when in is closed, or when f
//     panics.
//   - Every receive and every send also watches ctx.Done(), so a consumer
//     that stops early must cancel ctx to release upstream goroutines.
//   - The output channel is unbuffered: a slow consumer slows the pipeline
//     down instead of growing memory.
//
// A panic raised by f is recovered and stored in the PanicStore carried by
// ctx (one is attached when missing). It is not rethrown: the stream simply
// ends, and the supervisor is expected to check the store:
//
//	ctx, ps := WithPanicStore(base)
//	for v := range Async(ctx, in, f) {
//		_ = v
//	}
//	if err := ps.Err(); err != nil {
//		return err
//	}
func Async[T1 any, T2 any](ctx context.Context, in <-chan T1, f func(t T1) T2) <-chan T2 {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, ps := EnsurePanicStore(ctx)
	ctx, cancel := context.WithCancel(ctx)

	out := make(chan T2)
	go func() {
		defer close(out)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				ps.Store(r, debug.Stack())
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				res := f(v)
				select {
				case <-ctx.Done():
					return
				case out <- res:
				}
			}
		}
	}()
	return out
}
