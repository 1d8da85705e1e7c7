// Copyright 2026 Benoit Pereira da Silva
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
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

// Processor is a chainable stage of a textual pipeline.
//
// Implementations are expected to:
//
//   - Read zero or more values from the input channel.
//   - Produce zero or more values on the returned channel.
//   - Respect ctx.Done() and stop promptly when the context is canceled.
//   - Close the returned channel when done or when ctx is canceled.
//   - Never close the input channel; the upstream stage owns it.
//
// The returned channel must be non-nil.
type Processor[S Carrier[S]] interface {
	// Apply starts the stage. It should return quickly, typically after
	// starting a goroutine.
	Apply(ctx context.Context, in <-chan S) <-chan S
}

// ProcessorFunc adapts a plain function to a Processor:
//
//	upper := ProcessorFunc[String](func(ctx context.Context, in <-chan String) <-chan String {
//		return Async(ctx, in, func(s String) String {
//			s.Value = strings.ToUpper(s.Value)
//			return s
//		})
//	})
type ProcessorFunc[S Carrier[S]] func(ctx context.Context, in <-chan S) <-chan S

// Apply calls f(ctx, in).
//
// Apply enforces the non-nil output contract: if f panics, is nil, or returns
// a nil channel, the fault is recorded in the context's PanicStore and a
// closed channel is returned instead.
func (f ProcessorFunc[S]) Apply(ctx context.Context, in <-chan S) (out <-chan S) {
	ctx, ps := EnsurePanicStore(ctx)

	defer func() {
		if r := recover(); r != nil {
			ps.Store(r, debug.Stack())
			out = closedChan[S]()
		}
	}()

	out = f(ctx, in)
	if out == nil {
		ps.Store("textual: ProcessorFunc returned a nil channel", debug.Stack())
		out = closedChan[S]()
	}
	return out
}

// Chain is a Processor running its stages one after the other:
//
//	out := p3.Apply(ctx, p2.Apply(ctx, p1.Apply(ctx, in)))
//
// Nil stages are skipped. An empty Chain forwards its input unchanged.
type Chain[S Carrier[S]] []Processor[S]

// NewChain composes processors left to right.
func NewChain[S Carrier[S]](processors ...Processor[S]) Chain[S] {
	return Chain[S](processors)
}

// Apply implements Processor.
func (c Chain[S]) Apply(ctx context.Context, in <-chan S) <-chan S {
	ctx, _ = EnsurePanicStore(ctx)
	out := in
	for _, p := range c {
		if p == nil {
			continue
		}
		out = ProcessorFuncFrom(p).Apply(ctx, out)
	}
	if out == nil {
		out = closedChan[S]()
	}
	return out
}

// ProcessorFuncFrom adapts a Processor into a ProcessorFunc, so that it
// benefits from the ProcessorFunc.Apply safety net.
func ProcessorFuncFrom[S Carrier[S]](p Processor[S]) ProcessorFunc[S] {
	if f, ok := p.(ProcessorFunc[S]); ok {
		return f
	}
	return func(ctx context.Context, in <-chan S) <-chan S {
		return p.Apply(ctx, in)
	}
}

func closedChan[S any]() <-chan S {
	ch := make(chan S)
	close(ch)
	return ch
}
