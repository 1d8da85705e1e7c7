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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"time"
)

// IOReaderProcessor connects an io.Reader to a Processor by scanning the
// input into tokens.
//
// Tokenization is controlled by a bufio.SplitFunc (default: ScanLines). Each
// token becomes prototype.FromUTF8String(token).WithIndex(i), where prototype
// is the zero value of S and i the token sequence number.
//
// The scanner yields bytes as they are and assumes UTF-8. Decode other
// encodings first, with NewUTF8Reader.
//
// Usage:
//
//	p := NewIOReaderProcessor[String](CharMap[String](mapper), reader)
//	p.SetContext(ctx)      // optional, before Start
//	p.SetSplitFunc(...)    // optional, before Start
//	for item := range p.Start() {
//		os.Stdout.WriteString(item.Value)
//	}
//	if err := p.Err(); err != nil {
//		// read failure or stage panic
//	}
type IOReaderProcessor[S Carrier[S], P Processor[S]] struct {
	reader    io.Reader
	splitFunc bufio.SplitFunc
	bufSize   int
	processor P

	ctx        context.Context
	cancel     context.CancelFunc
	panicStore *PanicStore

	mu      sync.Mutex
	scanErr error
}

// NewIOReaderProcessor returns an IOReaderProcessor splitting reader with
// ScanLines.
func NewIOReaderProcessor[S Carrier[S], P Processor[S]](processor P, reader io.Reader) *IOReaderProcessor[S, P] {
	return &IOReaderProcessor[S, P]{
		splitFunc: ScanLines,
		reader:    reader,
		processor: processor,
	}
}

// SetContext sets the parent context of the processing loop. It must be
// called before Start.
func (p *IOReaderProcessor[S, P]) SetContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.ctx, p.cancel = ctx, nil
}

// SetSplitFunc customizes the tokenization. It must be called before Start.
func (p *IOReaderProcessor[S, P]) SetSplitFunc(splitFunc bufio.SplitFunc) {
	p.splitFunc = splitFunc
}

// SetMaxTokenSize raises the scanner's maximum token size above
// bufio.MaxScanTokenSize, for inputs with very long lines.
func (p *IOReaderProcessor[S, P]) SetMaxTokenSize(n int) {
	p.bufSize = n
}

func (p *IOReaderProcessor[S, P]) ensureContext() {
	if p.ctx == nil {
		p.ctx = context.Background()
	}
	p.ctx, p.panicStore = EnsurePanicStore(p.ctx)
	if p.cancel == nil {
		p.ctx, p.cancel = context.WithCancel(p.ctx)
	}
}

// PanicStore returns the store collecting panics of the pipeline stages.
// It is nil until Start is called.
func (p *IOReaderProcessor[S, P]) PanicStore() *PanicStore {
	return p.panicStore
}

// Start scans the reader in a goroutine, feeds the tokens to the processor
// and returns the processor's output channel.
//
// Scanning stops at EOF, on a read error (reported by Err) or when the
// context is done.
func (p *IOReaderProcessor[S, P]) Start() <-chan S {
	p.ensureContext()

	scanner := bufio.NewScanner(p.reader)
	if p.splitFunc != nil {
		scanner.Split(p.splitFunc)
	}
	if p.bufSize > 0 {
		scanner.Buffer(make([]byte, 0, min(p.bufSize, 64*1024)), p.bufSize)
	}

	in := make(chan S)
	out := ProcessorFuncFrom[S](p.processor).Apply(p.ctx, in)

	go func() {
		defer close(in)
		defer func() {
			if r := recover(); r != nil {
				p.panicStore.Store(r, debug.Stack())
				p.cancel()
			}
		}()

		prototype := *new(S)
		for i := 0; ; i++ {
			select {
			case <-p.ctx.Done():
				return
			default:
			}
			if !scanner.Scan() {
				p.setErr(scanner.Err())
				return
			}
			item := prototype.FromUTF8String(scanner.Text()).WithIndex(i)
			select {
			case <-p.ctx.Done():
				return
			case in <- item:
			}
		}
	}()
	return out
}

// StartWithTimeout is like Start but cancels the processing once timeout
// elapses. A timeout <= 0 means no timeout. When the deadline cuts the
// processing short, Err reports an error wrapping context.DeadlineExceeded.
func (p *IOReaderProcessor[S, P]) StartWithTimeout(timeout time.Duration) <-chan S {
	if timeout <= 0 {
		return p.Start()
	}
	parent := p.ctx
	if parent == nil {
		parent = context.Background()
	}
	p.ctx, p.cancel = context.WithTimeout(parent, timeout)
	out := p.Start()

	res := make(chan S)
	go func() {
		defer close(res)
		for item := range out {
			select {
			case <-p.ctx.Done():
			case res <- item:
			}
		}
		if errors.Is(p.ctx.Err(), context.DeadlineExceeded) {
			p.setErr(fmt.Errorf("processing timed out after %s: %w", timeout, p.ctx.Err()))
		}
	}()
	return res
}

// Stop cancels the processing context. It is a no-op before Start.
func (p *IOReaderProcessor[S, P]) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *IOReaderProcessor[S, P]) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scanErr == nil {
		p.scanErr = err
	}
}

// Err returns the read error or timeout that stopped the processing, or else
// the first panic recovered from a stage. It is meaningful once the output channel is closed.
func (p *IOReaderProcessor[S, P]) Err() error {
	p.mu.Lock()
	err := p.scanErr
	p.mu.Unlock()
	if err != nil {
		return err
	}
	return p.panicStore.Err()
}
