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
	"fmt"
	"sync"
)

// PanicInfo describes a panic recovered inside a pipeline stage.
type PanicInfo struct {
	Value any
	Stack []byte
}

// Error makes a PanicInfo usable as an error at the pipeline boundary.
func (p PanicInfo) Error() string {
	return fmt.Sprintf("textual: stage panicked: %v", p.Value)
}

// PanicStore keeps the first panic recovered by any stage of a pipeline.
//
// Stages run in goroutines and talk through channels, so a panic has no
// natural return path. Stages recover it into the store carried by their
// context, and the supervisor checks the store once the output is drained.
//
// Store is write-once and both methods are safe for concurrent use. A nil
// *PanicStore is valid and records nothing.
type PanicStore struct {
	mu   sync.Mutex
	info PanicInfo
	set  bool
}

// Store records value and stack unless a panic was already recorded.
func (ps *PanicStore) Store(value any, stack []byte) {
	if ps == nil {
		return
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.set {
		return
	}
	ps.info = PanicInfo{Value: value, Stack: append([]byte(nil), stack...)}
	ps.set = true
}

// Load returns a copy of the recorded panic, if any.
func (ps *PanicStore) Load() (PanicInfo, bool) {
	if ps == nil {
		return PanicInfo{}, false
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if !ps.set {
		return PanicInfo{}, false
	}
	info := ps.info
	info.Stack = append([]byte(nil), info.Stack...)
	return info, true
}

// Err returns the recorded panic as an error, or nil.
func (ps *PanicStore) Err() error {
	if info, ok := ps.Load(); ok {
		return info
	}
	return nil
}

type panicStoreKey struct{}

// WithPanicStore returns a child of parent carrying a new PanicStore.
// A nil parent falls back to context.Background().
func WithPanicStore(parent context.Context) (context.Context, *PanicStore) {
	if parent == nil {
		parent = context.Background()
	}
	ps := &PanicStore{}
	return context.WithValue(parent, panicStoreKey{}, ps), ps
}

// PanicStoreFromContext returns the PanicStore carried by ctx, or nil.
func PanicStoreFromContext(ctx context.Context) *PanicStore {
	if ctx == nil {
		return nil
	}
	ps, _ := ctx.Value(panicStoreKey{}).(*PanicStore)
	return ps
}

// EnsurePanicStore returns ctx and its PanicStore, attaching a new store when
// ctx does not carry one yet.
func EnsurePanicStore(ctx context.Context) (context.Context, *PanicStore) {
	if ps := PanicStoreFromContext(ctx); ps != nil {
		return ctx, ps
	}
	return WithPanicStore(ctx)
}
