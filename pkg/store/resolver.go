package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	ds "github.com/ipfs/go-datastore"

	"github.com/benoit-pereira-da-silva/charmap/pkg/charmap"
)

// Resolver looks runes up directly in a datastore, one Get per Lookup.
//
// Lookup cannot return an error, so a failed read is treated as "no entry":
// the mapper falls back to its default action. The failure is logged and the
// first one is kept for Err.
type Resolver struct {
	ctx    context.Context
	ds     ds.Read
	table  ds.Key
	logger *slog.Logger

	mu  sync.Mutex
	err error
}

var _ charmap.Resolver = (*Resolver)(nil)

// NewResolver returns a resolver over the table called name. ctx bounds every
// datastore read. A nil logger discards the warnings.
func NewResolver(ctx context.Context, d ds.Read, name string, logger *slog.Logger) (*Resolver, error) {
	table, err := TableKey(name)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{ctx: ctx, ds: d, table: table, logger: logger}, nil
}

func (r *Resolver) Lookup(c rune) (charmap.Action, bool) {
	key := RuneKey(r.table, c)
	v, err := r.ds.Get(r.ctx, key)
	if errors.Is(err, ds.ErrNotFound) {
		return charmap.Action{}, false
	}
	if err != nil {
		r.fail(key, err)
		return charmap.Action{}, false
	}
	a, err := charmap.ParseAction(string(v))
	if err != nil {
		r.fail(key, fmt.Errorf("%w: %w", ErrCorrupted, err))
		return charmap.Action{}, false
	}
	return a, true
}

func (r *Resolver) fail(key ds.Key, err error) {
	r.logger.Warn("charmap lookup failed", "key", key.String(), "err", err)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = fmt.Errorf("error reading %s: %w", key, err)
	}
}

// Err returns the first read failure, if any.
func (r *Resolver) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Open builds a Mapper over the stored table called name. The returned
// Resolver reports read failures that happen while mapping.
func Open(ctx context.Context, d ds.Read, name string, logger *slog.Logger) (*charmap.Mapper, *Resolver, error) {
	def, err := LoadDefault(ctx, d, name)
	if err != nil {
		return nil, nil, err
	}
	res, err := NewResolver(ctx, d, name, logger)
	if err != nil {
		return nil, nil, err
	}
	return charmap.NewMapper(res, def), res, nil
}
