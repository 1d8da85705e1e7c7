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

// Package store persists mapping tables in a go-datastore.
//
// A table named n is laid out as one key per rune plus its default action:
//
//	/charmap/n/U+0041   -> "char:a"
//	/charmap/n/U+1F600  -> "delete"
//	/charmap/n/default  -> "pass"
//
// Values are the text form of charmap.Action. The default key marks the
// table as present, so an empty table still exists once saved.
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"

	"github.com/benoit-pereira-da-silva/charmap/pkg/charmap"
)

const defaultKey = "default"

// Root is the namespace holding every table.
var Root = ds.NewKey("/charmap")

var (
	ErrInvalidName  = errors.New("store: invalid table name")
	ErrUnknownTable = errors.New("store: unknown table")
	ErrCorrupted    = errors.New("store: corrupted entry")
)

// TableKey returns the namespace of the table called name.
func TableKey(name string) (ds.Key, error) {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return ds.Key{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return Root.ChildString(name), nil
}

// RuneKey returns the key of r inside the table namespace.
func RuneKey(table ds.Key, r rune) ds.Key {
	return table.ChildString(fmt.Sprintf("%U", r))
}

func parseRuneKey(name string) (rune, bool) {
	hex, ok := strings.CutPrefix(name, "U+")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > unicode.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, false
	}
	return rune(v), true
}

// Save replaces the table called name with def and entries. Duplicated runes
// keep their last action. Writes go through a batch when d supports it.
func Save(ctx context.Context, d ds.Datastore, name string, def charmap.Action, entries []charmap.Entry) error {
	table, err := TableKey(name)
	if err != nil {
		return err
	}
	stale, err := keys(ctx, d, table)
	if err != nil {
		return err
	}

	var w ds.Write = d
	var batch ds.Batch
	if b, ok := d.(ds.Batching); ok {
		if batch, err = b.Batch(ctx); err != nil {
			return fmt.Errorf("error opening batch for table %q: %w", name, err)
		}
		w = batch
	}

	for _, k := range stale {
		if err := w.Delete(ctx, k); err != nil {
			return fmt.Errorf("error deleting %s: %w", k, err)
		}
	}
	for _, e := range entries {
		v, err := e.Action.MarshalText()
		if err != nil {
			return fmt.Errorf("error encoding %U: %w", e.Rune, err)
		}
		if err := w.Put(ctx, RuneKey(table, e.Rune), v); err != nil {
			return fmt.Errorf("error writing %U: %w", e.Rune, err)
		}
	}
	v, err := def.MarshalText()
	if err != nil {
		return fmt.Errorf("error encoding default: %w", err)
	}
	if err := w.Put(ctx, table.ChildString(defaultKey), v); err != nil {
		return fmt.Errorf("error writing default: %w", err)
	}

	if batch != nil {
		if err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("error committing table %q: %w", name, err)
		}
	}
	return nil
}

// Drop removes the table called name. Dropping a missing table is not an
// error.
func Drop(ctx context.Context, d ds.Datastore, name string) error {
	table, err := TableKey(name)
	if err != nil {
		return err
	}
	stale, err := keys(ctx, d, table)
	if err != nil {
		return err
	}
	for _, k := range stale {
		if err := d.Delete(ctx, k); err != nil {
			return fmt.Errorf("error deleting %s: %w", k, err)
		}
	}
	return nil
}

// LoadDefault returns the default action of the table called name.
func LoadDefault(ctx context.Context, d ds.Read, name string) (charmap.Action, error) {
	table, err := TableKey(name)
	if err != nil {
		return charmap.Action{}, err
	}
	v, err := d.Get(ctx, table.ChildString(defaultKey))
	if errors.Is(err, ds.ErrNotFound) {
		return charmap.Action{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	if err != nil {
		return charmap.Action{}, fmt.Errorf("error reading default of %q: %w", name, err)
	}
	a, err := charmap.ParseAction(string(v))
	if err != nil {
		return charmap.Action{}, fmt.Errorf("%w: %s: %w", ErrCorrupted, table.ChildString(defaultKey), err)
	}
	return a, nil
}

// Entries reads every rune entry of the table called name, ordered by rune.
func Entries(ctx context.Context, d ds.Read, name string) ([]charmap.Entry, error) {
	table, err := TableKey(name)
	if err != nil {
		return nil, err
	}
	res, err := d.Query(ctx, query.Query{Prefix: table.String()})
	if err != nil {
		return nil, fmt.Errorf("error querying table %q: %w", name, err)
	}
	defer res.Close()

	var entries []charmap.Entry
	for r := range res.Next() {
		if r.Error != nil {
			return nil, fmt.Errorf("error reading table %q: %w", name, r.Error)
		}
		k := ds.RawKey(r.Key)
		if k.Name() == defaultKey {
			continue
		}
		c, ok := parseRuneKey(k.Name())
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key %s", ErrCorrupted, k)
		}
		a, err := charmap.ParseAction(string(r.Value))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupted, k, err)
		}
		entries = append(entries, charmap.Entry{Rune: c, Action: a})
	}
	slices.SortFunc(entries, func(a, b charmap.Entry) int { return cmp.Compare(a.Rune, b.Rune) })
	return entries, nil
}

// Tables lists the names of the tables held by d, sorted.
func Tables(ctx context.Context, d ds.Read) ([]string, error) {
	res, err := d.Query(ctx, query.Query{Prefix: Root.String(), KeysOnly: true})
	if err != nil {
		return nil, fmt.Errorf("error listing tables: %w", err)
	}
	defer res.Close()

	var names []string
	for r := range res.Next() {
		if r.Error != nil {
			return nil, fmt.Errorf("error listing tables: %w", r.Error)
		}
		k := ds.RawKey(r.Key)
		if k.Name() != defaultKey {
			continue
		}
		names = append(names, k.Parent().Name())
	}
	slices.Sort(names)
	return names, nil
}

func keys(ctx context.Context, d ds.Read, prefix ds.Key) ([]ds.Key, error) {
	res, err := d.Query(ctx, query.Query{Prefix: prefix.String(), KeysOnly: true})
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", prefix, err)
	}
	rest, err := res.Rest()
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", prefix, err)
	}
	out := make([]ds.Key, 0, len(rest))
	for _, e := range rest {
		out = append(out, ds.RawKey(e.Key))
	}
	return out, nil
}
