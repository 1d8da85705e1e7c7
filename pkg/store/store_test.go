package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoit-pereira-da-silva/charmap/pkg/charmap"
)

var hello = []charmap.Entry{
	{Rune: 'e', Action: charmap.SubStr("eeee")},
	{Rune: 'l', Action: charmap.Delete()},
	{Rune: 'o', Action: charmap.Pass()},
	{Rune: '😀', Action: charmap.SubChar(':')},
}

func newStore(t *testing.T) ds.Batching {
	t.Helper()
	d := dssync.MutexWrap(ds.NewMapDatastore())
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	d := newStore(t)

	require.NoError(t, Save(ctx, d, "hello", charmap.SubChar('-'), hello))
	require.NoError(t, Save(ctx, d, "empty", charmap.Delete(), nil))

	def, err := LoadDefault(ctx, d, "hello")
	require.NoError(t, err)
	assert.Equal(t, charmap.SubChar('-'), def)

	entries, err := Entries(ctx, d, "hello")
	require.NoError(t, err)
	assert.Equal(t, hello, entries)

	entries, err = Entries(ctx, d, "empty")
	require.NoError(t, err)
	assert.Empty(t, entries)

	names, err := Tables(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty", "hello"}, names)
}

func TestSave_ReplacesTable(t *testing.T) {
	ctx := context.Background()
	d := newStore(t)

	require.NoError(t, Save(ctx, d, "t", charmap.Pass(), hello))
	require.NoError(t, Save(ctx, d, "t", charmap.Pass(), []charmap.Entry{
		{Rune: 'x', Action: charmap.Delete()},
		{Rune: 'x', Action: charmap.SubChar('y')},
	}))

	entries, err := Entries(ctx, d, "t")
	require.NoError(t, err)
	assert.Equal(t, []charmap.Entry{{Rune: 'x', Action: charmap.SubChar('y')}}, entries)
}

func TestSave_DoesNotTouchOtherTables(t *testing.T) {
	ctx := context.Background()
	d := newStore(t)

	require.NoError(t, Save(ctx, d, "a", charmap.Pass(), hello))
	require.NoError(t, Save(ctx, d, "ab", charmap.Pass(), nil))
	require.NoError(t, Drop(ctx, d, "ab"))

	entries, err := Entries(ctx, d, "a")
	require.NoError(t, err)
	assert.Len(t, entries, len(hello))

	names, err := Tables(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}

func TestTableKey_RejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "a/b", `a\b`, ".", ".."} {
		_, err := TableKey(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
	k, err := TableKey("latin")
	require.NoError(t, err)
	assert.Equal(t, "/charmap/latin/U+00E9", RuneKey(k, 'é').String())
	assert.Equal(t, "/charmap/latin/U+1F600", RuneKey(k, '😀').String())
}

func TestOpen_MapsFromTheDatastore(t *testing.T) {
	ctx := context.Background()
	d := newStore(t)
	require.NoError(t, Save(ctx, d, "hello", charmap.SubChar('-'), hello))

	m, res, err := Open(ctx, d, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "-eeeeo--o--:", m.Map("Hello World😀"))
	assert.NoError(t, res.Err())
}

func TestOpen_UnknownTable(t *testing.T) {
	_, _, err := Open(context.Background(), newStore(t), "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownTable)
}

var errBoom = errors.New("disk on fire")

type failingGets struct {
	*ds.MapDatastore
}

func (failingGets) Get(context.Context, ds.Key) ([]byte, error) {
	return nil, errBoom
}

func TestResolver_DegradesReadFailures(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	res, err := NewResolver(context.Background(), failingGets{ds.NewMapDatastore()}, "hello", logger)
	require.NoError(t, err)

	m := charmap.NewMapper(res, charmap.SubChar('?'))
	assert.Equal(t, "??", m.Map("ab"))

	require.Error(t, res.Err())
	assert.ErrorIs(t, res.Err(), errBoom)
	assert.Contains(t, res.Err().Error(), "/charmap/hello/U+0061")
	assert.Contains(t, logs.String(), "charmap lookup failed")
	assert.Contains(t, logs.String(), "U+0062")
}

func TestResolver_CorruptedValue(t *testing.T) {
	ctx := context.Background()
	d := newStore(t)
	require.NoError(t, Save(ctx, d, "t", charmap.Pass(), nil))

	k, err := TableKey("t")
	require.NoError(t, err)
	require.NoError(t, d.Put(ctx, RuneKey(k, 'a'), []byte("explode")))

	m, res, err := Open(ctx, d, "t", nil)
	require.NoError(t, err)
	assert.Equal(t, "ab", m.Map("ab"))
	assert.ErrorIs(t, res.Err(), ErrCorrupted)

	_, err = Entries(ctx, d, "t")
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestEntries_RejectsBadRuneKeys(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"U+D800", "U+DFFF", "U+110000", "U+ZZ", "A"} {
		d := newStore(t)
		require.NoError(t, Save(ctx, d, "t", charmap.Pass(), nil))
		require.NoError(t, d.Put(ctx, ds.NewKey("/charmap/t/"+name), []byte("pass")))

		_, err := Entries(ctx, d, "t")
		assert.ErrorIs(t, err, ErrCorrupted, name)
	}
}

func TestOpenLevelDB_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tables")

	d, err := OpenLevelDB(path, "snappy")
	require.NoError(t, err)
	require.NoError(t, Save(ctx, d, "hello", charmap.Delete(), hello))
	require.NoError(t, d.Close())

	d, err = OpenLevelDB(path, "")
	require.NoError(t, err)
	defer d.Close()

	entries, err := Entries(ctx, d, "hello")
	require.NoError(t, err)
	assert.Equal(t, hello, entries)

	m, _, err := Open(ctx, d, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "eeeeo", m.Map("Hello"))
}

func TestParseCompression(t *testing.T) {
	for _, name := range []string{"", "none", "snappy"} {
		_, err := ParseCompression(name)
		assert.NoError(t, err, name)
	}
	_, err := OpenLevelDB(t.TempDir(), "zstd")
	assert.Error(t, err)
}
