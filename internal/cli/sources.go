package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	ds "github.com/ipfs/go-datastore"
	"github.com/spf13/cobra"

	"github.com/benoit-pereira-da-silva/charmap/pkg/charmap"
	"github.com/benoit-pereira-da-silva/charmap/pkg/store"
	"github.com/benoit-pereira-da-silva/charmap/pkg/table"
)

// dbFlags locates the LevelDB table store.
type dbFlags struct {
	path        string
	compression string
}

func (f *dbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "db", "", "path of the LevelDB table store")
	cmd.Flags().StringVar(&f.compression, "compression", "", "LevelDB compression: none or snappy")
}

func (f *dbFlags) open() (ds.Batching, error) {
	if f.path == "" {
		return nil, errors.New("--db is required")
	}
	return store.OpenLevelDB(f.path, f.compression)
}

// sourceFlags selects the tables a command maps through.
type sourceFlags struct {
	db      dbFlags
	tables  []string
	presets []string
	names   []string
	def     string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	f.db.register(cmd)
	cmd.Flags().StringSliceVarP(&f.tables, "table", "t", nil, "YAML table file, repeatable")
	cmd.Flags().StringSliceVarP(&f.presets, "preset", "p", nil, "built-in table, repeatable (see charmap presets)")
	cmd.Flags().StringSliceVarP(&f.names, "name", "n", nil, "table stored in --db, repeatable")
	cmd.Flags().StringVar(&f.def, "default", "", "action for unmapped characters: pass, delete, str:<text> or char:<rune>")
}

// mapping is the resolved set of tables of a command.
//
// Presets and table files are merged in that order, later rules overriding
// earlier ones. Stored tables come after them: a rune found in a file or a
// preset never reaches the datastore. The default is --default, else the
// last default of the files, else the default of the first stored table,
// else pass.
type mapping struct {
	mapper   *charmap.Mapper
	resolver charmap.Resolver
	static   *charmap.Sorted
	stored   []*store.Resolver
	names    []string
	db       ds.Batching
}

func (f *sourceFlags) build(ctx context.Context, logger *slog.Logger) (*mapping, error) {
	if len(f.tables)+len(f.presets)+len(f.names) == 0 {
		return nil, ErrNothingToApply
	}

	var files []*table.File
	for _, name := range f.presets {
		p, err := table.Preset(name)
		if err != nil {
			return nil, err
		}
		files = append(files, p)
	}
	for _, path := range f.tables {
		t, err := table.Load(path)
		if err != nil {
			return nil, err
		}
		files = append(files, t)
	}
	merged := table.Merge("merged", files...)
	static, def, err := merged.Compile()
	if err != nil {
		return nil, err
	}

	m := &mapping{static: static, names: f.names}
	resolvers := []charmap.Resolver{static}
	if len(f.names) > 0 {
		if m.db, err = f.db.open(); err != nil {
			return nil, err
		}
		for i, name := range f.names {
			storedDef, err := store.LoadDefault(ctx, m.db, name)
			if err != nil {
				_ = m.Close()
				return nil, err
			}
			if i == 0 && merged.Default == "" {
				def = storedDef
			}
			res, err := store.NewResolver(ctx, m.db, name, logger.With("table", name))
			if err != nil {
				_ = m.Close()
				return nil, err
			}
			m.stored = append(m.stored, res)
			resolvers = append(resolvers, res)
		}
	}

	if f.def != "" {
		if def, err = charmap.ParseAction(f.def); err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("invalid --default: %w", err)
		}
	}
	m.resolver = charmap.Chain(resolvers...)
	m.mapper = charmap.NewMapper(m.resolver, def)
	logger.Debug("mapping ready",
		"presets", f.presets, "tables", f.tables, "stored", f.names,
		"rules", static.Len(), "default", def.String())
	return m, nil
}

// Err reports the first read failure of the stored tables.
func (m *mapping) Err() error {
	for _, r := range m.stored {
		if err := r.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (m *mapping) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// entries lists the effective action of every rune any table maps, ordered
// by rune.
func (m *mapping) entries(ctx context.Context) ([]charmap.Entry, error) {
	seen := map[rune]struct{}{}
	for e := range m.static.Entries() {
		seen[e.Rune] = struct{}{}
	}
	for _, name := range m.names {
		stored, err := store.Entries(ctx, m.db, name)
		if err != nil {
			return nil, err
		}
		for _, e := range stored {
			seen[e.Rune] = struct{}{}
		}
	}
	out := make([]charmap.Entry, 0, len(seen))
	for _, r := range slices.Sorted(maps.Keys(seen)) {
		if a, ok := m.resolver.Lookup(r); ok {
			out = append(out, charmap.Entry{Rune: r, Action: a})
		}
	}
	return out, m.Err()
}
