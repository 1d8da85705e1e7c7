package store

import (
	"fmt"

	ds "github.com/ipfs/go-datastore"
	levelds "github.com/ipfs/go-ds-leveldb"
	measure "github.com/ipfs/go-ds-measure"
	"github.com/mitchellh/go-homedir"
	ldbopts "github.com/syndtr/goleveldb/leveldb/opt"
)

// MetricsPrefix names the datastore metrics of OpenLevelDB.
const MetricsPrefix = "charmap.store.datastore"

// ParseCompression maps "none", "snappy" or "" (the LevelDB default) to a
// LevelDB compression setting.
func ParseCompression(name string) (ldbopts.Compression, error) {
	switch name {
	case "none":
		return ldbopts.NoCompression, nil
	case "snappy":
		return ldbopts.SnappyCompression, nil
	case "":
		return ldbopts.DefaultCompression, nil
	default:
		return 0, fmt.Errorf("unrecognized value for compression: %s", name)
	}
}

// OpenLevelDB opens, creating it if needed, the LevelDB table store at path.
// A leading ~ is expanded. The datastore is measured under MetricsPrefix and
// must be closed by the caller.
func OpenLevelDB(path string, compression string) (ds.Batching, error) {
	c, err := ParseCompression(compression)
	if err != nil {
		return nil, err
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("error expanding store path %q: %w", path, err)
	}
	d, err := levelds.NewDatastore(expanded, &levelds.Options{Compression: c})
	if err != nil {
		return nil, fmt.Errorf("error opening store %q: %w", path, err)
	}
	return measure.New(MetricsPrefix, d), nil
}
