package querycache

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/nutsdb/nutsdb"

	"taskdeck/internal/logging"
)

const (
	bucketQueries = "queries"

	// scanLimit caps a prefix scan; a task client never holds this many queries.
	scanLimit = 1 << 16

	segmentSize = 8 << 20
)

// NutsStore keeps entries on disk in a nutsdb BTree bucket so cached queries
// survive between invocations. Entries expire after the configured TTL.
type NutsStore struct {
	db  *nutsdb.DB
	ttl uint32
}

// OpenNutsStore opens (or creates) a store in dir. ttl is rounded down to
// whole seconds; zero keeps entries forever.
func OpenNutsStore(dir string, ttl time.Duration) (*NutsStore, error) {
	opts := nutsdb.DefaultOptions
	opts.Dir = dir
	opts.SegmentSize = segmentSize
	db, err := nutsdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open nutsdb: %w", err)
	}

	if err := db.Update(func(tx *nutsdb.Tx) error {
		return tx.NewBucket(nutsdb.DataStructureBTree, bucketQueries)
	}); err != nil {
		if !errors.Is(err, nutsdb.ErrBucketAlreadyExist) {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &NutsStore{db: db, ttl: uint32(ttl / time.Second)}, nil
}

// Get returns the entry for key. Read errors count as a miss: the cache is
// only an optimisation and the query will be refetched.
func (s *NutsStore) Get(key string) (Entry, bool, error) {
	var data []byte
	err := s.db.View(func(tx *nutsdb.Tx) error {
		v, err := tx.Get(bucketQueries, []byte(key))
		if err != nil {
			return err
		}
		data = v
		return nil
	})
	if err != nil {
		return Entry{}, false, nil
	}

	e, err := decodeEntry(data)
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *NutsStore) Put(e Entry) error {
	data, err := encodeEntry(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(bucketQueries, []byte(e.Key), data, s.ttl)
	})
}

// Scan returns entries under prefix. nutsdb reports an empty scan as an
// error, so scan errors yield no entries.
func (s *NutsStore) Scan(prefix string) ([]Entry, error) {
	var values [][]byte
	err := s.db.View(func(tx *nutsdb.Tx) error {
		v, err := tx.PrefixScan(bucketQueries, []byte(prefix), 0, scanLimit)
		if err != nil {
			return err
		}
		values = v
		return nil
	})
	if err != nil {
		return nil, nil
	}

	out := make([]Entry, 0, len(values))
	for _, v := range values {
		e, err := decodeEntry(v)
		if err != nil {
			continue // skip malformed entries
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *NutsStore) Delete(key string) error {
	return s.db.Update(func(tx *nutsdb.Tx) error {
		_ = tx.Delete(bucketQueries, []byte(key))
		return nil
	})
}

func (s *NutsStore) Close() error {
	return s.db.Close()
}

// OpenStore opens the disk store in dir, falling back to memory when the
// directory is unusable or locked by another invocation.
func OpenStore(dir string, ttl time.Duration, logger log.Logger) Store {
	h := log.NewHelper(logging.OrDiscard(logger))
	if dir == "" {
		return NewMemoryStore()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		h.Debugw("msg", "cache dir unavailable, using memory", "dir", dir, "err", err)
		return NewMemoryStore()
	}
	store, err := OpenNutsStore(dir, ttl)
	if err != nil {
		h.Debugw("msg", "disk cache unavailable, using memory", "dir", dir, "err", err)
		return NewMemoryStore()
	}
	return store
}
