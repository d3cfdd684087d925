package querycache

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// State is the freshness of a cache entry.
type State string

const (
	StateFresh       State = "fresh"
	StateStale       State = "stale"
	StateInvalidated State = "invalidated"
)

// Entry is one cached query result. Data holds the JSON encoding of the
// result.
type Entry struct {
	Key         string        `cbor:"1,keyasint"`
	Data        []byte        `cbor:"2,keyasint"`
	UpdatedAt   time.Time     `cbor:"3,keyasint"`
	StaleTime   time.Duration `cbor:"4,keyasint"`
	Invalidated bool          `cbor:"5,keyasint"`
}

// State reports the entry's freshness at now.
func (e Entry) State(now time.Time) State {
	switch {
	case e.Invalidated:
		return StateInvalidated
	case now.Sub(e.UpdatedAt) < e.StaleTime:
		return StateFresh
	default:
		return StateStale
	}
}

var entryEncMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

func encodeEntry(e Entry) ([]byte, error) {
	data, err := entryEncMode.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cache entry %s: %w", e.Key, err)
	}
	return data, nil
}

func decodeEntry(data []byte) (Entry, error) {
	var e Entry
	if err := cbor.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return e, nil
}
