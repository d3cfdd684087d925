package querycache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies a cached query: an operation path followed by its
// parameters, e.g. ["tasks", "detail", "42"]. Keys form a hierarchy; a key
// matches every key that starts with the same segments.
type Key []any

// Append returns a new key with segs added. k is never modified.
func (k Key) Append(segs ...any) Key {
	out := make(Key, 0, len(k)+len(segs))
	out = append(out, k...)
	return append(out, segs...)
}

// String returns the canonical encoding used as the store key.
// Object segments are encoded with sorted fields, so equal parameters give
// equal keys.
func (k Key) String() string {
	if k == nil {
		k = Key{}
	}
	b, err := json.Marshal([]any(k))
	if err != nil {
		// Segments are strings, numbers and plain structs; this only fires on
		// programmer error.
		panic(fmt.Sprintf("querycache: unencodable key %#v: %v", k, err))
	}
	return string(b)
}

// scanPrefix is the encoded prefix shared by every strict descendant of k.
func (k Key) scanPrefix() string {
	if len(k) == 0 {
		return "["
	}
	s := k.String()
	return s[:len(s)-1] + ","
}

// Matches reports whether the encoded key belongs to k's subtree.
func (k Key) Matches(encoded string) bool {
	return encoded == k.String() || strings.HasPrefix(encoded, k.scanPrefix())
}
