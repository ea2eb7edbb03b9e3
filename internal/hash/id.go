package hash

import "github.com/cespare/xxhash/v2"

// ID returns the namespace key of a signal name: its xxHash64.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Of returns the keys of several names in order.
func Of(names ...string) []uint64 {
	ids := make([]uint64, len(names))
	for i, name := range names {
		ids[i] = xxhash.Sum64String(name)
	}

	return ids
}
