// Package cart keeps the shopping cart as a persisted list of product ids and
// derives the aggregated cart view from it.
package cart

import (
	"context"
	"encoding/json"
)

// IDList is the persisted cart: one entry per unit held, duplicates allowed.
type IDList []string

// Store is a durable slot holding the cart's IDList.
type Store interface {
	// Read returns the persisted list. An unset or corrupt slot reads as an
	// empty list; Read never fails.
	Read(ctx context.Context) IDList

	// Write replaces the persisted list. Readers never observe a partial write.
	Write(ctx context.Context, ids IDList) error
}

// Locker is implemented by stores that other containers may write at the same
// time. Lock blocks until the store is held and returns the release func.
type Locker interface {
	Lock() func()
}

// Clone returns a copy of the list that never aliases the receiver.
func (l IDList) Clone() IDList {
	out := make(IDList, len(l))
	copy(out, l)
	return out
}

// Count returns the number of occurrences of id.
func (l IDList) Count(id string) int {
	n := 0
	for _, v := range l {
		if v == id {
			n++
		}
	}
	return n
}

// decodeIDList parses a JSON array of strings. Anything else is reported as
// not ok.
func decodeIDList(data []byte) (IDList, bool) {
	if len(data) == 0 {
		return IDList{}, true
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return IDList{}, false
	}
	if ids == nil {
		ids = []string{}
	}

	return IDList(ids), true
}

// encodeIDList renders the list as a JSON array; a nil list encodes as [].
func encodeIDList(ids IDList) ([]byte, error) {
	if ids == nil {
		ids = IDList{}
	}
	return json.Marshal([]string(ids))
}
