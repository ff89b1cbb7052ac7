// internal/ordering/collection.go
package ordering

import (
	"errors"
)

// Position assignments are always dense: after any operation the positions of
// a parent's children form exactly {0..n-1}. Gap-based or fractional ranks are
// deliberately not supported; a few extra row writes buy a trivially checkable
// invariant.

var (
	// ErrInvalidPermutation means the requested order is not a permutation of
	// the current id set (missing ids, unknown ids, or duplicates). The caller
	// gets an error instead of a silent truncation.
	ErrInvalidPermutation = errors.New("requested order is not a permutation of the current id set")
	// ErrAlreadyPresent means InsertAt was asked to insert an id the
	// collection already contains.
	ErrAlreadyPresent = errors.New("id is already present in the collection")
	// ErrAbsent means Remove was asked to remove an id the collection does
	// not contain.
	ErrAbsent = errors.New("id is not present in the collection")
)

// Reorder computes dense positions for an arbitrary permutation of current.
// requested must contain exactly the ids of current, each once. The returned
// map assigns every id its new position; callers typically diff it against
// current ranks to skip no-op writes.
func Reorder[ID comparable](current []ID, requested []ID) (map[ID]int, error) {
	if len(requested) != len(current) {
		return nil, ErrInvalidPermutation
	}
	present := make(map[ID]struct{}, len(current))
	for _, id := range current {
		present[id] = struct{}{}
	}
	assignment := make(map[ID]int, len(requested))
	for i, id := range requested {
		if _, ok := present[id]; !ok {
			return nil, ErrInvalidPermutation // unknown id
		}
		if _, dup := assignment[id]; dup {
			return nil, ErrInvalidPermutation // duplicate id
		}
		assignment[id] = i
	}
	return assignment, nil
}

// InsertAt inserts newID into current at index and returns dense positions for
// the resulting list. index is clamped into [0, len(current)]: out-of-range
// indices are a normal "prepend/append" signal, not an error. Items after the
// insertion point shift by one, so their positions appear in the assignment
// too.
func InsertAt[ID comparable](current []ID, newID ID, index int) (map[ID]int, error) {
	for _, id := range current {
		if id == newID {
			return nil, ErrAlreadyPresent
		}
	}
	index = Clamp(index, 0, len(current))

	assignment := make(map[ID]int, len(current)+1)
	pos := 0
	for i, id := range current {
		if i == index {
			assignment[newID] = pos
			pos++
		}
		assignment[id] = pos
		pos++
	}
	if index == len(current) {
		assignment[newID] = pos
	}
	return assignment, nil
}

// Remove drops id from current and returns the dense re-pack of the
// remainder. Only items after the removed one change position, but the full
// assignment is returned so callers can diff uniformly.
func Remove[ID comparable](current []ID, id ID) (map[ID]int, error) {
	assignment := make(map[ID]int, len(current))
	found := false
	pos := 0
	for _, cur := range current {
		if cur == id {
			found = true
			continue
		}
		assignment[cur] = pos
		pos++
	}
	if !found {
		return nil, ErrAbsent
	}
	return assignment, nil
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
