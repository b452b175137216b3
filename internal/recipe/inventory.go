package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

// Inventory is a multiset of concrete item identifiers: id → quantity held.
type Inventory map[string]int

// NewInventory builds an Inventory from a list where repeated ids add up.
func NewInventory(items ...string) Inventory {
	inv := make(Inventory, len(items))
	for _, id := range items {
		inv.Add(id, 1)
	}
	return inv
}

// Add records n more of id. Non-positive n and blank ids are ignored.
func (inv Inventory) Add(id string, n int) {
	id = CanonicalID(id)
	if id == "" || n <= 0 {
		return
	}
	inv[id] += n
}

// Size returns the total number of items held.
func (inv Inventory) Size() int {
	total := 0
	for _, n := range inv {
		total += n
	}
	return total
}

// Equal reports whether inv and counts describe the same multiset.
func (inv Inventory) Equal(counts map[string]int) bool {
	if len(inv) != len(counts) {
		return false
	}
	for id, n := range inv {
		if counts[id] != n {
			return false
		}
	}
	return true
}

// ParseStack parses an inventory entry of the form "id" or "id=count",
// qualifying the id with namespace when it has none.
func ParseStack(s, namespace string) (string, int, error) {
	id, countStr, hasCount := strings.Cut(s, "=")
	id = Qualify(id, namespace)
	if id == "" {
		return "", 0, fmt.Errorf("parse stack %q: empty item id", s)
	}
	if IsTag(id) {
		return "", 0, fmt.Errorf("parse stack %q: inventory holds items, not tags", s)
	}
	if !hasCount {
		return id, 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil {
		return "", 0, fmt.Errorf("parse stack %q: %w", s, err)
	}
	if n <= 0 {
		return "", 0, fmt.Errorf("parse stack %q: count must be positive", s)
	}
	return id, n, nil
}
