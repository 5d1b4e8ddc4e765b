// Package identity defines the local identity roster entities.
package identity

import "errors"

// ErrNotFound indicates a lookup for an id absent from the roster.
var ErrNotFound = errors.New("identity not found")

// Identity is one locally registered user. Identities are never mutated
// after creation apart from display renames.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
}

// Roster is an insertion-ordered set of identities unique by id.
type Roster []Identity

// Contains reports whether an id is already registered.
func (r Roster) Contains(id string) bool {
	for _, ident := range r {
		if ident.ID == id {
			return true
		}
	}
	return false
}

// Find returns the identity with the given id.
func (r Roster) Find(id string) (Identity, bool) {
	for _, ident := range r {
		if ident.ID == id {
			return ident, true
		}
	}
	return Identity{}, false
}
