package machina

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// StateID is an opaque, comparable, orderable identifier for states, charts
// and instances. Valid ids are non-empty and contain only alphanumeric
// characters, '-', '_' and ':'.
type StateID string

const (
	idSeparator    = "::"
	invalidIDValue = "<invalid-state-id>"
)

// ParseID validates s and returns it as a StateID.
func ParseID(s string) (StateID, error) {
	if err := validateID(s); err != nil {
		return InvalidID(), err
	}
	return StateID(s), nil
}

// MustID is like ParseID but panics on an invalid id. Intended for ids known
// at compile time.
func MustID(s string) StateID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// RandomID returns a new unique id.
func RandomID() StateID {
	return StateID(uuid.NewString())
}

// RandomIDWithPrefix returns a new unique id of the form "prefix::<random>".
func RandomIDWithPrefix(prefix string) (StateID, error) {
	if err := validateID(prefix); err != nil {
		return InvalidID(), err
	}
	return StateID(prefix + idSeparator + uuid.NewString()), nil
}

// InvalidID returns the sentinel id used where no valid id applies, such as
// an unset initial pointer or machine-level action invocations.
func InvalidID() StateID {
	return StateID(invalidIDValue)
}

// IsValid reports whether the id is well-formed.
func (id StateID) IsValid() bool {
	return validateID(string(id)) == nil
}

// Append returns a new id of the form "id::suffix".
func (id StateID) Append(suffix string) (StateID, error) {
	if err := validateID(suffix); err != nil {
		return InvalidID(), err
	}
	return StateID(string(id) + idSeparator + suffix), nil
}

// AppendRandom returns a new id of the form "id::<random>".
func (id StateID) AppendRandom() StateID {
	return StateID(string(id) + idSeparator + uuid.NewString())
}

// Split breaks a compound id into its "::"-separated segments, dropping any
// segment that is not itself a valid id.
func (id StateID) Split() []StateID {
	parts := strings.Split(string(id), idSeparator)
	ids := make([]StateID, 0, len(parts))
	for _, part := range parts {
		if validateID(part) == nil {
			ids = append(ids, StateID(part))
		}
	}
	return ids
}

func (id StateID) String() string {
	return string(id)
}

func validateID(s string) error {
	if s == "" {
		return fmt.Errorf("state id may not be empty")
	}
	for _, c := range s {
		if !isIDChar(c) {
			return fmt.Errorf("state id %q contains invalid character %q", s, c)
		}
	}
	return nil
}

func isIDChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '_', c == ':':
		return true
	}
	return false
}
