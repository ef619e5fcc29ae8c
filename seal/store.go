package seal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrValueNotSerializable is returned by Store.Set when a value cannot be
// represented as JSON.
var ErrValueNotSerializable = errors.New("value is not JSON-serializable")

// Store is the in-memory session bag bound to one request. It is not safe
// for concurrent use; each Store is owned by exactly one session handle.
type Store struct {
	sealer *Sealer
	bag    map[string]any
}

// NewStore builds a Sealer from the given keys and options and returns an
// empty Store backed by it.
func NewStore(keys Keys, opts Options) (*Store, error) {
	sealer, err := New(keys, opts)
	if err != nil {
		return nil, err
	}
	return sealer.NewStore(), nil
}

// NewStore returns a fresh empty Store sharing this Sealer's derived keys.
// Deriving keys is the expensive part; stores are cheap per-request values.
func (s *Sealer) NewStore() *Store {
	return &Store{
		sealer: s,
		bag:    map[string]any{},
	}
}

// Get returns a deep copy of the value stored at key. The second return is
// false when the key is unset.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.bag[key]
	if !ok {
		return nil, false
	}

	// Values in the bag already survived a JSON round trip, so cloning
	// them again cannot fail.
	c, err := cloneValue(v)
	if err != nil {
		return nil, false
	}
	return c, true
}

// Set deep-copies value into the bag at key, replacing any prior value.
func (s *Store) Set(key string, value any) error {
	c, err := cloneValue(value)
	if err != nil {
		return err
	}
	s.bag[key] = c
	return nil
}

// Unset removes key from the bag. Removing an absent key is a no-op.
func (s *Store) Unset(key string) {
	delete(s.bag, key)
}

// Clear empties the bag.
func (s *Store) Clear() {
	s.bag = map[string]any{}
}

// Len returns the number of keys in the bag.
func (s *Store) Len() int {
	return len(s.bag)
}

// Seal serializes the current bag into an opaque token.
func (s *Store) Seal() (string, error) {
	return s.sealer.Seal(s.bag)
}

// Unseal verifies and decrypts a token into the bag, returning true on
// success. On a recoverable failure (expired, tampered, unknown key id) it
// returns false and leaves the bag unchanged.
func (s *Store) Unseal(token string) (bool, error) {
	bag, ok, err := s.sealer.Unseal(token)
	if err != nil || !ok {
		return false, err
	}
	s.bag = bag
	return true, nil
}

// cloneValue performs a structural deep copy through the JSON codec, the
// same representation the seal protocol uses on the wire. This keeps the
// bag isolated from caller-held references in both directions.
func cloneValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValueNotSerializable, err)
	}

	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValueNotSerializable, err)
	}
	return out, nil
}
