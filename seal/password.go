package seal

import (
	"errors"
	"strings"
)

const minSecretLength = 32

var (
	// ErrEmptyPassword is returned when no password material is configured.
	ErrEmptyPassword = errors.New("empty password material")

	// ErrKeyIDInvalid is returned when a key id is empty or contains the
	// token separator.
	ErrKeyIDInvalid = errors.New("invalid key id")

	// ErrPasswordTooShort is returned when a secret is shorter than 32
	// characters.
	ErrPasswordTooShort = errors.New("password must be at least 32 characters")
)

// Key is one password entry: a stable id and the secret it names.
type Key struct {
	ID     string
	Secret string
}

// Keys is an ordered password list. The first entry is the sealing key;
// every entry participates in unsealing.
type Keys []Key

// SingleSecret wraps a bare secret string as a one-entry key list under the
// implicit id "1".
func SingleSecret(secret string) Keys {
	return Keys{{ID: "1", Secret: secret}}
}

// SealKey returns the key used for sealing: the first entry of the list.
func SealKey(keys Keys) (Key, error) {
	if len(keys) == 0 {
		return Key{}, ErrEmptyPassword
	}
	return keys[0], nil
}

// UnsealKeys returns the id to secret mapping covering the whole list, so a
// token sealed under any historical id can still be verified.
func UnsealKeys(keys Keys) (map[string]string, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyPassword
	}

	m := make(map[string]string, len(keys))
	for _, k := range keys {
		m[k.ID] = k.Secret
	}
	return m, nil
}

// Validate checks that every entry has a usable id and secret.
func (keys Keys) Validate() error {
	if len(keys) == 0 {
		return ErrEmptyPassword
	}

	for _, k := range keys {
		if k.ID == "" || strings.Contains(k.ID, tokenSeparator) {
			return ErrKeyIDInvalid
		}
		if len(k.Secret) < minSecretLength {
			return ErrPasswordTooShort
		}
	}
	return nil
}
