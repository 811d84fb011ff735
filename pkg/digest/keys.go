package digest

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// DefaultSeed is the seed the default seal key is derived from.
const DefaultSeed = "VERUM_OMNIS_SEAL_KEY_V1"

// KeySize is the length in bytes of derived seal keys.
const KeySize = sha512.Size

var (
	// ErrEmptySeed indicates a seed key provider was configured without a seed.
	ErrEmptySeed = errors.New("seal seed must not be empty")
	// ErrEmptySecret indicates an HKDF key provider was configured without a secret.
	ErrEmptySecret = errors.New("seal secret must not be empty")
	// ErrEmptyKey indicates a static key provider was configured with no key material.
	ErrEmptyKey = errors.New("seal key must not be empty")
)

// KeyProvider supplies the key material used to compute seals.
type KeyProvider interface {
	Key() ([]byte, error)
}

type seedKey struct {
	seed string
	once sync.Once
	key  []byte
}

// SeedKey returns a provider whose key is the SHA-512 digest of seed.
// The key is derived once on first use.
func SeedKey(seed string) KeyProvider {
	return &seedKey{seed: seed}
}

func (s *seedKey) Key() ([]byte, error) {
	if s.seed == "" {
		return nil, ErrEmptySeed
	}
	s.once.Do(func() {
		sum := sha512.Sum512([]byte(s.seed))
		s.key = sum[:]
	})
	return s.key, nil
}

type hkdfKey struct {
	secret []byte
	salt   []byte
	info   []byte
	once   sync.Once
	key    []byte
	err    error
}

// HKDFKey returns a provider that expands an externally supplied secret
// into a seal key with HKDF-SHA-512.
func HKDFKey(secret, salt, info []byte) KeyProvider {
	return &hkdfKey{secret: secret, salt: salt, info: info}
}

func (h *hkdfKey) Key() ([]byte, error) {
	if len(h.secret) == 0 {
		return nil, ErrEmptySecret
	}
	h.once.Do(func() {
		key := make([]byte, KeySize)
		if _, err := io.ReadFull(hkdf.New(sha512.New, h.secret, h.salt, h.info), key); err != nil {
			h.err = fmt.Errorf("expand seal key: %w", err)
			return
		}
		h.key = key
	})
	return h.key, h.err
}

type staticKey []byte

// StaticKey returns a provider that always yields key.
func StaticKey(key []byte) KeyProvider {
	return staticKey(key)
}

func (s staticKey) Key() ([]byte, error) {
	if len(s) == 0 {
		return nil, ErrEmptyKey
	}
	return []byte(s), nil
}
