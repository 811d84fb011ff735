package digest_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JaimeStill/verum/pkg/digest"
)

func TestSum(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		data := []byte("evidence payload")
		if digest.Sum(data) != digest.Sum(data) {
			t.Error("Sum is not deterministic")
		}
	})

	t.Run("distinct inputs differ", func(t *testing.T) {
		if digest.Sum([]byte("a")) == digest.Sum([]byte("b")) {
			t.Error("distinct inputs produced the same digest")
		}
	})

	t.Run("known vector", func(t *testing.T) {
		want := "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce" +
			"47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"
		if got := digest.Sum(nil); got != want {
			t.Errorf("Sum(nil) = %s, want %s", got, want)
		}
	})

	t.Run("fixed length lowercase hex", func(t *testing.T) {
		d := digest.SumString("x")
		if len(d) != digest.Size {
			t.Errorf("len = %d, want %d", len(d), digest.Size)
		}
		if d != strings.ToLower(d) {
			t.Error("digest is not lowercase")
		}
		if !digest.Valid(d) {
			t.Error("Valid rejected a Sum digest")
		}
	})
}

func TestMAC(t *testing.T) {
	key := []byte("k1")
	data := []byte("payload")

	if digest.MAC(key, data) != digest.MAC(key, data) {
		t.Error("MAC is not deterministic")
	}
	if digest.MAC(key, data) == digest.MAC([]byte("k2"), data) {
		t.Error("MAC did not depend on key")
	}
	if digest.MAC(key, data) == digest.Sum(data) {
		t.Error("MAC equals unkeyed digest")
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"sum", digest.SumString("ok"), true},
		{"empty", "", false},
		{"short", "abc", false},
		{"uppercase", strings.ToUpper(digest.SumString("ok")), false},
		{"non hex", strings.Repeat("g", digest.Size), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := digest.Valid(tt.in); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	data := []byte("content")
	sum := digest.Sum(data)

	if !digest.Verify(data, sum) {
		t.Error("Verify rejected matching content")
	}
	if digest.Verify([]byte("tampered"), sum) {
		t.Error("Verify accepted tampered content")
	}
	if digest.Verify(data, "not-a-digest") {
		t.Error("Verify accepted malformed digest")
	}
}

func TestKeyProviders(t *testing.T) {
	t.Run("seed key is stable", func(t *testing.T) {
		a, err := digest.SeedKey(digest.DefaultSeed).Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		b, _ := digest.SeedKey(digest.DefaultSeed).Key()
		if !bytes.Equal(a, b) {
			t.Error("seed derivation is not deterministic")
		}
		if len(a) != digest.KeySize {
			t.Errorf("key size = %d, want %d", len(a), digest.KeySize)
		}
	})

	t.Run("hkdf key depends on secret", func(t *testing.T) {
		a, err := digest.HKDFKey([]byte("secret-a"), nil, []byte("seal")).Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		b, _ := digest.HKDFKey([]byte("secret-b"), nil, []byte("seal")).Key()
		if bytes.Equal(a, b) {
			t.Error("distinct secrets produced identical keys")
		}
	})

	t.Run("empty material rejected", func(t *testing.T) {
		if _, err := digest.SeedKey("").Key(); err == nil {
			t.Error("expected error for empty seed")
		}
		if _, err := digest.HKDFKey(nil, nil, nil).Key(); err == nil {
			t.Error("expected error for empty secret")
		}
		if _, err := digest.StaticKey(nil).Key(); err == nil {
			t.Error("expected error for empty static key")
		}
	})
}
