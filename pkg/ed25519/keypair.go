package ed25519

import (
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Keypair holds an Ed25519 public key and expanded private key. The zero
// value is not usable; construct one with NewKeypairFromSeed or its siblings
// and Clear it when the key material is no longer needed.
type Keypair struct {
	PublicKey  PublicKey
	PrivateKey PrivateKey

	initialized bool
}

// NewKeypairFromSeed derives a keypair from a 32-byte seed per RFC 8032: the
// seed is hashed with SHA-512, the low half is clamped into the secret scalar,
// and the public key is the packed scalar-basepoint product.
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d",
			ErrInvalidInput, SeedSize, len(seed))
	}

	h := sha512.Sum512(seed)
	s := edwards25519.NewScalar()
	if _, err := s.SetBytesWithClamping(h[:32]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	A := (&edwards25519.Point{}).ScalarBaseMult(s)

	kp := &Keypair{initialized: true}
	copy(kp.PublicKey[:], A.Bytes())
	copy(kp.PrivateKey[:SeedSize], seed)
	copy(kp.PrivateKey[SeedSize:], kp.PublicKey[:])

	Wipe(h[:])
	return kp, nil
}

// GenerateKeypair creates a keypair from a fresh random seed. The seed is
// wiped before returning; only the expanded private key retains it.
func GenerateKeypair() (*Keypair, error) {
	seed := make([]byte, SeedSize)
	if err := RandomBytes(seed); err != nil {
		return nil, err
	}
	kp, err := NewKeypairFromSeed(seed)
	Wipe(seed)
	return kp, err
}

// NewKeypairFromPrivateKey restores a keypair from a 64-byte expanded private
// key. The public key is taken from the trailing 32 bytes.
func NewKeypairFromPrivateKey(priv []byte) (*Keypair, error) {
	if len(priv) != PrivateKeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d",
			ErrInvalidInput, PrivateKeySize, len(priv))
	}

	kp := &Keypair{initialized: true}
	copy(kp.PrivateKey[:], priv)
	copy(kp.PublicKey[:], priv[SeedSize:])
	return kp, nil
}

// NewKeypairFromBase58 restores a keypair from a base58-encoded key. Both the
// 32-byte seed form and the 64-byte expanded form are accepted, matching what
// wallets export.
func NewKeypairFromBase58(s string) (*Keypair, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base58: %v", ErrInvalidInput, err)
	}
	defer Wipe(decoded)

	switch len(decoded) {
	case SeedSize:
		return NewKeypairFromSeed(decoded)
	case PrivateKeySize:
		return NewKeypairFromPrivateKey(decoded)
	default:
		return nil, fmt.Errorf("%w: key must be %d or %d bytes, got %d",
			ErrInvalidInput, SeedSize, PrivateKeySize, len(decoded))
	}
}

// Initialized reports whether the keypair holds live key material
func (kp *Keypair) Initialized() bool {
	return kp != nil && kp.initialized
}

// Sign signs message with the keypair's private key
func (kp *Keypair) Sign(message []byte) (Signature, error) {
	if !kp.Initialized() {
		return Signature{}, ErrNotInitialized
	}
	return Sign(message, kp.PrivateKey)
}

// Verify checks a signature over message against the keypair's public key
func (kp *Keypair) Verify(message []byte, sig Signature) error {
	if !kp.Initialized() {
		return ErrNotInitialized
	}
	return Verify(message, sig, kp.PublicKey)
}

// Address returns the keypair's public key in base58 form
func (kp *Keypair) Address() string {
	return kp.PublicKey.String()
}

// ToBase58 exports the full 64-byte private key in base58 form
func (kp *Keypair) ToBase58() (string, error) {
	if !kp.Initialized() {
		return "", ErrNotInitialized
	}
	return base58.Encode(kp.PrivateKey[:]), nil
}

// Clear zeroes the key material and invalidates the keypair
func (kp *Keypair) Clear() {
	if kp == nil {
		return
	}
	Wipe(kp.PrivateKey[:])
	Wipe(kp.PublicKey[:])
	kp.initialized = false
}
