// Package ed25519 implements the Ed25519 signature scheme (RFC 8032) as used
// by Solana: keypair derivation from a 32-byte seed, deterministic signing,
// verification, and the curve-membership test needed for program derived
// addresses.
//
// The 64-byte private key follows the libsodium/Solana convention: the first
// 32 bytes are the seed, the trailing 32 bytes are the public key. All
// operations are pure functions over caller-owned buffers; there is no
// package-level state.
package ed25519

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"errors"
	"fmt"
	"runtime"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

const (
	// SeedSize is the size of an Ed25519 seed in bytes
	SeedSize = 32

	// PublicKeySize is the size of an Ed25519 public key in bytes
	PublicKeySize = 32

	// PrivateKeySize is the size of an expanded private key (seed + public key)
	PrivateKeySize = 64

	// SignatureSize is the size of an Ed25519 signature in bytes
	SignatureSize = 64
)

var (
	// ErrInvalidInput indicates a malformed or wrong-size argument
	ErrInvalidInput = errors.New("ed25519: invalid input")

	// ErrInvalidSignature indicates a failed verification predicate. This is
	// an expected outcome for bad signatures, not an internal defect.
	ErrInvalidSignature = errors.New("ed25519: signature verification failed")

	// ErrCryptoFailure indicates an internal primitive failure; it should not
	// occur on well-formed input
	ErrCryptoFailure = errors.New("ed25519: crypto failure")

	// ErrNotInitialized indicates use of a cleared or zero-value keypair
	ErrNotInitialized = errors.New("ed25519: keypair not initialized")
)

// PublicKey is a packed Ed25519 point (y-coordinate plus x sign bit).
type PublicKey [PublicKeySize]byte

// PrivateKey is an expanded private key: seed followed by public key.
type PrivateKey [PrivateKeySize]byte

// Signature is a 64-byte Ed25519 signature (R || S).
type Signature [SignatureSize]byte

// Bytes returns the public key as a byte slice
func (p PublicKey) Bytes() []byte {
	return p[:]
}

// String returns the base58 representation of the public key
func (p PublicKey) String() string {
	return base58.Encode(p[:])
}

// Bytes returns the signature as a byte slice
func (s Signature) Bytes() []byte {
	return s[:]
}

// String returns the base58 representation of the signature
func (s Signature) String() string {
	return base58.Encode(s[:])
}

// PublicKeyFromBytes creates a PublicKey from a 32-byte slice
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pub PublicKey
	if len(b) != PublicKeySize {
		return pub, fmt.Errorf("%w: public key must be %d bytes, got %d",
			ErrInvalidInput, PublicKeySize, len(b))
	}
	copy(pub[:], b)
	return pub, nil
}

// PublicKeyFromBase58 creates a PublicKey from its base58 representation
func PublicKeyFromBase58(s string) (PublicKey, error) {
	var pub PublicKey
	decoded, err := base58.Decode(s)
	if err != nil {
		return pub, fmt.Errorf("%w: invalid base58: %v", ErrInvalidInput, err)
	}
	return PublicKeyFromBytes(decoded)
}

// Sign produces a deterministic RFC 8032 signature over message using the
// expanded private key. A nil message is valid and signs the empty message.
func Sign(message []byte, priv PrivateKey) (Signature, error) {
	var sig Signature

	// Expand the seed: low half becomes the clamped scalar, high half is the
	// nonce prefix.
	h := sha512.Sum512(priv[:SeedSize])
	s := edwards25519.NewScalar()
	if _, err := s.SetBytesWithClamping(h[:32]); err != nil {
		return sig, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}

	// r = SHA512(prefix || message) mod L
	nh := sha512.New()
	nh.Write(h[32:])
	nh.Write(message)
	rDigest := nh.Sum(nil)
	r := edwards25519.NewScalar()
	if _, err := r.SetUniformBytes(rDigest); err != nil {
		return sig, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}

	// R = r * B
	R := (&edwards25519.Point{}).ScalarBaseMult(r)
	RBytes := R.Bytes()

	// k = SHA512(R || A || message) mod L
	kh := sha512.New()
	kh.Write(RBytes)
	kh.Write(priv[SeedSize:])
	kh.Write(message)
	kDigest := kh.Sum(nil)
	k := edwards25519.NewScalar()
	if _, err := k.SetUniformBytes(kDigest); err != nil {
		return sig, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}

	// S = (r + k*s) mod L
	S := edwards25519.NewScalar().MultiplyAdd(k, s, r)

	copy(sig[:32], RBytes)
	copy(sig[32:], S.Bytes())

	Wipe(h[:])
	return sig, nil
}

// Verify checks an Ed25519 signature over message. It returns nil when the
// signature is valid and ErrInvalidSignature otherwise. A nil message is
// valid and verifies against the empty message.
//
// The check is S*B == R + k*A, evaluated as R' = S*B - k*A with the encoded
// point compared against the signature's R, avoiding a field inversion.
func Verify(message []byte, sig Signature, pub PublicKey) error {
	A, err := (&edwards25519.Point{}).SetBytes(pub[:])
	if err != nil {
		return fmt.Errorf("%w: public key not on curve", ErrInvalidSignature)
	}

	// S must be a canonical scalar below the group order
	S := edwards25519.NewScalar()
	if _, err := S.SetCanonicalBytes(sig[32:]); err != nil {
		return fmt.Errorf("%w: non-canonical S", ErrInvalidSignature)
	}

	// k = SHA512(R || A || message) mod L
	kh := sha512.New()
	kh.Write(sig[:32])
	kh.Write(pub[:])
	kh.Write(message)
	kDigest := kh.Sum(nil)
	k := edwards25519.NewScalar()
	if _, err := k.SetUniformBytes(kDigest); err != nil {
		return fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}

	minusA := (&edwards25519.Point{}).Negate(A)
	RPrime := (&edwards25519.Point{}).VarTimeDoubleScalarBaseMult(k, minusA, S)

	if subtle.ConstantTimeCompare(RPrime.Bytes(), sig[:32]) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

// IsOnCurve reports whether b decodes as a valid Ed25519 curve point. Program
// derived addresses are exactly the 32-byte values for which this is false.
func IsOnCurve(b []byte) bool {
	if len(b) != PublicKeySize {
		return false
	}
	_, err := (&edwards25519.Point{}).SetBytes(b)
	return err == nil
}

// Wipe overwrites b with zeros. The runtime.KeepAlive prevents the write from
// being elided when b is about to go out of scope.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// RandomBytes fills b from the platform's cryptographically secure random
// source.
func RandomBytes(b []byte) error {
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	return nil
}
