// Package anchor implements the Anchor framework's instruction and account
// discriminators plus a small builder/decoder for Anchor-encoded instruction
// data payloads.
package anchor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Discriminator is the 8-byte prefix identifying an Anchor instruction or
// account: sha256("namespace:name")[0:8].
type Discriminator [8]byte

// ComputeDiscriminator derives the discriminator for a namespaced name
func ComputeDiscriminator(namespace, name string) Discriminator {
	hash := sha256.Sum256([]byte(namespace + ":" + name))

	var d Discriminator
	copy(d[:], hash[:8])
	return d
}

// InstructionDiscriminator derives the discriminator for an instruction,
// which Anchor places in the "global" namespace.
func InstructionDiscriminator(name string) Discriminator {
	return ComputeDiscriminator("global", name)
}

// AccountDiscriminator derives the discriminator for an account type
func AccountDiscriminator(name string) Discriminator {
	return ComputeDiscriminator("account", name)
}

// DiscriminatorFromBytes reads a discriminator from the front of data
func DiscriminatorFromBytes(data []byte) (Discriminator, error) {
	var d Discriminator
	if len(data) < len(d) {
		return d, fmt.Errorf("data too short for discriminator: need %d bytes, got %d",
			len(d), len(data))
	}
	copy(d[:], data[:len(d)])
	return d, nil
}

// DiscriminatorFromHex parses a 16-character hex discriminator
func DiscriminatorFromHex(s string) (Discriminator, error) {
	var d Discriminator
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("invalid discriminator hex: %w", err)
	}
	if len(decoded) != len(d) {
		return d, fmt.Errorf("invalid discriminator length: expected %d bytes, got %d",
			len(d), len(decoded))
	}
	copy(d[:], decoded)
	return d, nil
}

// String returns the hex representation of the discriminator
func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}

// Bytes returns the discriminator as a byte slice
func (d Discriminator) Bytes() []byte {
	return d[:]
}
