package abi

import (
	"crypto/sha256"
	"unicode"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"

	"synnergy-network/synthesis/internal/types"
)

// Selector1 is dialect 1's 4-byte function selector (spec 4.6): the first
// 4 bytes of the Keccak-256 hash of the canonical signature.
func Selector1(name string, params []*types.Type) [4]byte {
	sig := types.CanonicalFunctionSignature(name, params)
	h := crypto.Keccak256([]byte(sig))
	var out [4]byte
	copy(out[:], h[:4])
	return out
}

// Selector2 is dialect 2's 4-byte signature hash: the first 4 bytes of
// BLAKE2b-256 of the canonical signature.
func Selector2(name string, params []*types.Type) [4]byte {
	sig := types.CanonicalFunctionSignature(name, params)
	h := blake2b.Sum256([]byte(sig))
	var out [4]byte
	copy(out[:], h[:4])
	return out
}

// Discriminator3 is dialect 3's 8-byte discriminator: the first 8 bytes
// of SHA-256 of "global:" + camelCase(name), matching the Anchor/Borsh
// convention the target VM's runtime expects.
func Discriminator3(name string) [8]byte {
	h := sha256.Sum256([]byte("global:" + camelCase(name)))
	var out [8]byte
	copy(out[:], h[:8])
	return out
}

// camelCase lowercases name's first rune; function and struct names are
// already camelCase by the language's own naming convention, so this only
// normalizes an initial-capitalized identifier.
func camelCase(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
