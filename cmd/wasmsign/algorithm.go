package main

import "github.com/jedisct1/wasmsign"

// algorithmByName resolves the --algorithm flag to its registry Algorithm. This name
// is a CLI-only convenience; the wire format never stores algorithm names,
// only the 4-byte id (spec.md §3).
func algorithmByName(name string) (wasmsign.Algorithm, error) {
	var id uint32
	switch name {
	case "ed25519":
		id = wasmsign.AlgIDEd25519
	case "secp256k1":
		id = wasmsign.AlgIDSecp256k1ECDSA
	default:
		return nil, usageErrorf("unknown algorithm %q (want ed25519 or secp256k1)", name)
	}
	return wasmsign.AlgorithmFor(id)
}
