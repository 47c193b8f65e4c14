/*
Package wasmsign signs and verifies WebAssembly modules.

A signature binds a WebAssembly binary module to a key pair through one of
two strategies: embedding the signature inside the module itself, as a data
segment reachable from an exported global, or appending it as a trailing
Custom Section. Both strategies support an optional piece of additional
authenticated data supplied by the caller.

Signing algorithms are resolved through a small, closed registry keyed by a
32-bit id. Two are provided: pre-hashed Ed25519 and secp256k1-ECDSA. Keys and
signatures are self-describing on the wire (a 4-byte little-endian algorithm
id followed by algorithm-specific bytes), so a verifier never needs to be
told which algorithm produced a given signature ahead of time.

The four entry points are Sign, SignCustomSection, Verify, and
VerifyCustomSection; Keygen produces a fresh KeyPair for a chosen algorithm.
The lower-level module parsing and re-encoding lives in the internal
wasmbin package and is not part of this package's public surface.
*/
package wasmsign
