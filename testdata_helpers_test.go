package wasmsign

import "github.com/jedisct1/wasmsign/internal/wasmbin"

// buildTestModule returns the bytes of a minimal, otherwise-empty module
// carrying a single data segment at offset 1024 (the same offset as
// internal/wasmbin/module_test.go's buildMinimalModule, without its global
// and export).
func buildTestModule() []byte {
	m := wasmbin.NewModule()
	m.AddDataSegment(1024, []byte{0xde, 0xad, 0xbe, 0xef})
	return m.Encode()
}

func mustKeyPair(alg Algorithm) KeyPair {
	kp, err := alg.Keygen()
	if err != nil {
		panic(err)
	}
	return kp
}
