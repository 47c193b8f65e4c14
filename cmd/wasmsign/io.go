package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/jedisct1/wasmsign"
)

// readFile wraps os.ReadFile, translating failures into wasmsign's Io kind
// so exitCodeFor can map them the same way as library errors (spec.md §7:
// "Io — surfaces from file operations performed by the outer CLI").
func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, wasmsign.NewError(wasmsign.ErrIO, errors.Wrapf(err, "read %s", path).Error())
	}
	return b, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wasmsign.NewError(wasmsign.ErrIO, errors.Wrapf(err, "write %s", path).Error())
	}
	return nil
}
