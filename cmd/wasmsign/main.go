// Command wasmsign signs and verifies WebAssembly modules, per spec.md §6.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("wasmsign")
		os.Exit(exitCodeFor(err))
	}
}
