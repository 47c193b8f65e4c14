package main

import (
	"fmt"

	"github.com/jedisct1/wasmsign"
)

func usageErrorf(format string, args ...any) error {
	return wasmsign.NewError(wasmsign.ErrUsage, fmt.Sprintf(format, args...))
}
