package main

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jedisct1/wasmsign"
)

// newRootCmd builds the wasmsign root command, wiring keygen/sign/verify as
// subcommands (spec.md §6: "Modes (mutually exclusive, selected by flag)" —
// modelled here the cobra way, as mutually exclusive subcommands rather than
// a mode flag, since that is the idiom the rest of the flag surface follows).
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wasmsign",
		Short:         "Sign and verify WebAssembly modules",
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		lvl, _ := cmd.Flags().GetString("log-level")
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			return usageErrorf("invalid log level %q", lvl)
		}
		logrus.SetLevel(level)
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		return nil
	}

	root.AddCommand(newKeygenCmd())
	root.AddCommand(newSignCmd())
	root.AddCommand(newVerifyCmd())
	return root
}

// exitCodeFor maps a returned error to a process exit code (spec.md §6:
// "Exit code 0 on success, non-zero on any error").
func exitCodeFor(err error) int {
	var e wasmsign.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case wasmsign.ErrUsage:
			return 2
		case wasmsign.ErrParse:
			return 3
		case wasmsign.ErrSignature:
			return 4
		case wasmsign.ErrIO:
			return 5
		case wasmsign.ErrUnsupported:
			return 6
		}
	}
	return 1
}
