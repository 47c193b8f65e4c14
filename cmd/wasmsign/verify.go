package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jedisct1/wasmsign"
)

type verifyOptions struct {
	input            string
	pkPath           string
	ad               string
	symbolName       string
	useCustomSection bool
	sectionName      string
}

func (o *verifyOptions) InstallFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.input, "input", "", "path to the signed module")
	flags.StringVar(&o.pkPath, "pk-path", "", "path to the public key")
	flags.StringVar(&o.ad, "ad", "", "additional authenticated data")
	flags.StringVar(&o.symbolName, "symbol-name", wasmsign.DefaultSymbolName, "exported global name for the embedded signature")
	flags.BoolVar(&o.useCustomSection, "use-custom-section", false, "use the trailing Custom Section strategy")
	flags.StringVar(&o.sectionName, "custom-section-name", wasmsign.DefaultCustomSectionName, "Custom Section name")
}

func newVerifyCmd() *cobra.Command {
	opts := &verifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signed WebAssembly module",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts)
		},
	}
	opts.InstallFlags(cmd.Flags())
	return cmd
}

func runVerify(opts *verifyOptions) error {
	if opts.input == "" || opts.pkPath == "" {
		return usageErrorf("--input and --pk-path are required")
	}
	moduleBytes, err := readFile(opts.input)
	if err != nil {
		return err
	}
	pkBytes, err := readFile(opts.pkPath)
	if err != nil {
		return err
	}
	pk, err := wasmsign.ParsePublicKey(pkBytes)
	if err != nil {
		return err
	}

	if opts.useCustomSection {
		err = wasmsign.VerifyCustomSection(moduleBytes, pk, []byte(opts.ad), opts.sectionName)
	} else {
		err = wasmsign.Verify(moduleBytes, pk, []byte(opts.ad), opts.symbolName)
	}
	if err != nil {
		return err
	}
	logrus.WithField("input", opts.input).Info("signature valid")
	return nil
}
