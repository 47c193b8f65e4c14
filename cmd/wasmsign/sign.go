package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jedisct1/wasmsign"
)

type signOptions struct {
	input            string
	output           string
	pkPath           string
	skPath           string
	ad               string
	symbolName       string
	useCustomSection bool
	sectionName      string
}

func (o *signOptions) InstallFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.input, "input", "", "path to the module to sign")
	flags.StringVar(&o.output, "output", "", "path to write the signed module")
	flags.StringVar(&o.pkPath, "pk-path", "", "path to the public key")
	flags.StringVar(&o.skPath, "sk-path", "", "path to the secret key")
	flags.StringVar(&o.ad, "ad", "", "additional authenticated data")
	flags.StringVar(&o.symbolName, "symbol-name", wasmsign.DefaultSymbolName, "exported global name for the embedded signature")
	flags.BoolVar(&o.useCustomSection, "use-custom-section", false, "use the trailing Custom Section strategy")
	flags.StringVar(&o.sectionName, "custom-section-name", wasmsign.DefaultCustomSectionName, "Custom Section name")
}

func newSignCmd() *cobra.Command {
	opts := &signOptions{}
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a WebAssembly module",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(opts)
		},
	}
	opts.InstallFlags(cmd.Flags())
	return cmd
}

func runSign(opts *signOptions) error {
	if opts.input == "" || opts.output == "" || opts.pkPath == "" || opts.skPath == "" {
		return usageErrorf("--input, --output, --pk-path, and --sk-path are required")
	}
	moduleBytes, err := readFile(opts.input)
	if err != nil {
		return err
	}
	pkBytes, err := readFile(opts.pkPath)
	if err != nil {
		return err
	}
	skBytes, err := readFile(opts.skPath)
	if err != nil {
		return err
	}
	pk, err := wasmsign.ParsePublicKey(pkBytes)
	if err != nil {
		return err
	}
	sk, err := wasmsign.ParseSecretKey(skBytes)
	if err != nil {
		return err
	}
	kp := wasmsign.NewKeyPair(pk, sk)

	var signed []byte
	if opts.useCustomSection {
		signed, err = wasmsign.SignCustomSection(moduleBytes, kp, []byte(opts.ad), opts.sectionName)
	} else {
		signed, err = wasmsign.Sign(moduleBytes, kp, []byte(opts.ad), opts.symbolName)
	}
	if err != nil {
		return err
	}
	if err := writeFile(opts.output, signed); err != nil {
		return err
	}
	logrus.WithField("output", opts.output).Info("module signed")
	return nil
}
