package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jedisct1/wasmsign"
)

// keygenOptions holds the keygen subcommand's flags, installed onto a
// *pflag.FlagSet the way moby-moby's cli/flags.CommonOptions does.
type keygenOptions struct {
	algorithm string
	pkPath    string
	skPath    string
}

func (o *keygenOptions) InstallFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.algorithm, "algorithm", "ed25519", "signature algorithm (ed25519, secp256k1)")
	flags.StringVar(&o.pkPath, "pk-path", "", "output path for the public key")
	flags.StringVar(&o.skPath, "sk-path", "", "output path for the secret key")
}

func newKeygenCmd() *cobra.Command {
	opts := &keygenOptions{}
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a fresh key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(opts)
		},
	}
	opts.InstallFlags(cmd.Flags())
	return cmd
}

func runKeygen(opts *keygenOptions) error {
	if opts.pkPath == "" || opts.skPath == "" {
		return usageErrorf("--pk-path and --sk-path are required")
	}
	alg, err := algorithmByName(opts.algorithm)
	if err != nil {
		return err
	}
	kp, err := wasmsign.Keygen(alg)
	if err != nil {
		return err
	}
	if err := writeFile(opts.pkPath, kp.PK.Bytes()); err != nil {
		return err
	}
	if err := writeFile(opts.skPath, kp.SK.Bytes()); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"pk-path": opts.pkPath, "sk-path": opts.skPath}).Info("key pair written")
	return nil
}
