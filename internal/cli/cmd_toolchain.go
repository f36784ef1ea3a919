package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/diffuzz/internal/config"
)

// ToolchainCmd returns the toolchain command.
func ToolchainCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("toolchain", flag.ContinueOnError),
		Usage: "toolchain",
		Short: "Show the resolved compiler and profiling runtime",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			cfg, err := a.loadConfig(config.LoadInput{})
			if err != nil {
				return err
			}

			tc, err := a.resolveToolchain(ctx, cfg)
			if err != nil {
				return err
			}

			o.Println("compiler=" + tc.Compiler)
			o.Println("resource_dir=" + tc.ResourceDir)
			o.Println("arch=" + tc.Arch)
			o.Println("runtime=" + tc.RuntimeLib)

			return nil
		},
	}
}
