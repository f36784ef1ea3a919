package cli

import (
	"context"
	"slices"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/diffuzz/internal/config"
)

// TargetsCmd returns the targets command.
func TargetsCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("targets", flag.ContinueOnError),
		Usage: "targets",
		Short: "List fuzz targets",
		Long:  "List the targets compiled into diffuzz. Targets missing from the config are marked.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			var configured []string

			cfg, err := a.loadConfig(config.LoadInput{})
			if err == nil {
				configured = cfg.Targets
			}

			for _, name := range a.names() {
				if configured != nil && !slices.Contains(configured, name) {
					o.Println(name, "(not configured)")

					continue
				}

				o.Println(name)
			}

			return nil
		},
	}
}
