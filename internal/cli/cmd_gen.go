package cli

import (
	"context"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/diffuzz/internal/build"
	"github.com/calvinalkan/diffuzz/internal/config"
)

// GenCmd returns the gen command.
func GenCmd(a *app) *Command {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	check := fs.Bool("check", false, "Fail if any rename file is stale instead of writing it")

	return &Command{
		Flags: fs,
		Usage: "gen [--check]",
		Short: "Regenerate symbol rename files",
		Long: `Write ` + build.GeneratedFileName + ` into every reference package.

The file holds one cgo -D directive per entry of the reference's rename
table, so the C sources are compiled with every colliding symbol renamed.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execGen(o, a, *check)
		},
	}
}

func execGen(o *IO, a *app, check bool) error {
	cfg, err := a.loadConfig(config.LoadInput{})
	if err != nil {
		return err
	}

	if check {
		if err := build.Check(cfg, cfg.EffectiveCwd); err != nil {
			return err
		}

		o.Println("up to date")

		return nil
	}

	results, err := build.Generate(cfg, cfg.EffectiveCwd)
	if err != nil {
		return err
	}

	for _, r := range results {
		a.log.Debug("rename file", zap.String("reference", r.Reference), zap.Bool("changed", r.Changed))

		state := "unchanged"
		if r.Changed {
			state = "wrote"
		}

		o.Printf("%-9s %s\n", state, r.Path)
	}

	return nil
}
