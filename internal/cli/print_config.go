package cli

import (
	"context"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/diffuzz/internal/build"
	"github.com/calvinalkan/diffuzz/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and the file it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			cfg, err := a.loadConfig(config.LoadInput{})
			if err != nil {
				return err
			}

			execPrintConfig(o, cfg)

			return nil
		},
	}
}

func execPrintConfig(o *IO, cfg config.Config) {
	o.Println("effective_cwd=" + cfg.EffectiveCwd)
	o.Println("compiler=" + cfg.Compiler)
	o.Println("cflags=" + strings.Join(build.CFlags(cfg), " "))
	o.Println("runtime_prefix=" + cfg.RuntimePrefix)
	o.Println("out_dir=" + cfg.OutDirAbs)
	o.Println("entry=" + cfg.Entry)
	o.Println("targets=" + strings.Join(cfg.Targets, ","))

	for _, ref := range cfg.References {
		o.Println()
		o.Printf("# reference %s (%s)\n", ref.Name, ref.Dir)

		olds := make([]string, 0, len(ref.Rename))
		for old := range ref.Rename {
			olds = append(olds, old)
		}

		sort.Strings(olds)

		for _, old := range olds {
			o.Printf("%s=%s\n", old, ref.Rename[old])
		}
	}

	o.Println()
	o.Println("# sources")

	if cfg.Source == "" {
		o.Println("(defaults only)")
	} else {
		o.Println("project_config=" + cfg.Source)
	}
}
