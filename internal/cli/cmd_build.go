package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/diffuzz/internal/build"
	"github.com/calvinalkan/diffuzz/internal/config"
)

// BuildCmd returns the build command.
func BuildCmd(a *app) *Command {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	only := fs.StringSliceP("target", "t", nil, "Build only these `targets` (repeatable)")
	dryRun := fs.BoolP("dry-run", "n", false, "Print the steps without running them")
	cc := fs.String("cc", "", "Override the C `compiler`")
	out := fs.StringP("out", "o", "", "Override the output `dir`")
	sanitize := fs.StringSlice("sanitize", nil, "Add `sanitizers` to the C and link flags (e.g. address,undefined)")

	return &Command{
		Flags: fs,
		Usage: "build [flags]",
		Short: "Build libFuzzer binaries for the configured targets",
		Long: `Build one libFuzzer binary per target.

Each target is compiled as a c-archive with coverage instrumentation on both
the C reference and the Go code, then linked with -fsanitize=fuzzer against
the compiler's profiling runtime. Before that, every reference is compiled
once with only its rename table and checked with nm: a global symbol missing
from the table fails the build. The first failing step aborts the build.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execBuild(ctx, o, a, buildOptions{
				only:   *only,
				dryRun: *dryRun,
				load:   config.LoadInput{CompilerOverride: *cc, OutDirOverride: *out, Sanitizers: *sanitize},
			})
		},
	}
}

type buildOptions struct {
	only   []string
	dryRun bool
	load   config.LoadInput
}

func execBuild(ctx context.Context, o *IO, a *app, opts buildOptions) error {
	cfg, err := a.loadConfig(opts.load)
	if err != nil {
		return err
	}

	tc, err := a.resolveToolchain(ctx, cfg)
	if err != nil {
		return err
	}

	m, err := build.Run(ctx, build.Input{
		Config:    cfg,
		Toolchain: tc,
		Runner:    a.runner,
		Logger:    a.log,
		Known:     a.names(),
		Only:      opts.only,
		DryRun:    opts.dryRun,
	})
	if err != nil {
		return err
	}

	if opts.dryRun {
		for _, ref := range cfg.References {
			steps, err := build.AuditSteps(cfg, tc.Compiler, ref)
			if err != nil {
				return err
			}

			for _, step := range steps {
				o.Println(step.String())
			}
		}

		for _, art := range m.Artifacts {
			for _, step := range build.Plan(cfg, tc, art.Target) {
				o.Println(step.String())
			}
		}

		return nil
	}

	for _, art := range m.Artifacts {
		o.Println(art.Binary)
	}

	return nil
}
