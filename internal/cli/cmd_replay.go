package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/diffuzz/internal/harness"
)

// ReplayCmd returns the replay command.
func ReplayCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("replay", flag.ContinueOnError),
		Usage: "replay <target> <file>...",
		Short: "Run saved inputs through a target",
		Long: `Run each file through one iteration of the target and print its verdict.

Use it on crash files persisted by the fuzzing engine. Failing inputs print
the divergence and the entry/exit checkpoints of both sides. Exits 1 if any
input failed.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execReplay(o, a, args)
		},
	}
}

func execReplay(o *IO, a *app, args []string) error {
	if len(args) == 0 {
		return ErrTargetRequired
	}

	if len(args) == 1 {
		return ErrInputRequired
	}

	target, err := a.lookup(args[0])
	if err != nil {
		return err
	}

	failed := 0

	for _, name := range args[1:] {
		path := name
		if a.workDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(a.workDir, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		out := target.Iterate(data)
		a.log.Debug("replayed",
			zap.String("target", target.Name()),
			zap.String("input", name),
			zap.Stringer("verdict", out.Verdict),
			zap.Int("acquired", out.Reclaim.Acquired),
			zap.Int("released", out.Reclaim.Released),
		)

		printOutcome(o, name, out)

		if out.Verdict == harness.Failed {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d inputs failed", ErrReplayFailed, failed, len(args)-1)
	}

	return nil
}
