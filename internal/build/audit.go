package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/calvinalkan/diffuzz/internal/config"
)

// NM lists the symbols of the audit objects.
const NM = "nm"

// AuditDir is the subdirectory of the output dir holding audit objects.
const AuditDir = "audit"

// AuditSteps returns the steps that check ref's symbols: one compile per C
// source with only the rename table applied, then one nm over the objects.
// The nm step is always last.
func AuditSteps(cfg config.Config, compiler string, ref config.Reference) ([]Step, error) {
	dir := filepath.Join(cfg.EffectiveCwd, ref.Dir)

	sources, err := filepath.Glob(filepath.Join(dir, "*.c"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoSources, ref.Name, err)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNoSources, ref.Name, dir)
	}

	olds := make([]string, 0, len(ref.Rename))
	for old := range ref.Rename {
		olds = append(olds, old)
	}

	slices.Sort(olds)

	defines := make([]string, 0, len(olds))
	for _, old := range olds {
		defines = append(defines, "-D"+old+"="+ref.Rename[old])
	}

	objDir := filepath.Join(cfg.OutDirAbs, AuditDir, ref.Name)
	nm := []string{NM, "-g", "--defined-only", "-P"}

	steps := make([]Step, 0, len(sources)+1)

	for _, src := range sources {
		obj := filepath.Join(objDir, strings.TrimSuffix(filepath.Base(src), ".c")+".o")

		argv := []string{compiler, "-c"}
		if cfg.OptLevel != "" {
			argv = append(argv, cfg.OptLevel)
		}

		argv = append(argv, "-I", dir)
		argv = append(argv, defines...)
		argv = append(argv, "-o", obj, src)

		steps = append(steps, Step{Name: "audit-compile", Argv: argv, Dir: cfg.EffectiveCwd})
		nm = append(nm, obj)
	}

	steps = append(steps, Step{Name: "audit-symbols", Argv: nm, Dir: cfg.EffectiveCwd})

	return steps, nil
}

// UnrenamedSymbols parses POSIX nm output and returns the defined globals
// that are not a new name of rename, sorted and without duplicates.
func UnrenamedSymbols(nmOutput string, rename map[string]string) []string {
	renamed := make(map[string]bool, len(rename))
	for _, name := range rename {
		renamed[name] = true
	}

	var missing []string

	for line := range strings.Lines(nmOutput) {
		fields := strings.Fields(line)

		// Blank lines and the per-object "file.o:" headers.
		if len(fields) < 2 {
			continue
		}

		if name := fields[0]; !renamed[name] {
			missing = append(missing, name)
		}
	}

	slices.Sort(missing)

	return slices.Compact(missing)
}

// Audit checks that every global symbol each reference defines is renamed.
// It fails on the first reference that leaks an original name.
func Audit(ctx context.Context, cfg config.Config, compiler string, runner CommandRunner, log *zap.Logger) error {
	for _, ref := range cfg.References {
		steps, err := AuditSteps(cfg, compiler, ref)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Join(cfg.OutDirAbs, AuditDir, ref.Name), 0o755); err != nil {
			return fmt.Errorf("%w: mkdir: %w", ErrStepFailed, err)
		}

		var out string

		for _, step := range steps {
			log.Debug("build command", zap.String("reference", ref.Name), zap.String("cmd", step.String()))

			out, err = runner.Run(ctx, step)
			if err != nil {
				return fmt.Errorf("%w: %s/%s: %w", ErrStepFailed, ref.Name, step.Name, err)
			}
		}

		if missing := UnrenamedSymbols(out, ref.Rename); len(missing) > 0 {
			log.Error("symbol audit failed", zap.String("reference", ref.Name), zap.Strings("symbols", missing))

			return fmt.Errorf("%w: %s: %s", ErrUnrenamedSymbol, ref.Name, strings.Join(missing, ", "))
		}

		log.Info("symbol audit", zap.String("reference", ref.Name), zap.Int("renamed", len(ref.Rename)))
	}

	return nil
}
