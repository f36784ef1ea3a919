// Package build compiles the harness into libFuzzer binaries.
//
// Every reference package is compiled by cgo with coverage instrumentation
// and its rename table applied; the Go side is instrumented with
// -d=libfuzzer. The result is linked by the C compiler against libFuzzer and
// the compiler's profiling runtime.
package build

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/calvinalkan/diffuzz/internal/config"
)

// ManifestFileName is written into the output dir after a successful build.
const ManifestFileName = "manifest.json"

// Artifact is the output of one target.
type Artifact struct {
	Target  string `json:"target"`
	Archive string `json:"archive"`
	Binary  string `json:"binary"`
}

// Manifest describes a completed build.
type Manifest struct {
	Toolchain  Toolchain  `json:"toolchain"`
	Sanitizers []string   `json:"sanitizers,omitempty"`
	CFlags     []string   `json:"cflags"`
	Artifacts  []Artifact `json:"artifacts"`
}

// CFlags returns the flags every reference C unit is compiled with.
func CFlags(cfg config.Config) []string {
	flags := []string{cfg.OptLevel}
	if cfg.DebugInfo() {
		flags = append(flags, "-g")
	}

	flags = append(flags, cfg.Coverage...)

	if len(cfg.Sanitizers) > 0 {
		flags = append(flags, "-fsanitize="+strings.Join(cfg.Sanitizers, ","))
	}

	return flags
}

// Plan returns the steps that build target: the c-archive, then the link.
func Plan(cfg config.Config, tc Toolchain, target string) []Step {
	archive := filepath.Join(cfg.OutDirAbs, target+".a")
	binary := filepath.Join(cfg.OutDirAbs, "fuzz-"+target)

	env := map[string]string{
		"CC":          tc.Compiler,
		"CGO_ENABLED": "1",
		"CGO_CFLAGS":  strings.Join(CFlags(cfg), " "),
		"CGO_LDFLAGS": strings.Join(tc.LinkFlags(), " "),
	}

	fuzzer := "-fsanitize=fuzzer"
	if len(cfg.Sanitizers) > 0 {
		fuzzer += "," + strings.Join(cfg.Sanitizers, ",")
	}

	link := []string{tc.Compiler, fuzzer}
	if cfg.DebugInfo() {
		link = append(link, "-g")
	}

	link = append(link, archive)
	link = append(link, tc.LinkFlags()...)
	link = append(link, "-lpthread", "-o", binary)

	return []Step{
		{
			Name: "archive",
			Argv: []string{
				"go", "build",
				"-buildmode=c-archive",
				"-tags=libfuzzer",
				"-gcflags=all=-d=libfuzzer",
				"-ldflags=-X main.targetName=" + target,
				"-o", archive,
				cfg.Entry,
			},
			Env: env,
			Dir: cfg.EffectiveCwd,
		},
		{
			Name: "link",
			Argv: link,
			Dir:  cfg.EffectiveCwd,
		},
	}
}

// Input holds the inputs for Run.
type Input struct {
	Config    config.Config
	Toolchain Toolchain
	Runner    CommandRunner
	Logger    *zap.Logger

	// Known lists the target names the harness binary provides.
	Known []string

	// Only restricts the build to these targets; empty builds all configured.
	Only []string

	// DryRun logs the steps without running them.
	DryRun bool
}

// Run audits the reference symbols, builds every selected target and writes
// the manifest. It stops at the first failing step.
func Run(ctx context.Context, in Input) (Manifest, error) {
	cfg := in.Config
	log := in.Logger

	selected, err := selectTargets(cfg.Targets, in.Only, in.Known)
	if err != nil {
		return Manifest{}, err
	}

	if err := Check(cfg, cfg.EffectiveCwd); err != nil {
		return Manifest{}, err
	}

	m := Manifest{
		Toolchain:  in.Toolchain,
		Sanitizers: cfg.Sanitizers,
		CFlags:     CFlags(cfg),
	}

	if !in.DryRun {
		if err := os.MkdirAll(cfg.OutDirAbs, 0o755); err != nil {
			return Manifest{}, fmt.Errorf("%w: mkdir: %w", ErrStepFailed, err)
		}

		lock, err := lockDir(cfg.OutDirAbs)
		if err != nil {
			return Manifest{}, err
		}

		defer func() { _ = lock.Close() }()
	}

	if in.DryRun {
		for _, ref := range cfg.References {
			steps, err := AuditSteps(cfg, in.Toolchain.Compiler, ref)
			if err != nil {
				return Manifest{}, err
			}

			for _, step := range steps {
				log.Info("build step", zap.String("reference", ref.Name), zap.String("step", step.Name), zap.Strings("argv", step.Argv))
			}
		}
	} else if err := Audit(ctx, cfg, in.Toolchain.Compiler, in.Runner, log); err != nil {
		return Manifest{}, err
	}

	for _, target := range selected {
		steps := Plan(cfg, in.Toolchain, target)

		for _, step := range steps {
			log.Info("build step",
				zap.String("target", target),
				zap.String("step", step.Name),
				zap.Strings("argv", step.Argv),
			)
			log.Debug("build command", zap.String("cmd", step.String()))

			if in.DryRun {
				continue
			}

			out, err := in.Runner.Run(ctx, step)
			if err != nil {
				log.Error("build step failed",
					zap.String("target", target),
					zap.String("step", step.Name),
					zap.Error(err),
				)

				return Manifest{}, fmt.Errorf("%w: %s/%s: %w", ErrStepFailed, target, step.Name, err)
			}

			if out = strings.TrimSpace(out); out != "" {
				log.Debug("build output", zap.String("step", step.Name), zap.String("output", out))
			}
		}

		m.Artifacts = append(m.Artifacts, Artifact{
			Target:  target,
			Archive: steps[0].Argv[len(steps[0].Argv)-2],
			Binary:  steps[1].Argv[len(steps[1].Argv)-1],
		})
	}

	if in.DryRun {
		return m, nil
	}

	if err := WriteManifest(filepath.Join(cfg.OutDirAbs, ManifestFileName), m); err != nil {
		return Manifest{}, err
	}

	log.Info("build complete", zap.Int("targets", len(m.Artifacts)), zap.String("out", cfg.OutDirAbs))

	return m, nil
}

// WriteManifest writes m as indented JSON, atomically.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

func selectTargets(configured, only, known []string) ([]string, error) {
	selected := configured
	if len(only) > 0 {
		selected = only
	}

	for _, name := range selected {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownTarget, name, strings.Join(known, ", "))
		}

		if len(only) > 0 && !slices.Contains(configured, name) {
			return nil, fmt.Errorf("%w: %q is not listed in targets", ErrUnknownTarget, name)
		}
	}

	return selected, nil
}
