package build_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/calvinalkan/diffuzz/internal/build"
)

func Test_AuditSteps_Compiles_Each_Source_Then_Lists_Symbols(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.References[0].Rename = map[string]string{"swap": "c_swap", "partition": "c_partition"}

	dir := filepath.Join(cfg.EffectiveCwd, "ref", "qsort")
	touch(t, filepath.Join(dir, "a.c"))
	touch(t, filepath.Join(dir, "b.c"))
	touch(t, filepath.Join(dir, "a.h"))

	steps, err := build.AuditSteps(cfg, "/usr/bin/clang", cfg.References[0])
	require.NoError(t, err)
	require.Len(t, steps, 3)

	objA := filepath.Join(cfg.OutDirAbs, build.AuditDir, "qsort", "a.o")
	objB := filepath.Join(cfg.OutDirAbs, build.AuditDir, "qsort", "b.o")

	require.Equal(t, []string{
		"/usr/bin/clang", "-c", "-O1", "-I", dir,
		"-Dpartition=c_partition", "-Dswap=c_swap",
		"-o", objA, filepath.Join(dir, "a.c"),
	}, steps[0].Argv)
	require.Equal(t, objB, steps[1].Argv[len(steps[1].Argv)-2])

	require.Equal(t, "audit-symbols", steps[2].Name)
	require.Equal(t, []string{build.NM, "-g", "--defined-only", "-P", objA, objB}, steps[2].Argv)
}

func Test_AuditSteps_Requires_Sources(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.EffectiveCwd, "ref", "qsort"), 0o755))

	_, err := build.AuditSteps(cfg, "clang", cfg.References[0])
	require.ErrorIs(t, err, build.ErrNoSources)
}

func Test_UnrenamedSymbols_Reports_Defined_Globals_Outside_Table(t *testing.T) {
	t.Parallel()

	out := `
a.o:
c_swap T 0000000000000000 0000000000000010
helper T 0000000000000010 0000000000000004

b.o:
URL_SCHEMES D 0000000000000000 0000000000000040
helper T 0000000000000000 0000000000000004
`

	got := build.UnrenamedSymbols(out, map[string]string{"swap": "c_swap", "URL_SCHEMES": "C_URL_SCHEMES"})
	require.Equal(t, []string{"URL_SCHEMES", "helper"}, got)

	require.Empty(t, build.UnrenamedSymbols("a.o:\nc_swap T 0 10\n", map[string]string{"swap": "c_swap"}))
}

func Test_Run_Fails_When_A_Reference_Leaks_A_Symbol(t *testing.T) {
	t.Parallel()

	cfg := generated(t)
	runner := &fakeRunner{output: map[string]string{
		"audit-symbols": "qsort.o:\nc_swap T 0 10\nquickSort T 10 40\n",
	}}

	_, err := build.Run(context.Background(), build.Input{
		Config:    cfg,
		Toolchain: testToolchain,
		Runner:    runner,
		Logger:    zaptest.NewLogger(t),
		Known:     []string{"qsort", "qsort-range"},
	})
	require.ErrorIs(t, err, build.ErrUnrenamedSymbol)
	require.ErrorContains(t, err, "quickSort")

	require.Equal(t, []string{"audit-compile", "audit-symbols"}, runner.names())

	_, statErr := os.Stat(filepath.Join(cfg.OutDirAbs, build.ManifestFileName))
	require.True(t, os.IsNotExist(statErr))
}

func Test_Run_Stops_When_Audit_Compile_Fails(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{fail: map[string]bool{"audit-compile": true}}

	_, err := build.Run(context.Background(), build.Input{
		Config:    generated(t),
		Toolchain: testToolchain,
		Runner:    runner,
		Logger:    zaptest.NewLogger(t),
		Known:     []string{"qsort", "qsort-range"},
	})
	require.ErrorIs(t, err, build.ErrStepFailed)
	require.Equal(t, []string{"audit-compile"}, runner.names())
}
