package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Toolchain is the resolved C toolchain a build links against.
type Toolchain struct {
	Compiler    string `json:"compiler"`
	ResourceDir string `json:"resource_dir"`
	Arch        string `json:"arch"`

	// RuntimeLib is the absolute path of the profiling runtime archive.
	RuntimeLib string `json:"runtime_lib"`
	// RuntimeDir and RuntimeName are its -L and -l arguments.
	RuntimeDir  string `json:"runtime_dir"`
	RuntimeName string `json:"runtime_name"`
}

// LinkFlags returns the linker arguments for the runtime.
func (t Toolchain) LinkFlags() []string {
	return []string{"-L" + t.RuntimeDir, "-l" + t.RuntimeName}
}

// ToolchainInput holds the inputs for ResolveToolchain.
type ToolchainInput struct {
	Compiler      string
	RuntimePrefix string
	Runner        CommandRunner

	// Arch overrides host detection when set.
	Arch string
	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// ResolveToolchain locates the compiler, asks it for its resource dir and
// finds the runtime library for the host architecture. It tries
// <res>/lib/linux/lib<prefix>-<arch>.a first, then the per-target layout
// <res>/lib/<arch>-unknown-linux-gnu/lib<prefix>.a.
func ResolveToolchain(ctx context.Context, in ToolchainInput) (Toolchain, error) {
	lookPath := in.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	compiler, err := lookPath(in.Compiler)
	if err != nil {
		return Toolchain{}, fmt.Errorf("%w: %s: %w", ErrCompilerNotFound, in.Compiler, err)
	}

	out, err := in.Runner.Run(ctx, Step{Name: "resource-dir", Argv: []string{compiler, "--print-resource-dir"}})
	if err != nil {
		return Toolchain{}, fmt.Errorf("%w: %w", ErrResourceDir, err)
	}

	resDir := strings.TrimSpace(out)
	if resDir == "" {
		return Toolchain{}, fmt.Errorf("%w: %s printed nothing", ErrResourceDir, compiler)
	}

	arch := in.Arch
	if arch == "" {
		arch, err = HostArch()
		if err != nil {
			return Toolchain{}, err
		}
	}

	tc := Toolchain{Compiler: compiler, ResourceDir: resDir, Arch: arch}

	candidates := []struct{ dir, name string }{
		{filepath.Join(resDir, "lib", "linux"), in.RuntimePrefix + "-" + arch},
		{filepath.Join(resDir, "lib", arch+"-unknown-linux-gnu"), in.RuntimePrefix},
	}

	tried := make([]string, 0, len(candidates))

	for _, c := range candidates {
		path := filepath.Join(c.dir, "lib"+c.name+".a")
		tried = append(tried, path)

		if st, statErr := os.Stat(path); statErr == nil && st.Mode().IsRegular() {
			tc.RuntimeLib = path
			tc.RuntimeDir = c.dir
			tc.RuntimeName = c.name

			return tc, nil
		}
	}

	return Toolchain{}, fmt.Errorf("%w: tried %s", ErrRuntimeNotFound, strings.Join(tried, ", "))
}
