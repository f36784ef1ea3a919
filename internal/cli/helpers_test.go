package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/diffuzz/internal/build"
	"github.com/calvinalkan/diffuzz/internal/harness"
	"github.com/calvinalkan/diffuzz/internal/oracle"
	"github.com/calvinalkan/diffuzz/internal/targets"
)

// fakeRunner answers --print-resource-dir and records every step.
type fakeRunner struct {
	resourceDir string
	steps       []build.Step
}

func (r *fakeRunner) Run(_ context.Context, step build.Step) (string, error) {
	r.steps = append(r.steps, step)

	if step.Name == "resource-dir" {
		return r.resourceDir + "\n", nil
	}

	return "", nil
}

// fakeTarget fails every input that starts with 'x'.
type fakeTarget struct {
	name  string
	calls *int
}

func (f fakeTarget) Name() string { return f.name }

func (f fakeTarget) Iterate(data []byte) harness.Outcome {
	*f.calls++

	if len(data) == 0 {
		return harness.Outcome{Target: f.name, Verdict: harness.Rejected}
	}

	if data[0] == 'x' {
		return harness.Outcome{
			Target:  f.name,
			Verdict: harness.Failed,
			Divergence: &oracle.Divergence{
				Target: f.name, Field: "values[0]", Ordinal: 2, Reference: 1, Translated: 2,
			},
		}
	}

	return harness.Outcome{Target: f.name, Verdict: harness.Passed}
}

// CLI runs commands against a temp directory with fake collaborators.
type CLI struct {
	t      *testing.T
	Dir    string
	Env    map[string]string
	Runner *fakeRunner
	Calls  int
}

func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{t: t, Dir: t.TempDir(), Env: map[string]string{}, Runner: &fakeRunner{}}
}

func (c *CLI) deps() deps {
	names := []string{"qsort", "qsort-range", "urlparser"}

	return deps{
		runner:   c.Runner,
		lookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
		lookup: func(name string) (harness.Target, error) {
			if _, err := targets.Lookup(name); err != nil {
				return nil, err
			}

			return fakeTarget{name: name, calls: &c.Calls}, nil
		},
		names: func() []string { return names },
	}
}

// RunWithInput executes the CLI and returns stdout, stderr and the exit code.
func (c *CLI) RunWithInput(stdin string, args ...string) (string, string, int) {
	var out, errOut bytes.Buffer

	full := append([]string{"diffuzz", "--cwd", c.Dir}, args...)
	code := run(strings.NewReader(stdin), &out, &errOut, full, c.Env, nil, c.deps())

	return out.String(), errOut.String(), code
}

func (c *CLI) Run(args ...string) (string, string, int) {
	return c.RunWithInput("", args...)
}

// MustRun fails the test on a non-zero exit and returns trimmed stdout.
func (c *CLI) MustRun(args ...string) string {
	c.t.Helper()

	out, errOut, code := c.Run(args...)
	if code != 0 {
		c.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, errOut)
	}

	return strings.TrimSpace(out)
}

// MustFail fails the test on a zero exit and returns trimmed stderr.
func (c *CLI) MustFail(args ...string) string {
	c.t.Helper()

	out, errOut, code := c.Run(args...)
	if code == 0 {
		c.t.Fatalf("command %v succeeded, want failure\nstdout: %s", args, out)
	}

	return strings.TrimSpace(errOut)
}

func (c *CLI) WriteFile(rel, content string) string {
	c.t.Helper()

	path := filepath.Join(c.Dir, rel)
	require.NoError(c.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// InitQSort scaffolds a config for a qsort reference and generates its
// rename file.
func (c *CLI) InitQSort() {
	c.t.Helper()

	c.MustRun("init", "qsort", "--symbols", "quickSort,partition,swap")
	c.WriteFile(filepath.Join("pkg", "reference", "qsort", "qsort.c"), "void swap(int *a, int *b) {}\n")
	c.MustRun("gen")
}
