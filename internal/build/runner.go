package build

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Step is one external command of a build.
type Step struct {
	Name string
	Argv []string
	Env  map[string]string
	Dir  string
}

func (s Step) String() string {
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+len(s.Argv))
	for _, k := range keys {
		parts = append(parts, k+"="+shellQuote(s.Env[k]))
	}

	for _, a := range s.Argv {
		parts = append(parts, shellQuote(a))
	}

	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`*?") {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// CommandRunner abstracts command execution.
type CommandRunner interface {
	Run(ctx context.Context, step Step) (string, error)
}

// OSRunner executes steps on the host.
type OSRunner struct{}

// Run executes the step with merged environment variables and combined
// output capture.
func (OSRunner) Run(ctx context.Context, step Step) (string, error) {
	if len(step.Argv) == 0 {
		return "", ErrEmptyArgv
	}

	// #nosec G204 -- argv comes from the project config.
	cmd := exec.CommandContext(ctx, step.Argv[0], step.Argv[1:]...)
	cmd.Dir = step.Dir

	if len(step.Env) != 0 {
		keys := make([]string, 0, len(step.Env))
		for k := range step.Env {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		merged := cmd.Environ()
		for _, k := range keys {
			merged = append(merged, fmt.Sprintf("%s=%s", k, step.Env[k]))
		}

		cmd.Env = merged
	}

	var out bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg != "" {
			return out.String(), fmt.Errorf("run %q failed: %w: %s", step.Argv, err, msg)
		}

		return out.String(), fmt.Errorf("run %q failed: %w", step.Argv, err)
	}

	return out.String(), nil
}
