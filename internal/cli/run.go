package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/diffuzz/internal/build"
	"github.com/calvinalkan/diffuzz/internal/config"
	"github.com/calvinalkan/diffuzz/internal/harness"
	"github.com/calvinalkan/diffuzz/internal/logging"
	"github.com/calvinalkan/diffuzz/internal/targets"
)

// deps are the collaborators Run wires by default and tests replace.
type deps struct {
	runner   build.CommandRunner
	lookPath func(string) (string, error)
	lookup   func(name string) (harness.Target, error)
	names    func() []string
}

func defaultDeps() deps {
	return deps{
		runner:   build.OSRunner{},
		lookPath: exec.LookPath,
		lookup:   targets.Lookup,
		names:    targets.Names,
	}
}

// app is the state shared by all commands of one invocation.
type app struct {
	deps

	workDir    string
	configPath string
	log        *zap.Logger
}

// loadConfig loads the project config with the global flags applied.
func (a *app) loadConfig(in config.LoadInput) (config.Config, error) {
	in.WorkDirOverride = a.workDir
	in.ConfigPath = a.configPath

	return config.Load(in)
}

func (a *app) resolveToolchain(ctx context.Context, cfg config.Config) (build.Toolchain, error) {
	tc, err := build.ResolveToolchain(ctx, build.ToolchainInput{
		Compiler:      cfg.Compiler,
		RuntimePrefix: cfg.RuntimePrefix,
		Runner:        a.runner,
		LookPath:      a.lookPath,
	})
	if err != nil {
		return build.Toolchain{}, err
	}

	a.log.Debug("toolchain resolved",
		zap.String("compiler", tc.Compiler),
		zap.String("arch", tc.Arch),
		zap.String("runtime", tc.RuntimeLib),
	)

	return tc, nil
}

func (a *app) commands() []*Command {
	return []*Command{
		InitCmd(a),
		GenCmd(a),
		BuildCmd(a),
		ToolchainCmd(a),
		TargetsCmd(a),
		ReplayCmd(a),
		ReplCmd(a),
		PrintConfigCmd(a),
	}
}

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	return run(in, out, errOut, args, env, sigCh, defaultDeps())
}

func run(in io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal, d deps) int {
	globals := flag.NewFlagSet("diffuzz", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", env["DIFFUZZ_CONFIG"], "Use config `file` instead of "+config.FileName)
	verbose := globals.BoolP("verbose", "v", false, "Log debug output")
	logFormat := globals.String("log-format", logging.FormatConsole, "Log `format`: console or json")
	help := globals.BoolP("help", "h", false, "Show help")

	a := &app{deps: d}
	cmds := a.commands()

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globals.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(out, globals, cmds)

			return 0
		}

		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, cmds)

		return 1
	}

	rest := globals.Args()
	if *help || len(rest) == 0 {
		printUsage(out, globals, cmds)

		return 0
	}

	log, err := logging.New(errOut, *logFormat, *verbose)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = log.Sync() }()

	a.workDir = *workDir
	a.configPath = *configPath
	a.log = log

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	for _, cmd := range cmds {
		if cmd.Name() == rest[0] {
			return cmd.Run(ctx, NewIO(in, out, errOut), rest[1:])
		}
	}

	fprintln(errOut, "error: unknown command:", rest[0])
	printUsage(errOut, globals, cmds)

	return 1
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet, cmds []*Command) {
	fprintln(w, "diffuzz - differential fuzzing of C references against Go translations")
	fprintln(w)
	fprintln(w, "Usage: diffuzz [options] <command> [args]")
	fprintln(w)
	fprintln(w, "Options:")

	var buf strings.Builder

	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})

	_, _ = io.WriteString(w, buf.String())

	fprintln(w)
	fprintln(w, "Commands:")

	for _, c := range cmds {
		fprintln(w, c.HelpLine())
	}
}
