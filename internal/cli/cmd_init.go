package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/diffuzz/internal/config"
)

// InitCmd returns the init command.
func InitCmd(a *app) *Command {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	symbols := fs.StringSlice("symbols", nil, "C `symbols` to rename (comma separated, repeatable)")
	prefix := fs.String("prefix", "c_", "Prefix added to every renamed symbol")
	dir := fs.String("dir", "", "Reference package `dir` (default pkg/reference/<name>)")
	force := fs.BoolP("force", "f", false, "Overwrite an existing config file")

	return &Command{
		Flags: fs,
		Usage: "init <name> --symbols <a,b,...> [flags]",
		Short: "Write a starter " + config.FileName,
		Long: `Write a starter ` + config.FileName + ` for one reference package.

Every symbol gets the prefix; all-caps data symbols get it upper-cased, so
URL_SCHEMES becomes C_URL_SCHEMES. Run 'diffuzz gen' afterwards.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return ErrNameRequired
			}

			return execInit(o, a, initOptions{
				name:    args[0],
				dir:     *dir,
				symbols: *symbols,
				prefix:  *prefix,
				force:   *force,
			})
		},
	}
}

type initOptions struct {
	name    string
	dir     string
	symbols []string
	prefix  string
	force   bool
}

func execInit(o *IO, a *app, opts initOptions) error {
	if len(opts.symbols) == 0 {
		return ErrSymbolsRequired
	}

	workDir := a.workDir
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	path := filepath.Join(workDir, config.FileName)

	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	data, err := Scaffold(opts.name, opts.dir, opts.prefix, opts.symbols)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	o.Println("wrote", path)

	return nil
}

// RenamedSymbol returns the replacement for sym.
func RenamedSymbol(prefix, sym string) string {
	if sym == strings.ToUpper(sym) {
		return strings.ToUpper(prefix) + sym
	}

	return prefix + sym
}

// Scaffold renders a config document with one reference and validates it.
func Scaffold(name, dir, prefix string, symbols []string) ([]byte, error) {
	if dir == "" {
		dir = filepath.ToSlash(filepath.Join("pkg", "reference", name))
	}

	ref := config.Reference{Name: name, Dir: dir, Rename: make(map[string]string, len(symbols))}

	for _, sym := range symbols {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}

		ref.Rename[sym] = RenamedSymbol(prefix, sym)
	}

	cfg := config.Default()
	cfg.References = []config.Reference{ref}
	cfg.Targets = []string{name}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	doc := append([]byte("// diffuzz build configuration. Run 'diffuzz gen' after editing rename tables.\n"), raw...)

	formatted, err := hujson.Format(doc)
	if err != nil {
		return nil, fmt.Errorf("format config: %w", err)
	}

	return formatted, nil
}
