// Package config loads the diffuzz build configuration.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/tailscale/hujson"
)

// FileName is the default project config file name.
const FileName = "diffuzz.jsonc"

// Config holds all configuration options.
type Config struct {
	// Toolchain
	Compiler      string   `json:"compiler,omitempty"`
	OptLevel      string   `json:"opt_level,omitempty"`
	Debug         *bool    `json:"debug,omitempty"`
	Coverage      []string `json:"coverage,omitempty"`
	Sanitizers    []string `json:"sanitizers,omitempty"`
	RuntimePrefix string   `json:"runtime_prefix,omitempty"`

	// Outputs
	OutDir string `json:"out_dir,omitempty"`
	Entry  string `json:"entry,omitempty"`

	References []Reference `json:"references,omitempty"`
	Targets    []string    `json:"targets,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"`
	OutDirAbs    string `json:"-"`

	// Source is the config file that was loaded, empty for defaults only.
	Source string `json:"-"`
}

// Reference is one cgo package wrapping C reference sources.
type Reference struct {
	Name string `json:"name"`
	// Dir is the package directory, relative to the working directory.
	Dir string `json:"dir"`
	// Package is the Go package name. Defaults to the base name of Dir.
	Package string `json:"package,omitempty"`
	// Rename maps each colliding C symbol to its replacement.
	Rename map[string]string `json:"rename"`
}

// PackageName returns Package, or the base name of Dir.
func (r Reference) PackageName() string {
	if r.Package != "" {
		return r.Package
	}

	return filepath.Base(r.Dir)
}

// DebugInfo reports whether -g is passed to the C compiler.
func (c Config) DebugInfo() bool {
	return c.Debug == nil || *c.Debug
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Compiler:      "clang",
		OptLevel:      "-O1",
		Coverage:      []string{"-fsanitize-coverage=trace-pc-guard,trace-cmp"},
		RuntimePrefix: "clang_rt.profile",
		OutDir:        ".diffuzz",
		Entry:         "./cmd/diffuzz-libfuzzer",
	}
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride  string   // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath       string   // -c/--config flag value
	CompilerOverride string   // --cc flag value
	OutDirOverride   string   // --out flag value
	Sanitizers       []string // --sanitize flag values, appended
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Project config file (diffuzz.jsonc, if it exists) or the explicit file
// 3. CLI overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	fileCfg, path, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg = merge(cfg, fileCfg)
	cfg.Source = path

	if input.CompilerOverride != "" {
		cfg.Compiler = input.CompilerOverride
	}

	if input.OutDirOverride != "" {
		cfg.OutDir = input.OutDirOverride
	}

	cfg.Sanitizers = append(cfg.Sanitizers, input.Sanitizers...)

	if err := Validate(cfg); err != nil {
		if path != "" {
			return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
		}

		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.OutDir) {
		cfg.OutDirAbs = cfg.OutDir
	} else {
		cfg.OutDirAbs = filepath.Join(workDir, cfg.OutDir)
	}

	return cfg, nil
}

func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	cfgFile := filepath.Join(workDir, FileName)
	mustExist := false

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true
	}

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
			}

			return Config{}, "", nil
		}

		return Config{}, "", fmt.Errorf("%w: %s: %w", ErrConfigFileRead, cfgFile, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, cfgFile, err)
	}

	return cfg, cfgFile, nil
}

// Parse decodes a JSONC document. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	var cfg Config

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.Compiler != "" {
		base.Compiler = overlay.Compiler
	}

	if overlay.OptLevel != "" {
		base.OptLevel = overlay.OptLevel
	}

	if overlay.Debug != nil {
		base.Debug = overlay.Debug
	}

	if overlay.Coverage != nil {
		base.Coverage = overlay.Coverage
	}

	if overlay.Sanitizers != nil {
		base.Sanitizers = overlay.Sanitizers
	}

	if overlay.RuntimePrefix != "" {
		base.RuntimePrefix = overlay.RuntimePrefix
	}

	if overlay.OutDir != "" {
		base.OutDir = overlay.OutDir
	}

	if overlay.Entry != "" {
		base.Entry = overlay.Entry
	}

	if overlay.References != nil {
		base.References = overlay.References
	}

	if overlay.Targets != nil {
		base.Targets = overlay.Targets
	}

	return base
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidSymbol reports whether s is a C identifier.
func ValidSymbol(s string) bool {
	return identRe.MatchString(s)
}

// Validate checks cfg for missing values and rename tables that could not
// produce a collision-free link.
func Validate(cfg Config) error {
	switch {
	case cfg.Compiler == "":
		return ErrCompilerEmpty
	case cfg.OutDir == "":
		return ErrOutDirEmpty
	case cfg.RuntimePrefix == "":
		return ErrRuntimePrefixEmpty
	case len(cfg.References) == 0:
		return ErrNoReferences
	case len(cfg.Targets) == 0:
		return ErrNoTargets
	}

	// A new name must not be produced twice or shadow a symbol that some
	// reference still exports under its old name.
	produced := make(map[string]string)
	renamed := make(map[string]bool)

	for _, ref := range cfg.References {
		for old := range ref.Rename {
			renamed[old] = true
		}
	}

	names := make(map[string]bool)

	for i, ref := range cfg.References {
		if ref.Name == "" || ref.Dir == "" {
			return fmt.Errorf("%w: references[%d] needs name and dir", ErrReferenceInvalid, i)
		}

		if names[ref.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrReferenceInvalid, ref.Name)
		}

		names[ref.Name] = true

		olds := make([]string, 0, len(ref.Rename))
		for old := range ref.Rename {
			olds = append(olds, old)
		}

		slices.Sort(olds)

		for _, old := range olds {
			repl := ref.Rename[old]

			for _, s := range []string{old, repl} {
				if !ValidSymbol(s) {
					return fmt.Errorf("%w: %s: %q", ErrInvalidSymbol, ref.Name, s)
				}
			}

			if old == repl {
				return fmt.Errorf("%w: %s: %s renamed to itself", ErrRenameCollision, ref.Name, old)
			}

			key := ref.Name + "." + old
			if prev, ok := produced[repl]; ok {
				return fmt.Errorf("%w: %s and %s both renamed to %s", ErrRenameCollision, prev, key, repl)
			}

			if renamed[repl] {
				return fmt.Errorf("%w: %s renamed to %s, which is itself renamed", ErrRenameCollision, key, repl)
			}

			produced[repl] = key
		}
	}

	return nil
}
