package build

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/diffuzz/internal/config"
)

// GeneratedFileName is the rename file written into every reference package.
const GeneratedFileName = "zz_generated_rename.go"

const generatedHeader = "// Code generated by diffuzz gen. DO NOT EDIT.\n"

// RenameSource renders the cgo directives that rename every C symbol in
// rename when the package's C sources are compiled. Output is sorted by old
// name so regeneration is stable.
func RenameSource(pkg string, rename map[string]string) []byte {
	olds := make([]string, 0, len(rename))
	for old := range rename {
		olds = append(olds, old)
	}

	sort.Strings(olds)

	var b bytes.Buffer

	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "\npackage %s\n\n", pkg)

	for _, old := range olds {
		fmt.Fprintf(&b, "// #cgo CFLAGS: -D%s=%s\n", old, rename[old])
	}

	b.WriteString("import \"C\"\n")

	return b.Bytes()
}

// GenResult reports one generated file.
type GenResult struct {
	Reference string
	Path      string
	Changed   bool
}

// Generate writes the rename file of every reference under workDir. Files
// whose content is unchanged are not rewritten.
func Generate(cfg config.Config, workDir string) ([]GenResult, error) {
	results := make([]GenResult, 0, len(cfg.References))

	for _, ref := range cfg.References {
		path := filepath.Join(workDir, ref.Dir, GeneratedFileName)
		want := RenameSource(ref.PackageName(), ref.Rename)

		have, err := os.ReadFile(path)
		if err == nil && bytes.Equal(have, want) {
			results = append(results, GenResult{Reference: ref.Name, Path: path})

			continue
		}

		if err := atomic.WriteFile(path, bytes.NewReader(want)); err != nil {
			return results, fmt.Errorf("write %s: %w", path, err)
		}

		results = append(results, GenResult{Reference: ref.Name, Path: path, Changed: true})
	}

	return results, nil
}

// Check returns ErrStaleGenerated when any rename file is missing or differs
// from what Generate would write.
func Check(cfg config.Config, workDir string) error {
	var stale []string

	for _, ref := range cfg.References {
		path := filepath.Join(workDir, ref.Dir, GeneratedFileName)

		have, err := os.ReadFile(path)
		if err != nil || !bytes.Equal(have, RenameSource(ref.PackageName(), ref.Rename)) {
			stale = append(stale, path)
		}
	}

	if len(stale) > 0 {
		return fmt.Errorf("%w: %v", ErrStaleGenerated, stale)
	}

	return nil
}
