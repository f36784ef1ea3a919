package build

import "fmt"

// clangArch maps kernel and Go architecture names to clang's.
var clangArch = map[string]string{
	"x86_64":  "x86_64",
	"amd64":   "x86_64",
	"aarch64": "aarch64",
	"arm64":   "aarch64",
	"i386":    "i386",
	"i686":    "i386",
	"386":     "i386",
	"riscv64": "riscv64",
	"s390x":   "s390x",
	"ppc64le": "powerpc64le",
}

func normalizeArch(name string) (string, error) {
	if a, ok := clangArch[name]; ok {
		return a, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownArch, name)
}
