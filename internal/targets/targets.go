// Package targets binds each C reference package to its Go translation.
//
// It is the only harness package that links cgo code.
package targets

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/diffuzz/internal/harness"
	"github.com/calvinalkan/diffuzz/pkg/api"
	refqsort "github.com/calvinalkan/diffuzz/pkg/reference/qsort"
	refurl "github.com/calvinalkan/diffuzz/pkg/reference/urlparser"
	trqsort "github.com/calvinalkan/diffuzz/pkg/translated/qsort"
	trurl "github.com/calvinalkan/diffuzz/pkg/translated/urlparser"
)

// SortPair is the qsort reference/translation pair.
func SortPair() api.Pair[api.Sorter] {
	return api.Pair[api.Sorter]{Reference: refqsort.Sorter{}, Translated: trqsort.Sorter{}}
}

// URLPair is the URL parser reference/translation pair.
func URLPair() api.Pair[api.URLParser] {
	return api.Pair[api.URLParser]{Reference: refurl.Parser{}, Translated: trurl.Parser{}}
}

// All returns every target, in a stable order.
func All() []harness.Target {
	return []harness.Target{
		harness.QuickSort(SortPair()),
		harness.QuickSortRange(SortPair()),
		harness.URLParser(URLPair()),
	}
}

// Names returns the names of All.
func Names() []string {
	all := All()

	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.Name()
	}

	return names
}

// Lookup returns the target called name.
func Lookup(name string) (harness.Target, error) {
	for _, t := range All() {
		if t.Name() == name {
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownTarget, name, strings.Join(Names(), ", "))
}
