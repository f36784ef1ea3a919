// Package oracle compares the captured results of a reference and a
// translated invocation and reports the first difference.
package oracle

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/diffuzz/internal/driver"
	"github.com/calvinalkan/diffuzz/pkg/api"
	"github.com/calvinalkan/diffuzz/pkg/foreign"
)

// Divergence describes the first contractual field on which the two
// implementations disagreed. Ordinal is the 1-based position of the check
// that failed within the target's fixed comparison order.
type Divergence struct {
	Target     string
	Field      string
	Ordinal    int
	Reference  any
	Translated any

	// Detail is a cmp diff of the whole result, (-reference +translated).
	Detail string
}

func (d *Divergence) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: divergence at check #%d (%s): reference=%v translated=%v",
		d.Target, d.Ordinal, d.Field, d.Reference, d.Translated)

	if d.Detail != "" {
		b.WriteString("\n(-reference +translated):\n")
		b.WriteString(d.Detail)
	}

	return b.String()
}

// checker walks the comparison order and stops at the first mismatch.
type checker struct {
	target string
	n      int
	failed *Divergence
}

func (c *checker) check(field string, ref, tr any, equal bool) bool {
	if c.failed != nil {
		return false
	}

	c.n++

	if !equal {
		c.failed = &Divergence{
			Target:     c.target,
			Field:      field,
			Ordinal:    c.n,
			Reference:  ref,
			Translated: tr,
		}

		return false
	}

	return true
}

// CompareSort compares buffer length, then every element in index order.
// Checkpoints are not compared.
func CompareSort(target string, ref, tr driver.SortResult) *Divergence {
	c := checker{target: target}

	if !c.check("len", len(ref.Values), len(tr.Values), len(ref.Values) == len(tr.Values)) {
		return c.withDetail(ref.Values, tr.Values)
	}

	for i := range ref.Values {
		if !c.check(fmt.Sprintf("values[%d]", i), ref.Values[i], tr.Values[i], ref.Values[i] == tr.Values[i]) {
			return c.withDetail(ref.Values, tr.Values)
		}
	}

	return nil
}

// CompareURL compares parse presence, href, every parsed field, every
// accessor result and finally the argument buffer, in that order.
// Checkpoints are not compared.
func CompareURL(target string, ref, tr driver.URLResult) *Divergence {
	c := checker{target: target}
	ignore := cmp.FilterPath(isCheckpoints, cmp.Ignore())

	fail := func() *Divergence {
		return c.withDetail(ref, tr, ignore)
	}

	if !c.check("parsed", ref.Parsed, tr.Parsed, ref.Parsed == tr.Parsed) {
		return fail()
	}

	if ref.Parsed {
		if !c.checkNull("parsed.href", ref.Href, tr.Href) {
			return fail()
		}

		for _, f := range api.Fields() {
			if !c.checkNull("parsed."+f.String(), ref.Fields[f], tr.Fields[f]) {
				return fail()
			}
		}
	}

	for _, f := range api.Fields() {
		if !c.checkNull(f.String()+"()", ref.Accessors[f], tr.Accessors[f]) {
			return fail()
		}
	}

	if !c.check("input", quoted(ref.Input), quoted(tr.Input), bytes.Equal(ref.Input, tr.Input)) {
		return fail()
	}

	return nil
}

func (c *checker) checkNull(field string, ref, tr foreign.NullString) bool {
	return c.check(field, ref, tr, ref == tr)
}

func (c *checker) withDetail(ref, tr any, opts ...cmp.Option) *Divergence {
	c.failed.Detail = cmp.Diff(ref, tr, opts...)

	return c.failed
}

func quoted(b []byte) string {
	return fmt.Sprintf("%q", b)
}

func isCheckpoints(p cmp.Path) bool {
	sf, ok := p.Last().(cmp.StructField)

	return ok && sf.Name() == "Checkpoints"
}
