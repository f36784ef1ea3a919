package oracle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/diffuzz/internal/driver"
	"github.com/calvinalkan/diffuzz/internal/oracle"
	"github.com/calvinalkan/diffuzz/pkg/api"
	"github.com/calvinalkan/diffuzz/pkg/foreign"
)

func Test_CompareSort_Returns_Nil_When_Equal(t *testing.T) {
	t.Parallel()

	ref := driver.SortResult{Values: []int32{1, 3, 5, 8}}
	tr := driver.SortResult{Values: []int32{1, 3, 5, 8}, Checkpoints: []driver.Checkpoint{{Label: "exit"}}}

	require.Nil(t, oracle.CompareSort("qsort", ref, tr))
}

func Test_CompareSort_Reports_First_Differing_Index_Only(t *testing.T) {
	t.Parallel()

	ref := driver.SortResult{Values: []int32{1, 3, 5, 8}}
	tr := driver.SortResult{Values: []int32{1, 5, 3, 9}}

	d := oracle.CompareSort("qsort", ref, tr)
	require.NotNil(t, d)

	require.Equal(t, "qsort", d.Target)
	require.Equal(t, "values[1]", d.Field)
	require.Equal(t, 3, d.Ordinal)
	require.Equal(t, int32(3), d.Reference)
	require.Equal(t, int32(5), d.Translated)
	require.NotEmpty(t, d.Detail)
	require.Contains(t, d.Error(), "(-reference +translated)")
}

func Test_CompareSort_Checks_Length_Before_Elements(t *testing.T) {
	t.Parallel()

	d := oracle.CompareSort("qsort", driver.SortResult{Values: []int32{1}}, driver.SortResult{Values: []int32{2, 1}})
	require.NotNil(t, d)

	require.Equal(t, "len", d.Field)
	require.Equal(t, 1, d.Ordinal)
}

func parsedResult() driver.URLResult {
	var r driver.URLResult

	r.Parsed = true
	r.Href = foreign.Some("http://example.com/path")
	r.Fields[api.Protocol] = foreign.Some("http")
	r.Fields[api.Host] = foreign.Some("example.com")
	r.Accessors[api.Protocol] = foreign.Some("http")
	r.Accessors[api.Host] = foreign.Some("example.com")
	r.Accessors[api.Path] = foreign.Some("/path")
	r.Input = []byte("http://example.com/path\x00")

	return r
}

func Test_CompareURL_Both_Absent_Is_Equal(t *testing.T) {
	t.Parallel()

	ref := parsedResult()
	tr := parsedResult()
	tr.Checkpoints = []driver.Checkpoint{{Label: "entry", Len: 3}}

	require.False(t, ref.Accessors[api.Hash].Valid)
	require.Nil(t, oracle.CompareURL("urlparser", ref, tr))
}

func Test_CompareURL_Reports_Presence_Mismatch(t *testing.T) {
	t.Parallel()

	ref := parsedResult()
	tr := parsedResult()
	tr.Parsed = false

	d := oracle.CompareURL("urlparser", ref, tr)
	require.NotNil(t, d)

	require.Equal(t, "parsed", d.Field)
	require.Equal(t, 1, d.Ordinal)
}

func Test_CompareURL_Stops_At_First_Differing_Field(t *testing.T) {
	t.Parallel()

	ref := parsedResult()
	tr := parsedResult()
	tr.Fields[api.Host] = foreign.Some("example.org")
	tr.Accessors[api.Port] = foreign.Some("80")
	tr.Input = []byte("mutated\x00")

	d := oracle.CompareURL("urlparser", ref, tr)
	require.NotNil(t, d)

	// parsed, href, parsed.protocol, parsed.host
	require.Equal(t, "parsed.host", d.Field)
	require.Equal(t, 4, d.Ordinal)
	require.Equal(t, foreign.Some("example.com"), d.Reference)
	require.Equal(t, foreign.Some("example.org"), d.Translated)
}

func Test_CompareURL_Treats_Null_And_Empty_As_Different(t *testing.T) {
	t.Parallel()

	ref := parsedResult()
	tr := parsedResult()
	tr.Accessors[api.Query] = foreign.Some("")

	d := oracle.CompareURL("urlparser", ref, tr)
	require.NotNil(t, d)
	require.Equal(t, "query()", d.Field)
}

func Test_CompareURL_Detects_Input_Mutation(t *testing.T) {
	t.Parallel()

	ref := parsedResult()
	tr := parsedResult()
	tr.Input = []byte("http://example.com/pat\x00\x00")

	d := oracle.CompareURL("urlparser", ref, tr)
	require.NotNil(t, d)
	require.Equal(t, "input", d.Field)
	require.Equal(t, 2+api.FieldCount*2+1, d.Ordinal)
}

func Test_CompareURL_Skips_Parsed_Fields_When_Neither_Parsed(t *testing.T) {
	t.Parallel()

	var ref, tr driver.URLResult

	tr.Accessors[api.Protocol] = foreign.Some("x")

	d := oracle.CompareURL("urlparser", ref, tr)
	require.NotNil(t, d)
	require.Equal(t, "protocol()", d.Field)
	require.Equal(t, 2, d.Ordinal)
}
