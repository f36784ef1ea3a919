package urlparser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/diffuzz/pkg/api"
	"github.com/calvinalkan/diffuzz/pkg/foreign"
	"github.com/calvinalkan/diffuzz/pkg/translated/urlparser"
)

var null = foreign.Null

func some(s string) foreign.NullString { return foreign.Some(s) }

func Test_Parse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want *urlparser.Data
	}{
		{
			in: "http://example.com/path",
			want: &urlparser.Data{
				Href: some("http://example.com/path"), Protocol: some("http"),
				Host: some("example.com"), Hostname: some("example.com"),
				Path: some("/path"), Pathname: some("/path"),
			},
		},
		{
			in: "https://user:pw@host.io:8080/a/b?x=1&y=2#frag",
			want: &urlparser.Data{
				Href: some("https://user:pw@host.io:8080/a/b?x=1&y=2#frag"), Protocol: some("https"),
				Auth: some("user:pw"), Host: some("host.io:8080"), Hostname: some("host.io"), Port: some("8080"),
				Path: some("/a/b?x=1&y=2"), Pathname: some("/a/b"), Search: some("?x=1&y=2"), Query: some("x=1&y=2"),
				Hash: some("#frag"),
			},
		},
		{
			in: "ftp://h?q#",
			want: &urlparser.Data{
				Href: some("ftp://h?q#"), Protocol: some("ftp"), Host: some("h"), Hostname: some("h"),
				Path: some("?q"), Search: some("?q"), Query: some("q"), Hash: some("#"),
			},
		},
		{
			in: "ws://:",
			want: &urlparser.Data{
				Href: some("ws://:"), Protocol: some("ws"), Host: some(":"), Hostname: some(""), Port: some(""),
			},
		},
		{in: "nope://example.com", want: nil},
		{in: "://example.com", want: nil},
		{in: "example.com/path", want: nil},
		{in: "", want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got := urlparser.Parse(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func Test_Accessors_Agree_With_Parse(t *testing.T) {
	t.Parallel()

	in := foreign.NewCString([]byte("ssh://git@github.com:22/x?y#z"))
	p := urlparser.Parser{}

	h, ok := p.Parse(in)
	require.True(t, ok)

	for _, f := range api.Fields() {
		got, release := p.Get(f, in)
		require.Nil(t, release, "field %s", f)
		require.Equal(t, h.Field(f), got, "field %s", f)
	}

	p.Free(h)
}

func Test_Parser_Reads_Up_To_First_NUL(t *testing.T) {
	t.Parallel()

	p := urlparser.Parser{}

	got, _ := p.Get(api.Path, foreign.NewCString([]byte("http://a/b\x00/c")))
	require.Equal(t, some("/b"), got)
}

func Test_Free_Twice_Panics(t *testing.T) {
	t.Parallel()

	p := urlparser.Parser{}

	h, ok := p.Parse(foreign.NewCString([]byte("http://a")))
	require.True(t, ok)

	p.Free(h)
	require.Panics(t, func() { p.Free(h) })
}

func Test_IsSSH(t *testing.T) {
	t.Parallel()

	require.True(t, urlparser.IsSSH("git"))
	require.True(t, urlparser.IsSSH("ssh"))
	require.False(t, urlparser.IsSSH("http"))
	require.Equal(t, null, urlparser.GetPort("http://a"))
}
