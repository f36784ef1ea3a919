package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/diffuzz/internal/decode"
)

func Test_Repl_Runs_Lines_And_Saves_Failing_Input(t *testing.T) {
	t.Parallel()

	c := NewCLI(t)

	stdin := "http://ok\n\nxbad\n:save crash\n:quit\nnever\n"

	out, errOut, code := c.RunWithInput(stdin, "repl", "urlparser")
	require.Equal(t, 0, code, errOut)

	require.Contains(t, out, "result: passed")
	require.Contains(t, out, "result: failed")
	require.Contains(t, out, "saved crash")
	require.Equal(t, 2, c.Calls)

	data, err := os.ReadFile(filepath.Join(c.Dir, "crash"))
	require.NoError(t, err)
	require.Equal(t, "xbad", string(data))
}

func Test_Repl_Save_Without_Failure_Reports_Error(t *testing.T) {
	t.Parallel()

	c := NewCLI(t)

	_, errOut, code := c.RunWithInput(":save x\n", "repl", "qsort")
	require.Equal(t, 0, code)
	require.Contains(t, errOut, ErrNothingToSave.Error())
}

func Test_Repl_Hex_Input(t *testing.T) {
	t.Parallel()

	c := NewCLI(t)

	out, _, code := c.RunWithInput(":hex 78 00\n", "repl", "urlparser")
	require.Equal(t, 0, code)
	require.Contains(t, out, "result: failed")
}

func Test_ParseReplInput(t *testing.T) {
	t.Parallel()

	got, err := parseReplInput("qsort", "5 3, 8\t1")
	require.NoError(t, err)
	require.Equal(t, decode.EncodeWords(5, 3, 8, 1), got)

	got, err = parseReplInput("qsort-range", "0x1 -2")
	require.NoError(t, err)
	require.Equal(t, decode.EncodeWords(1, -2), got)

	_, err = parseReplInput("qsort", "5 three")
	require.ErrorIs(t, err, ErrBadInput)

	got, err = parseReplInput("urlparser", `"http://a\x00b"`)
	require.NoError(t, err)
	require.Equal(t, []byte("http://a\x00b"), got)

	got, err = parseReplInput("urlparser", "http://x y")
	require.NoError(t, err)
	require.Equal(t, []byte("http://x y"), got)
}

func Test_RenamedSymbol(t *testing.T) {
	t.Parallel()

	require.Equal(t, "c_url_parse", RenamedSymbol("c_", "url_parse"))
	require.Equal(t, "C_URL_SCHEMES", RenamedSymbol("c_", "URL_SCHEMES"))
}
