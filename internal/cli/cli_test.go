package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoit-pereira-da-silva/charmap/pkg/charmap"
	ptable "github.com/benoit-pereira-da-silva/charmap/pkg/table"
)

const helloTable = `
name: hello
default: delete
rules:
  - char: e
    action: "str:eeee"
  - char: l
    action: delete
  - char: o
    action: pass
`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := Root()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApply_PresetsFromStdin(t *testing.T) {
	out, _, err := run(t, "“hi” — there…\nl\u200Bine two\n", "apply", "--preset", "quotes", "--preset", "clean")
	require.NoError(t, err)
	assert.Equal(t, "\"hi\" -- there...\nline two\n", out)
}

func TestApply_TableWithDefault(t *testing.T) {
	tbl := writeFile(t, "hello.yaml", helloTable)

	out, _, err := run(t, "Hello World\n", "apply", "--table", tbl)
	require.NoError(t, err)
	assert.Equal(t, "eeeeoo", out)

	out, _, err = run(t, "Hello World\n", "apply", "--table", tbl, "--default", "char:-")
	require.NoError(t, err)
	assert.Equal(t, "-eeeeo--o---", out)
}

func TestApply_FilesAreConcatenated(t *testing.T) {
	a := writeFile(t, "a.txt", "Ça\n")
	b := writeFile(t, "b.txt", "déjà\n")

	out, _, err := run(t, "", "apply", "-p", "latin1-fold", a, b)
	require.NoError(t, err)
	assert.Equal(t, "Ca\ndeja\n", out)
}

func TestApply_ChunksKeepRunesWhole(t *testing.T) {
	in := strings.Repeat("déjà vu, ", 40)
	out, _, err := run(t, in, "apply", "-p", "latin1-fold", "--chunk", "3")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("deja vu, ", 40), out)
}

func TestApply_ChunkedFileKeepsRunesWhole(t *testing.T) {
	in := strings.Repeat("aé", 3000)
	path := writeFile(t, "in.txt", in)

	out, _, err := run(t, "", "apply", "-p", "quotes", "--chunk", "4096", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "\uFFFD")
	assert.Equal(t, in, out)
}

func TestApply_ChunkLargerThanDefaultBuffer(t *testing.T) {
	in := strings.Repeat("a", 200000) + "é€𝄞"
	path := writeFile(t, "big.txt", in)

	out, _, err := run(t, "", "apply", "-p", "quotes", "--chunk", "100000", path)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, _, err = run(t, "", "apply", "-p", "quotes", "--chunk", "100000", "--max-token", "10", path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestApply_Timeout(t *testing.T) {
	out, _, err := run(t, "a\nb\n", "apply", "-p", "quotes", "--timeout", "1m")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)

	pr, pw := io.Pipe()
	defer pw.Close()
	cmd := Root()
	cmd.SetIn(pr)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"apply", "-p", "quotes", "--timeout", "50ms"})
	err = cmd.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestApply_Encoding(t *testing.T) {
	out, _, err := run(t, "caf\xe9 cr\xe8me\n", "apply", "-p", "latin1-fold", "--encoding", "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "cafe creme\n", out)

	_, _, err = run(t, "x", "apply", "-p", "latin1-fold", "--encoding", "klingon-8")
	assert.Error(t, err)
}

func TestApply_EncodingWithoutTableOnlyDecodes(t *testing.T) {
	out, _, err := run(t, "caf\xe9 cr\xe8me\n", "apply", "--encoding", "latin1")
	require.NoError(t, err)
	assert.Equal(t, "café crème\n", out)
}

func TestApply_Errors(t *testing.T) {
	_, _, err := run(t, "x", "apply")
	assert.ErrorIs(t, err, ErrNothingToApply)

	_, _, err = run(t, "x", "apply", "-p", "nope")
	assert.ErrorIs(t, err, ptable.ErrUnknownPreset)

	_, _, err = run(t, "x", "apply", "-p", "clean", "--default", "shout")
	assert.ErrorIs(t, err, charmap.ErrInvalidAction)

	_, _, err = run(t, "x", "apply", "-p", "clean", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "x", "apply", "-n", "hello")
	assert.ErrorContains(t, err, "--db is required")

	_, _, err = run(t, "x", "--log-level", "loud", "presets")
	assert.ErrorContains(t, err, "invalid --log-level")
}

func TestApply_DebugLogging(t *testing.T) {
	_, logs, err := run(t, "ab\ncd\n", "--log-level", "debug", "apply", "-p", "clean")
	require.NoError(t, err)
	assert.Contains(t, logs, "mapping ready")
	assert.Contains(t, logs, "msg=mapped")
	assert.Contains(t, logs, "index=1")
}

func TestDatastoreRoundTrip(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tables")
	tbl := writeFile(t, "hello.yaml", helloTable)

	out, _, err := run(t, "", "import", "--db", db, tbl)
	require.NoError(t, err)
	assert.Equal(t, "hello: 3 runes\n", out)

	out, _, err = run(t, "", "import", "--db", db, "-p", "quotes", "--name", "typo")
	require.NoError(t, err)
	assert.Contains(t, out, "typo: ")

	out, _, err = run(t, "", "tables", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "typo")

	out, _, err = run(t, "Hello World\n", "apply", "--db", db, "-n", "hello")
	require.NoError(t, err)
	assert.Equal(t, "eeeeoo", out)

	out, _, err = run(t, "“Hello”\n", "apply", "--db", db, "-n", "typo", "-n", "hello")
	require.NoError(t, err)
	assert.Equal(t, "\"Heeeeo\"\n", out)

	out, _, err = run(t, "", "export", "--db", db, "hello")
	require.NoError(t, err)
	exported, err := ptable.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "hello", exported.Name)
	assert.Equal(t, "delete", exported.Default)
	entries, err := exported.Entries()
	require.NoError(t, err)
	assert.Equal(t, []charmap.Entry{
		{Rune: 'e', Action: charmap.SubStr("eeee")},
		{Rune: 'l', Action: charmap.Delete()},
		{Rune: 'o', Action: charmap.Pass()},
	}, entries)

	_, _, err = run(t, "", "export", "--db", db, "missing")
	assert.Error(t, err)

	_, _, err = run(t, "", "import", "--db", db, "-p", "quotes", "-p", "clean", "--name", "both")
	assert.ErrorContains(t, err, "exactly one table")
}

func TestInspect(t *testing.T) {
	out, _, err := run(t, "", "inspect", "-p", "quotes")
	require.NoError(t, err)
	assert.Contains(t, out, "U+201C")
	assert.Contains(t, out, "str:--")
	assert.Contains(t, out, "DEFAULT")

	out, _, err = run(t, "", "inspect", "-p", "latin1-fold", "--default", "delete", "Çx")
	require.NoError(t, err)
	assert.Contains(t, out, "U+00C7")
	assert.Contains(t, out, "char:C")
	assert.Contains(t, out, `"C"`)
	assert.Contains(t, out, "U+0078")
	assert.Contains(t, out, "delete")
}

func TestPresets(t *testing.T) {
	out, _, err := run(t, "", "presets")
	require.NoError(t, err)
	for _, name := range ptable.Presets() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "typographic punctuation to ASCII")
}
