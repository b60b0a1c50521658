package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pkt.systems/mdtokens"
)

func loadAll(t *testing.T, sources []inputSource, format mdtokens.Format) []*mdtokens.Node {
	t.Helper()
	var out []*mdtokens.Node
	for _, src := range sources {
		tree, err := src.load(context.Background(), format)
		require.NoError(t, err, src.name)
		out = append(out, tree)
	}
	return out
}

func TestOpenInputFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.md")
	require.NoError(t, os.WriteFile(path, []byte("hello :^x:\n"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = w.Write([]byte("stream"))
	}))
	defer srv.Close()

	sources, err := openInputs([]string{path, "file://" + path, srv.URL}, strings.NewReader(""))
	require.NoError(t, err)
	require.Len(t, sources, 3)
	trees := loadAll(t, sources, mdtokens.FormatAuto)

	assert.Equal(t, "hello :^x:", mdtokens.PlainText(trees[0]))
	assert.Equal(t, "hello :^x:", mdtokens.PlainText(trees[1]))
	assert.Equal(t, "stream", mdtokens.PlainText(trees[2]))
	assert.Equal(t, srv.URL, sources[2].name)
}

func TestOpenInputsStdin(t *testing.T) {
	sources, err := openInputs(nil, strings.NewReader(`{"type":"root","children":[]}`))
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "-", sources[0].name)
	trees := loadAll(t, sources, mdtokens.FormatAuto)
	assert.Equal(t, mdtokens.TypeRoot, trees[0].Type)

	_, err = openInputs([]string{" "}, nil)
	assert.Error(t, err)
}

func TestFormatFromExt(t *testing.T) {
	assert.Equal(t, mdtokens.FormatJSON, formatFromExt("a/tree.JSON"))
	assert.Equal(t, mdtokens.FormatYAML, formatFromExt("tree.yml"))
	assert.Equal(t, mdtokens.FormatMarkdown, formatFromExt("notes.md"))
	assert.Equal(t, mdtokens.FormatAuto, formatFromExt("notes.txt"))
}

func TestResolveColor(t *testing.T) {
	cases := map[string]bool{
		"on":  true,
		"off": false,
		"1":   true,
		"0":   false,
	}
	for input, want := range cases {
		got, err := resolveColor(input, &bytes.Buffer{})
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	got, err := resolveColor("auto", &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, got, "non-file writers are never colored")

	_, err = resolveColor("nope", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestParseOutputFormat(t *testing.T) {
	for name, want := range map[string]outputFormat{
		"json": outputJSON,
		"YAML": outputYAML,
		"tree": outputTree,
		"diff": outputDiff,
	} {
		got, err := parseOutputFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := parseOutputFormat("xml")
	assert.Error(t, err)
}

func runWith(t *testing.T, args []string, stdin string) (string, error) {
	t.Helper()
	opts, err := parseFlags(args, &bytes.Buffer{})
	require.NoError(t, err)
	var out bytes.Buffer
	err = run(context.Background(), zap.NewNop(), opts, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestRunJSON(t *testing.T) {
	t.Setenv(configEnv, "")
	out, err := runWith(t, []string{"--input", "markdown"}, "# Title :^t:\n\n:^r:\n")
	require.NoError(t, err)
	tree, err := mdtokens.DecodeTreeBytes([]byte(out), mdtokens.FormatJSON)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, []string{"t", "r"}, tree.Children[0].Tokens())
	assert.Nil(t, tree.Tokens())
}

func TestRunTreeAndDiff(t *testing.T) {
	t.Setenv(configEnv, "")
	out, err := runWith(t, []string{"-f", "tree", "--color", "off", "-i", "markdown"}, "Body :m: :^p:\n")
	require.NoError(t, err)
	want := strings.Join([]string{
		"root",
		"└─ paragraph tokens=[p]",
		"   ├─ text \"Body \"",
		"   └─ text \":m:\" token=m",
		"",
	}, "\n")
	assert.Equal(t, want, out)

	out, err = runWith(t, []string{"--format=diff", "--color=off", "-i", "markdown"}, "Body :^p:\n")
	require.NoError(t, err)
	assert.Contains(t, out, "+ └─ paragraph tokens=[p]\n")
	assert.Contains(t, out, "- └─ paragraph\n")
}

func TestRunMultipleInputs(t *testing.T) {
	t.Setenv(configEnv, "")
	dir := t.TempDir()
	first := filepath.Join(dir, "a.md")
	second := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(first, []byte("one :^a:\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(`{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","value":"two :^b:"}]}]}`), 0o644))

	out, err := runWith(t, []string{"-f", "tree", "--color", "off", first, second}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "==> "+first+" <==\n")
	assert.Contains(t, out, "\n==> "+second+" <==\n")
	assert.Contains(t, out, "paragraph tokens=[a]")
	assert.Contains(t, out, "paragraph tokens=[b]")

	out, err = runWith(t, []string{"-f", "yaml", first, second}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "---\n"))
}

func TestRunErrors(t *testing.T) {
	t.Setenv(configEnv, "")
	_, err := runWith(t, []string{"--format", "xml"}, "x")
	assert.ErrorIs(t, err, errUsage)

	_, err = runWith(t, []string{"--theme", "missing"}, "x")
	assert.ErrorIs(t, err, errUsage)

	_, err = runWith(t, []string{"--max-depth", "1", "-i", "markdown"}, "text :^x:\n")
	assert.ErrorIs(t, err, mdtokens.ErrTooDeep)

	_, err = runWith(t, []string{"-i", "json"}, `{"type":"text","value":"x"}`)
	assert.ErrorIs(t, err, mdtokens.ErrInvalidTree)
}

func TestRunWritesOutputFile(t *testing.T) {
	t.Setenv(configEnv, "")
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	out, err := runWith(t, []string{"-o", path, "-i", "markdown"}, "x :^y:\n")
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tokens"`)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mdtokens.toml")
	require.NoError(t, os.WriteFile(path, []byte("format = \"tree\"\ncolor = \"off\"\nblock-type = \"heading\"\nwidth = 120\n"), 0o644))

	opts, err := parseFlags([]string{"--config", path, "--width", "40"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "tree", opts.format)
	assert.Equal(t, "off", opts.color)
	assert.Equal(t, "heading", opts.blockType)
	assert.Equal(t, 40, opts.width, "flags win over the config file")
	assert.Equal(t, "auto", opts.input)

	t.Setenv(configEnv, path)
	opts, err = parseFlags([]string{"-f", "yaml"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "yaml", opts.format)
	assert.Equal(t, 120, opts.width)
}

func TestConfigFileErrors(t *testing.T) {
	t.Setenv(configEnv, "")
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("colour = \"off\"\n"), 0o644))
	_, err := parseFlags([]string{"--config", unknown}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)

	badValue := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(badValue, []byte("timeout = \"soon\"\n"), 0o644))
	_, err = parseFlags([]string{"--config", badValue}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)

	_, err = parseFlags([]string{"--config", filepath.Join(dir, "missing.toml")}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestPrintThemes(t *testing.T) {
	var out bytes.Buffer
	printThemes(&out)
	assert.Equal(t, "boring\ndefault\ngruvbox\nnord\n", out.String())
}
