package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/renderjson/pkg/loader"
	"github.com/oakwood-commons/renderjson/pkg/renderjson"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "")

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRoot_TextFromStdin(t *testing.T) {
	out, _, err := runCLI(t, `{"b":[1,"x"],"a":null}`, "--show-level", "all")
	require.NoError(t, err)
	assert.Equal(t, "⊖{\n    \"b\": ⊖[\n        1,\n        \"x\"\n    ],\n    \"a\": null\n}\n", out)
}

func TestRoot_CollapsedByDefault(t *testing.T) {
	out, _, err := runCLI(t, `{"b":1,"a":2}`)
	require.NoError(t, err)
	assert.Equal(t, "⊕{2 items}\n", out)
}

func TestRoot_FileArgumentWithSort(t *testing.T) {
	path := writeFile(t, "data.yaml", "b: 1\na: two\n")
	out, _, err := runCLI(t, "", path, "--sort", "--show-level", "1")
	require.NoError(t, err)
	assert.Equal(t, "⊖{\n    \"a\": \"two\"\n    \"b\": 1,\n}\n", out, "commas follow the source order")
}

func TestRoot_RenderFlags(t *testing.T) {
	out, _, err := runCLI(t, `{"b":1,"a":2}`, "--collapse-msg", "{{.Count}} keys", "--show-icon", "+", "--hide-icon", "-")
	require.NoError(t, err)
	assert.Equal(t, "+{2 keys}\n", out)

	out, _, err = runCLI(t, `{"s":"abcdefgh"}`, "--show-level", "1", "--max-string", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"s": ⊕"abc ..."`)
}

func TestRoot_Transform(t *testing.T) {
	out, _, err := runCLI(t, `{"password":"hunter2","user":"u"}`,
		"--show-level", "all", "--transform", `key == "password" ? "***" : value`)
	require.NoError(t, err)
	assert.Contains(t, out, `"password": "***"`)
	assert.Contains(t, out, `"user": "u"`)
	assert.NotContains(t, out, "hunter2")
}

func TestRoot_DecodeNested(t *testing.T) {
	out, _, err := runCLI(t, `{"a":"{\"b\":1}"}`, "--show-level", "all", "--decode-nested")
	require.NoError(t, err)
	assert.Contains(t, out, `"b": 1`)
}

func TestRoot_HTMLAndPage(t *testing.T) {
	out, _, err := runCLI(t, `[1]`, "--output", "html")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<pre class="renderjson">`))
	assert.True(t, strings.HasSuffix(out, "</pre>\n"))

	preamble := writeFile(t, "notes.md", "# Notes\n")
	out, _, err = runCLI(t, `[1]`, "-o", "page", "--title", "Report", "--preamble", preamble)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Report</title>")
	assert.Contains(t, out, `<h1 id="notes">Notes</h1>`)
}

func TestRoot_ConfigFileSettings(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "render:\n  sort_objects: true\n  show_level: all\n  output: text\n")
	out, _, err := runCLI(t, `{"z":1,"a":2}`, "--config-file", cfg)
	require.NoError(t, err)
	assert.Equal(t, "⊖{\n    \"a\": 2\n    \"z\": 1,\n}\n", out)

	out, _, err = runCLI(t, `{"z":1,"a":2}`, "--config-file", cfg, "--sort=false")
	require.NoError(t, err)
	assert.Equal(t, "⊖{\n    \"z\": 1,\n    \"a\": 2\n}\n", out, "flags override the file")
}

func TestRoot_Errors(t *testing.T) {
	_, _, err := runCLI(t, `{}`, "--theme", "nope")
	assert.ErrorContains(t, err, "unknown theme")

	_, _, err = runCLI(t, `{}`, "-o", "xml")
	assert.ErrorContains(t, err, "must be one of")

	_, _, err = runCLI(t, `{}`, "--show-level", "some")
	assert.ErrorIs(t, err, renderjson.ErrInvalidOption)

	_, _, err = runCLI(t, `{}`, "--collapse-msg", "{{.Count")
	assert.ErrorContains(t, err, "collapse message template")

	_, _, err = runCLI(t, `{}`, "--transform", "value +")
	assert.ErrorContains(t, err, "transform")

	_, _, err = runCLI(t, "   ")
	assert.ErrorIs(t, err, loader.ErrEmptyInput)

	_, _, err = runCLI(t, "", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "missing.json")

	bad := writeFile(t, "bad.yaml", "render:\n  colour: red\n")
	_, _, err = runCLI(t, `{}`, "--config-file", bad)
	assert.ErrorContains(t, err, "load config")
}

func TestRoot_VerboseLogging(t *testing.T) {
	_, stderr, err := runCLI(t, `{}`, "-v", "--log-format", "console")
	require.NoError(t, err)
	assert.Contains(t, stderr, "loading input")

	_, stderr, err = runCLI(t, `{}`)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "loading input")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "renderjson v0.0.0-nightly"))

	out, _, err = runCLI(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, versionString()+"\n", out)
}

func TestConfigCommands(t *testing.T) {
	out, _, err := runCLI(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "render:")
	assert.Contains(t, out, "themes:")

	out, _, err = runCLI(t, "", "config", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* dark\n")
	assert.Contains(t, out, "  light\n")

	out, _, err = runCLI(t, "", "config", "default")
	require.NoError(t, err)
	assert.Contains(t, out, "# number of levels expanded up front")
}
