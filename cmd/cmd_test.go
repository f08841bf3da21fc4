package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domlens/domlens-cli/api/schemas"
	"github.com/domlens/domlens-cli/internal/sandbox"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	sandbox.ResetSharedForTest()
	t.Cleanup(sandbox.ResetSharedForTest)

	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, Version, strings.TrimSpace(out))
}

func TestInspectTreeOutput(t *testing.T) {
	htmlPath := writeFixture(t, "page.html", `<div id="main" class="card"><p>hello</p></div>`)
	cssPath := writeFixture(t, "page.css", `#main { display: flex; }`)

	out, err := execute(t, "", "inspect", htmlPath, cssPath)
	require.NoError(t, err)

	assert.Contains(t, out, "div#main.card")
	assert.Contains(t, out, "flex")
	assert.Contains(t, out, `"hello"`)
	assert.Contains(t, out, "2 elements, 1 text nodes")
}

func TestInspectJSONOutput(t *testing.T) {
	htmlPath := writeFixture(t, "page.html", `<div><p>a</p><p>b</p></div>`)

	out, err := execute(t, "", "inspect", "--format", "json", htmlPath)
	require.NoError(t, err)

	var res schemas.BuildResult
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &res))
	assert.Equal(t, schemas.Counts{Elements: 3, Texts: 2, Total: 5}, res.Counts)
	assert.NotEmpty(t, res.BuildID)
}

func TestInspectStdin(t *testing.T) {
	out, err := execute(t, `<p id="x">from stdin</p>`, "inspect", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "p#x")
	assert.Contains(t, out, `"from stdin"`)
}

func TestInspectRequiresInput(t *testing.T) {
	_, err := execute(t, "", "inspect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "html-file argument is required")
}

func TestInspectUnknownFormat(t *testing.T) {
	htmlPath := writeFixture(t, "page.html", `<p>x</p>`)
	_, err := execute(t, "", "inspect", "--format", "yaml", htmlPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestInspectMissingFile(t *testing.T) {
	_, err := execute(t, "", "inspect", filepath.Join(t.TempDir(), "nope.html"))
	assert.Error(t, err)
}

func TestInspectOutFile(t *testing.T) {
	htmlPath := writeFixture(t, "page.html", `<p>x</p>`)
	outPath := filepath.Join(t.TempDir(), "result.xml")

	out, err := execute(t, "", "inspect", "--format", "xml", "--out", outPath, htmlPath)
	require.NoError(t, err)
	assert.Empty(t, out, "output goes to the file, not stdout")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<build")
	assert.Contains(t, string(data), "<p>")
}

func TestInspectSaveAndRestore(t *testing.T) {
	storeDir := t.TempDir()
	t.Setenv("DOMLENS_STORE_DIR", storeDir)

	htmlPath := writeFixture(t, "page.html", `<div id="kept"><p>persisted</p></div>`)

	_, err := execute(t, "", "inspect", "--save", htmlPath)
	require.NoError(t, err)

	saved, err := os.ReadFile(filepath.Join(storeDir, "buffer.html"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "persisted")

	out, err := execute(t, "", "inspect", "--restore")
	require.NoError(t, err)
	assert.Contains(t, out, "div#kept")
	assert.Contains(t, out, `"persisted"`)
}

func TestInspectRestoreRejectsArgs(t *testing.T) {
	htmlPath := writeFixture(t, "page.html", `<p>x</p>`)
	_, err := execute(t, "", "inspect", "--restore", htmlPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--restore takes no file arguments")
}

func TestInspectWatchRejectsStdin(t *testing.T) {
	_, err := execute(t, "<p>x</p>", "inspect", "--watch", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdin")
}

func TestInspectViewportFlagsAffectMediaQueries(t *testing.T) {
	htmlPath := writeFixture(t, "page.html", `<div id="d"><p>x</p></div>`)
	cssPath := writeFixture(t, "page.css", `
		@media (max-width: 600px) {
			#d { display: flex; }
		}
	`)

	out, err := execute(t, "", "inspect",
		"--viewport-width", "500", "--viewport-height", "400",
		htmlPath, cssPath)
	require.NoError(t, err)
	assert.Contains(t, out, "flex", "narrow viewport activates the media rule")

	out, err = execute(t, "", "inspect", htmlPath, cssPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "flex", "default viewport leaves the media rule inactive")
}
