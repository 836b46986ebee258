package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"meetctx/internal/models"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadPagesCSV(t *testing.T) {
	path := write(t, "pages.csv", "file,URL\nmeet.html,https://meet.google.com/abc-defg-hij\n,https://x.zoom.us/wc/1\n,\n")

	refs, err := ReadPages(path)
	require.NoError(t, err)
	require.Equal(t, []models.PageRef{
		{URL: "https://meet.google.com/abc-defg-hij", File: "meet.html"},
		{URL: "https://x.zoom.us/wc/1"},
	}, refs)
}

func TestReadPagesCSVWithoutURLColumn(t *testing.T) {
	_, err := ReadPages(write(t, "pages.csv", "link\nhttps://x\n"))
	require.ErrorContains(t, err, "'url' header")
}

func TestReadPagesNDJSON(t *testing.T) {
	path := write(t, "pages.ndjson", `{"url":"https://meet.google.com/a","file":"a.html"}
https://x.zoom.us/wc/2

`)
	refs, err := ReadPages(path)
	require.NoError(t, err)
	require.Equal(t, []models.PageRef{
		{URL: "https://meet.google.com/a", File: "a.html"},
		{URL: "https://x.zoom.us/wc/2"},
	}, refs)
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteNDJSON(&buf, []models.PageResult{{URL: "u1", Error: "boom"}, {URL: "u2"}})
	require.NoError(t, err)
	require.Equal(t, "{\"url\":\"u1\",\"error\":\"boom\"}\n{\"url\":\"u2\"}\n", buf.String())
}
