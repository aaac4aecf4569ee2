package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestFlatFile_ReturnsContents(t *testing.T) {
	t.Parallel()

	for _, contents := range []string{
		"Hello world!\n",
		"single line",
		"multi\r\nline\r\nwith CRLF",
		"unicode ✓ ünïcödé",
		"<not>really xml</not>",
	} {
		path := writeFile(t, "log.txt", contents)

		body, err := NewFlatFile(path).MessageBody(context.Background())
		require.NoError(t, err)
		assert.Equal(t, contents, body)
	}
}

func TestFlatFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := NewFlatFile(filepath.Join(t.TempDir(), "absent.txt")).MessageBody(context.Background())
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestFlatFile_Directory(t *testing.T) {
	t.Parallel()

	_, err := NewFlatFile(t.TempDir()).MessageBody(context.Background())
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestXMLFile_ReturnsContentsVerbatim(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "log.xml", "<a>b</a>")

	body, err := NewXMLFile(path).MessageBody(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<a>b</a>", body)
}

func TestXMLFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := NewXMLFile(filepath.Join(t.TempDir(), "absent.xml")).MessageBody(context.Background())
	require.ErrorIs(t, err, ErrFileNotFound)
}
