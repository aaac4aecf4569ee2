package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\n"), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSend_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello world!"), 0o600))

	out, err := execute(t, "file", path)
	require.NoError(t, err)
	assert.Equal(t, "Send Email With Body: Hello world!\n", out)
}

func TestSend_Database(t *testing.T) {
	out, err := execute(t, "database")
	require.NoError(t, err)
	assert.Equal(t, "Send Email With Body: Pretend this came from a database!\n", out)
}

func TestSend_MissingFile(t *testing.T) {
	_, err := execute(t, "file", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestStoreRedis_NotEnabled(t *testing.T) {
	_, err := execute(t, "store", "redis", "k", "v")
	require.Error(t, err)
}
