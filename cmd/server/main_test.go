package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"verbena/internal/cli"
)

func Test_ServerRequiresDB(t *testing.T) {
	t.Setenv("VERBENA_DB_URL", "")
	var stdout, stderr bytes.Buffer
	code := cli.Run(newCmd(), []string{"--config", filepath.Join(t.TempDir(), "none.json")}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "database URL is required")
}

func Test_ServerRejectsArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli.Run(newCmd(), []string{"extra"}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "unknown command")
}
