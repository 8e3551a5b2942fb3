package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"verbena/internal/cli"
)

const schemaSrc = `
table orders {
  field id { type = integer(0); generated; key; }
  field customer { ref = customers; }
}
table customers {
  field id { type = integer(0); generated; key; }
  field name { }
}
`

func Test_CompileSchema(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "schema.dsl")
	require.NoError(os.WriteFile(src, []byte(schemaSrc), 0o644))
	out := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := cli.Run(newCmd(), []string{"--config", filepath.Join(dir, "none.json"), "--out-dir", out, "--package", "shop", "--sql", src}, &stdout, &stderr)
	require.Equal(0, code, stderr.String())

	for _, name := range []string{"schema_decl.go", "schema_def.go", "schema.sql"} {
		require.FileExists(filepath.Join(out, name))
	}
	def, err := os.ReadFile(filepath.Join(out, "schema_def.go"))
	require.NoError(err)
	require.Contains(string(def), "package shop")

	sql, err := os.ReadFile(filepath.Join(out, "schema.sql"))
	require.NoError(err)
	require.Less(bytes.Index(sql, []byte(`"customers"`)), bytes.Index(sql, []byte(`"orders"`)))
}

func Test_CompileSchemaUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli.Run(newCmd(), []string{}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stdout.String(), "compile-schema [flags] schema-file")
}

func Test_CompileSchemaErrorWritesNothing(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "schema.dsl")
	require.NoError(os.WriteFile(src, []byte("table a { field b { ref = a; } field c { ref = nope; } }"), 0o644))
	out := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := cli.Run(newCmd(), []string{"--config", filepath.Join(dir, "none.json"), "--out-dir", out, src}, &stdout, &stderr)
	require.Equal(1, code)
	require.Contains(stderr.String(), "semantic error")
	require.NoDirExists(out)
}
