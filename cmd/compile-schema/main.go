package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"verbena/internal/cli"
	"verbena/internal/config"
	"verbena/internal/dsl"
	"verbena/internal/gen"
	"verbena/internal/pg"
)

const sqlFile = "schema.sql"

func main() {
	os.Exit(cli.Run(newCmd(), os.Args[1:], os.Stdout, os.Stderr))
}

func newCmd() *cobra.Command {
	var withSQL bool
	cmd := &cobra.Command{
		Use:   "compile-schema [flags] schema-file",
		Short: "Compile a schema DSL file into Go table descriptors",
		Args:  cli.MinArgs(1),
	}
	flags := config.Bind(cmd, "out-dir", "package", "log-level")
	cmd.Flags().BoolVar(&withSQL, "sql", false, "Also write "+sqlFile+" with CREATE TABLE statements")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.Resolve()
		if err != nil {
			return err
		}
		if err := cli.SetLogLevel(cfg.LogLevel); err != nil {
			return err
		}
		arts, err := compileSchema(args[0], cfg.Package, withSQL)
		if err != nil {
			return err
		}
		return gen.WriteFiles(cfg.OutDir, arts)
	}
	return cmd
}

// compileSchema: разбор, разрешение ссылок, сортировка и генерация в памяти.
func compileSchema(path, pkg string, withSQL bool) ([]gen.Artifact, error) {
	s, err := dsl.LoadSchema(path)
	if err != nil {
		return nil, err
	}
	for _, is := range s.Lint() {
		logger.Warning(fmt.Sprintf("%s: %s (%s)", path, is.Message, is.Code))
	}
	if logger.IsVerbose() {
		logger.Verbose("schema:\n" + spew.Sdump(s.Sorted()))
	}

	arts, err := gen.GenerateSchema(s, gen.SchemaOptions{Package: pkg, Source: path})
	if err != nil {
		return nil, err
	}
	if withSQL {
		ddl, err := pg.GenerateDDL(gen.Descriptors(s))
		if err != nil {
			return nil, err
		}
		arts = append(arts, gen.Artifact{Name: sqlFile, Data: []byte(strings.Join(ddl, "\n\n") + "\n")})
	}
	return arts, nil
}
