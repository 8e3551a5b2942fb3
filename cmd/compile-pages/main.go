package main

import (
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"verbena/internal/cli"
	"verbena/internal/config"
	"verbena/internal/dsl"
	"verbena/internal/gen"
	"verbena/internal/reference"
)

func main() {
	os.Exit(cli.Run(newCmd(), os.Args[1:], os.Stdout, os.Stderr))
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile-pages [flags] schema-file page-file...",
		Short: "Compile page DSL files into Go render functions and a dispatcher",
		Args:  cli.MinArgs(2),
	}
	flags := config.Bind(cmd, "out-dir", "package", "log-level", "tags")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.Resolve()
		if err != nil {
			return err
		}
		if err := cli.SetLogLevel(cfg.LogLevel); err != nil {
			return err
		}
		art, err := compilePages(args[0], args[1:], cfg.TagsFile, cfg.Package)
		if err != nil {
			return err
		}
		return gen.WriteFiles(cfg.OutDir, []gen.Artifact{art})
	}
	return cmd
}

func compilePages(schemaPath string, pagePaths []string, tagsPath, pkg string) (gen.Artifact, error) {
	tags, err := reference.LoadTags(tagsPath)
	if err != nil {
		return gen.Artifact{}, err
	}
	s, err := dsl.LoadSchema(schemaPath)
	if err != nil {
		return gen.Artifact{}, err
	}
	pages := make([]*dsl.Page, 0, len(pagePaths))
	for _, path := range pagePaths {
		p, err := dsl.LoadPage(path, tags)
		if err != nil {
			return gen.Artifact{}, err
		}
		if logger.IsVerbose() {
			logger.Verbose(path + ":\n" + spew.Sdump(p.Elements))
		}
		pages = append(pages, p)
	}
	return gen.GeneratePages(pages, gen.PagesOptions{Package: pkg, Schema: s})
}
