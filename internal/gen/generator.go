// Package gen превращает разобранные схему и страницы в исходники на Go.
package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/untillpro/goutils/logger"
	"golang.org/x/tools/imports"
)

// RuntimeImport: путь пакета, на который опирается сгенерированный код.
const RuntimeImport = "verbena/internal/runtime"

// Artifact: один сгенерированный файл.
type Artifact struct {
	Name string
	Data []byte
}

// Generator накапливает текст файла в памяти; на диск ничего не пишет.
type Generator struct {
	buf bytes.Buffer
}

func (g *Generator) Emit(s string) {
	g.buf.WriteString(s)
}

func (g *Generator) Emitf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

// Header: шапка сгенерированного файла и объявление пакета.
func (g *Generator) Header(tool, source, pkg string) {
	g.Emitf("// Code generated by %s from %s. DO NOT EDIT.\n\n", tool, filepath.Base(source))
	g.Emitf("package %s\n\n", pkg)
}

// Imports печатает блок import в заданном порядке; пустая строка разделяет группы.
func (g *Generator) Imports(paths ...string) {
	if len(paths) == 0 {
		return
	}
	g.Emit("import (\n")
	for _, p := range paths {
		if p == "" {
			g.Emit("\n")
			continue
		}
		g.Emitf("\t%q\n", p)
	}
	g.Emit(")\n\n")
}

// Artifact форматирует накопленный текст как gofmt и возвращает файл.
// Импорты не добавляются и не удаляются: результат не зависит от окружения.
func (g *Generator) Artifact(name string) (Artifact, error) {
	src, err := imports.Process(name, g.buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("format %s: %w", name, err)
	}
	return Artifact{Name: name, Data: src}, nil
}

// WriteFiles пишет все артефакты в dir. Сначала всё пишется во временные файлы,
// затем переименовывается: при ошибке частичных артефактов не остаётся.
func WriteFiles(dir string, arts []Artifact) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	temps := make([]string, 0, len(arts))
	defer func() {
		if err != nil {
			for _, t := range temps {
				_ = os.Remove(t)
			}
		}
	}()
	for _, a := range arts {
		f, err := os.CreateTemp(dir, "."+a.Name+".*.tmp")
		if err != nil {
			return err
		}
		temps = append(temps, f.Name())
		if _, err := f.Write(a.Data); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	for i, a := range arts {
		dst := filepath.Join(dir, a.Name)
		if err := os.Rename(temps[i], dst); err != nil {
			return err
		}
		if err := os.Chmod(dst, 0o644); err != nil {
			return err
		}
		logger.Info("wrote", dst)
	}
	return nil
}
