package gen

import (
	"fmt"
	"strconv"

	"verbena/internal/dsl"
	"verbena/internal/runtime"
)

const (
	SchemaDeclFile = "schema_decl.go"
	SchemaDefFile  = "schema_def.go"

	schemaTool = "compile-schema"
)

var runtimeTypes = map[dsl.Type]runtime.Type{
	dsl.Varchar:  runtime.Varchar,
	dsl.Text:     runtime.Text,
	dsl.Char:     runtime.Char,
	dsl.Integer:  runtime.Integer,
	dsl.Smallint: runtime.Smallint,
	dsl.Bigint:   runtime.Bigint,
	dsl.Date:     runtime.Date,
	dsl.Decimal:  runtime.Decimal,
}

// RuntimeType переводит тип DSL в тег типа рантайма.
func RuntimeType(t dsl.Type) runtime.Type {
	return runtimeTypes[t]
}

// typeIdent: выражение Go для тега типа, например "runtime.Integer".
func typeIdent(t dsl.Type) string {
	return "runtime." + Exported(RuntimeType(t).String())
}

// TableVar: имя переменной дескриптора таблицы.
func TableVar(table string) string {
	return Exported(table) + "Table"
}

// ColumnConst: имя константы индекса колонки.
func ColumnConst(table, field string) string {
	return Exported(table) + "_" + field
}

// SchemaOptions: параметры генерации схемы.
type SchemaOptions struct {
	Package string
	Source  string // имя исходного файла для шапки
}

// GenerateSchema строит оба артефакта схемы: объявления и определения.
// Таблицы идут в топологическом порядке, поэтому вывод детерминирован.
func GenerateSchema(s *dsl.Schema, opts SchemaOptions) ([]Artifact, error) {
	if err := checkIdents(s); err != nil {
		return nil, err
	}

	var decl Generator
	decl.Header(schemaTool, opts.Source, opts.Package)
	decl.Imports(RuntimeImport)
	for _, t := range s.Sorted() {
		decl.Emitf("// %s\n", t.Name)
		decl.Emit("const (\n")
		for i, f := range s.TableFields(t) {
			if i == 0 {
				decl.Emitf("%s = iota\n", ColumnConst(t.Name, f.Name))
				continue
			}
			decl.Emitf("%s\n", ColumnConst(t.Name, f.Name))
		}
		decl.Emit(")\n\n")
		decl.Emitf("var %s runtime.Table\n\n", TableVar(t.Name))
	}
	decl.Emit("// Tables: реестр всех таблиц в порядке создания.\n")
	decl.Emit("var Tables []*runtime.Table\n")

	var def Generator
	def.Header(schemaTool, opts.Source, opts.Package)
	def.Imports(RuntimeImport)
	def.Emit("func init() {\n")
	for _, t := range s.Sorted() {
		def.Emitf("%s = runtime.Table{\n", TableVar(t.Name))
		def.Emitf("Name: %s,\n", strconv.Quote(t.Name))
		def.Emit("Fields: []runtime.Field{\n")
		for _, f := range s.TableFields(t) {
			def.Emitf("{Name: %s, Type: %s, Size: %d", strconv.Quote(f.Name), typeIdent(f.Type), f.Size)
			def.Emitf(", Generated: %t, Key: %t", f.Generated, f.Key)
			if f.Ref != dsl.NoTable {
				def.Emitf(", Ref: &%s", TableVar(s.Table(f.Ref).Name))
			}
			def.Emit("},\n")
		}
		def.Emit("},\n")
		def.Emit("}\n")
	}
	def.Emit("Tables = []*runtime.Table{\n")
	for _, t := range s.Sorted() {
		def.Emitf("&%s,\n", TableVar(t.Name))
	}
	def.Emit("}\n")
	def.Emit("}\n")

	declArt, err := decl.Artifact(SchemaDeclFile)
	if err != nil {
		return nil, err
	}
	defArt, err := def.Artifact(SchemaDefFile)
	if err != nil {
		return nil, err
	}
	return []Artifact{declArt, defArt}, nil
}

// checkIdents: имена таблиц и колонок должны давать разные идентификаторы Go.
func checkIdents(s *dsl.Schema) error {
	seen := map[string]string{"Tables": "the table registry"}
	claim := func(ident, what string) error {
		if !isGoIdent(ident) {
			return fmt.Errorf("%s: %q is not a valid Go identifier", what, ident)
		}
		if prev, ok := seen[ident]; ok {
			return fmt.Errorf("%s and %s both generate identifier %s", prev, what, ident)
		}
		seen[ident] = what
		return nil
	}
	for _, t := range s.Sorted() {
		if err := claim(TableVar(t.Name), "table "+t.Name); err != nil {
			return err
		}
		for _, f := range s.TableFields(t) {
			if err := claim(ColumnConst(t.Name, f.Name), "field "+t.Name+"."+f.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Descriptors строит в памяти тот же реестр, что описывают артефакты схемы.
func Descriptors(s *dsl.Schema) []*runtime.Table {
	byID := make(map[dsl.TableID]*runtime.Table, len(s.Order))
	out := make([]*runtime.Table, 0, len(s.Order))
	for _, id := range s.Order {
		t := &runtime.Table{Name: s.Table(id).Name}
		byID[id] = t
		out = append(out, t)
	}
	for _, id := range s.Order {
		t := byID[id]
		for _, f := range s.TableFields(s.Table(id)) {
			rf := runtime.Field{
				Name:      f.Name,
				Type:      RuntimeType(f.Type),
				Size:      f.Size,
				Generated: f.Generated,
				Key:       f.Key,
			}
			if f.Ref != dsl.NoTable {
				rf.Ref = byID[f.Ref]
			}
			t.Fields = append(t.Fields, rf)
		}
	}
	return out
}
