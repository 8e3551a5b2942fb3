package dsl

import (
	"fmt"
	"os"
	"strconv"

	"verbena/internal/lex"
)

// schemaParser: рекурсивный спуск по DSL схемы, один токен предпросмотра.
type schemaParser struct {
	lx     *lex.Lexer
	schema *Schema
}

// ParseSchema разбирает текст схемы. Ссылки остаются неразрешёнными (Ref == NoTable).
func ParseSchema(filename, src string) (*Schema, error) {
	lx, err := lex.New(filename, src)
	if err != nil {
		return nil, err
	}
	p := &schemaParser{lx: lx, schema: &Schema{byName: map[string]TableID{}}}
	for p.lx.Tok.Kind != lex.EOF {
		if err := p.table(); err != nil {
			return nil, err
		}
	}
	return p.schema, nil
}

// table := "table" ident "{" field+ "}"
func (p *schemaParser) table() error {
	if err := p.lx.ExpectWord("table"); err != nil {
		return err
	}
	name, err := p.lx.Word()
	if err != nil {
		return err
	}
	s := p.schema
	if prev, dup := s.byName[name.Text]; dup {
		return lex.Errorf(lex.Semantic, name.Pos, "duplicate table %q (first declared at %s)", name.Text, s.Tables[prev].Pos)
	}
	id := TableID(len(s.Tables))
	s.Tables = append(s.Tables, Table{Name: name.Text, Pos: name.Pos})
	s.byName[name.Text] = id

	if err := p.lx.Expect("{"); err != nil {
		return err
	}
	for {
		if err := p.field(id); err != nil {
			return err
		}
		done, err := p.lx.Eat("}")
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// field := "field" ident "{" attr* "}"
func (p *schemaParser) field(table TableID) error {
	if err := p.lx.ExpectWord("field"); err != nil {
		return err
	}
	name, err := p.lx.Word()
	if err != nil {
		return err
	}
	s := p.schema
	t := &s.Tables[table]
	for _, fid := range t.Fields {
		if s.Fields[fid].Name == name.Text {
			return lex.Errorf(lex.Semantic, name.Pos, "duplicate field %q in table %s", name.Text, t.Name)
		}
	}
	f := Field{
		Name:  name.Text,
		Pos:   name.Pos,
		Table: table,
		Type:  Varchar,
		Ref:   NoTable,
	}
	if err := p.lx.Expect("{"); err != nil {
		return err
	}
	for {
		done, err := p.lx.Eat("}")
		if err != nil {
			return err
		}
		if done {
			break
		}
		if err := p.attr(&f); err != nil {
			return err
		}
	}
	t.Fields = append(t.Fields, FieldID(len(s.Fields)))
	s.Fields = append(s.Fields, f)
	return nil
}

// attr := "type" "=" ident ["(" atom ")"] ";" | "ref" "=" ident ";" | "generated" ";" | "key" ";"
func (p *schemaParser) attr(f *Field) error {
	lx := p.lx
	tok := lx.Tok
	if tok.Kind != lex.Word {
		return lx.Errorf("expected attribute")
	}
	switch tok.Text {
	case "type":
		if err := lx.Next(); err != nil {
			return err
		}
		if err := lx.Expect("="); err != nil {
			return err
		}
		tname, err := lx.Word()
		if err != nil {
			return err
		}
		typ, ok := ParseType(tname.Text)
		if !ok {
			return lex.Errorf(lex.Semantic, tname.Pos, "unknown type %q", tname.Text)
		}
		f.Type, f.TypeSet, f.Size = typ, true, 0
		open, err := lx.Eat("(")
		if err != nil {
			return err
		}
		if open {
			size, err := lx.Atom()
			if err != nil {
				return err
			}
			n, convErr := strconv.Atoi(size.Text)
			if convErr != nil || n < 0 {
				return lex.Errorf(lex.Syntax, size.Pos, "'%s': expected non-negative size", size.Text)
			}
			f.Size = n
			if err := lx.Expect(")"); err != nil {
				return err
			}
		}
	case "ref":
		if err := lx.Next(); err != nil {
			return err
		}
		if err := lx.Expect("="); err != nil {
			return err
		}
		target, err := lx.Word()
		if err != nil {
			return err
		}
		f.RefName, f.RefPos = target.Text, target.Pos
	case "generated":
		f.Generated = true
		if err := lx.Next(); err != nil {
			return err
		}
	case "key":
		f.Key = true
		if err := lx.Next(); err != nil {
			return err
		}
	default:
		return lx.Errorf("expected attribute")
	}
	return lx.Expect(";")
}

// Compile: разбор, разрешение ссылок, топологическая сортировка, наследование типов.
func Compile(filename, src string) (*Schema, error) {
	s, err := ParseSchema(filename, src)
	if err != nil {
		return nil, err
	}
	if err := s.Resolve(); err != nil {
		return nil, err
	}
	if err := s.Sort(); err != nil {
		return nil, err
	}
	s.Inherit()
	return s, nil
}

// LoadSchema читает файл схемы целиком и компилирует его.
func LoadSchema(path string) (*Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Compile(path, string(b))
}
