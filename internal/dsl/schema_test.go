package dsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"verbena/internal/lex"
)

const shopSchema = `
// forward reference: orders before customers
table orders {
  field id { type = integer(0); generated; key; }
  field customer { ref = customers; }
  field total { type = decimal(2); }
}
table customers {
  field id { type = integer(0); generated; key; }
  field name { }
}
`

func tableNames(s *Schema) []string {
	var out []string
	for _, t := range s.Sorted() {
		out = append(out, t.Name)
	}
	return out
}

func Test_ParseSchema(t *testing.T) {
	require := require.New(t)
	s, err := ParseSchema("shop.dsl", shopSchema)
	require.NoError(err)
	require.Len(s.Tables, 2)
	require.Len(s.Fields, 5)

	orders := s.Table(0)
	require.Equal("orders", orders.Name)
	require.Equal(3, orders.Pos.Line)

	fields := s.TableFields(orders)
	require.Equal("id", fields[0].Name)
	require.Equal(Integer, fields[0].Type)
	require.True(fields[0].Generated)
	require.True(fields[0].Key)
	require.True(fields[0].TypeSet)

	require.Equal("customers", fields[1].RefName)
	require.Equal(NoTable, fields[1].Ref, "references are bound by Resolve")

	require.Equal(Decimal, fields[2].Type)
	require.Equal(2, fields[2].Size)
	require.Equal(2, s.FieldIndex(orders, "total"))
	require.Equal(-1, s.FieldIndex(orders, "missing"))
}

func Test_FieldDefaults(t *testing.T) {
	require := require.New(t)
	s, err := Compile("", "table t { field name { } }")
	require.NoError(err)
	f := s.Field(0)
	require.Equal(Varchar, f.Type)
	require.Equal(0, f.Size)
	require.False(f.Generated)
	require.False(f.Key)
	require.False(f.TypeSet)
}

func Test_DuplicateTypeOverwrites(t *testing.T) {
	s, err := Compile("", "table t { field a { type = char(2); type = date; } }")
	require.NoError(t, err)
	require.Equal(t, Date, s.Field(0).Type)
	require.Equal(t, 0, s.Field(0).Size)
}

func Test_SchemaErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind lex.ErrorKind
		line int
		msg  string
	}{
		{"unknown attribute", "table t {\n field a { nullable; }\n}", lex.Syntax, 2, "'nullable': expected attribute"},
		{"missing semicolon", "table t { field a { key } }", lex.Syntax, 1, "expected ';'"},
		{"no fields", "table t { }", lex.Syntax, 1, "expected 'field'"},
		{"not a table", "tables t { }", lex.Syntax, 1, "expected 'table'"},
		{"bad size", "table t { field a { type = char(x); } }", lex.Syntax, 1, "expected non-negative size"},
		{"unknown type", "table t { field a { type = blob; } }", lex.Semantic, 1, `unknown type "blob"`},
		{"duplicate table", "table t { field a { } }\ntable t { field b { } }", lex.Semantic, 2, `duplicate table "t"`},
		{"duplicate field", "table t {\n field a { }\n field a { }\n}", lex.Semantic, 3, `duplicate field "a"`},
		{"unclosed comment", "table t { field a { } }\n/* ...", lex.Lexical, 2, "unclosed block comment"},
		{"eof in table", "table t { field a { }", lex.Syntax, 1, "end of input"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require := require.New(t)
			_, err := Compile("bad.dsl", c.src)
			require.Error(err)
			require.Equal(c.kind, lex.KindOf(err), err.Error())
			var e *lex.Error
			require.ErrorAs(err, &e)
			require.Equal(c.line, e.Pos.Line)
			require.Equal("bad.dsl", e.Pos.Filename)
			require.Contains(err.Error(), c.msg)
		})
	}
}

func Test_LoadSchema(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "schema.dsl")
	require.NoError(os.WriteFile(path, []byte(shopSchema), 0o644))

	s, err := LoadSchema(path)
	require.NoError(err)
	require.Equal([]string{"customers", "orders"}, tableNames(s))

	_, err = LoadSchema(filepath.Join(t.TempDir(), "nope.dsl"))
	require.ErrorContains(err, "read schema")
}
