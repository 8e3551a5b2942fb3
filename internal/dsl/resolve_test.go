package dsl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verbena/internal/lex"
)

func Test_ForwardReference(t *testing.T) {
	require := require.New(t)
	s, err := Compile("shop.dsl", shopSchema)
	require.NoError(err)
	require.Equal([]string{"customers", "orders"}, tableNames(s))

	orders, ok := s.Lookup("orders")
	require.True(ok)
	customers, _ := s.Lookup("customers")
	require.Equal([]TableID{customers}, s.Table(orders).Deps)

	ref := s.TableFields(s.Table(orders))[1]
	require.Equal(customers, ref.Ref)
}

func Test_TypeInheritance(t *testing.T) {
	require := require.New(t)
	// цепочка: lines -> orders -> regions; ключ orders сам ссылается на regions
	s, err := Compile("", `
table lines { field order { ref = orders; } field qty { type = smallint; } }
table orders { field region { ref = regions; key; } }
table regions { field code { type = char(2); key; } }
`)
	require.NoError(err)
	require.Equal([]string{"regions", "orders", "lines"}, tableNames(s))

	lines, _ := s.Lookup("lines")
	order := s.TableFields(s.Table(lines))[0]
	require.Equal(Char, order.Type)
	require.Equal(2, order.Size)

	orders, _ := s.Lookup("orders")
	region := s.TableFields(s.Table(orders))[0]
	require.Equal(Char, region.Type)
	require.Equal(2, region.Size)
}

func Test_ReferenceOverridesDeclaredType(t *testing.T) {
	s, err := Compile("", `
table a { field id { type = bigint; key; } }
table b { field a { type = date; ref = a; } }
`)
	require.NoError(t, err)
	f := s.Field(1)
	require.Equal(t, Bigint, f.Type)
	require.Equal(t, 0, f.Size)
}

func Test_DiamondEmitsOnce(t *testing.T) {
	require := require.New(t)
	s, err := Compile("", `
table top { field l { ref = left; } field r { ref = right; } }
table left { field b { ref = base; } }
table right { field b { ref = base; } field b2 { ref = base; } }
table base { field id { type = integer; key; } }
`)
	require.NoError(err)
	require.Equal([]string{"base", "left", "right", "top"}, tableNames(s))

	right, _ := s.Lookup("right")
	require.Len(s.Table(right).Deps, 1, "duplicate edges are collapsed")
}

func Test_TopologicalInvariant(t *testing.T) {
	require := require.New(t)
	s, err := Compile("", `
table e { field d { ref = d; } field a { ref = a; } }
table d { field c { ref = c; } }
table c { field b { ref = b; } field a { ref = a; } }
table b { field a { ref = a; } }
table a { field id { key; } }
table f { field id { key; } }
`)
	require.NoError(err)
	pos := map[TableID]int{}
	for i, id := range s.Order {
		pos[id] = i
	}
	require.Len(pos, len(s.Tables))
	for id, t := range s.Tables {
		for _, dep := range t.Deps {
			require.Less(pos[dep], pos[TableID(id)], "%s must follow %s", t.Name, s.Tables[dep].Name)
		}
	}
}

func Test_SelfReference(t *testing.T) {
	require := require.New(t)
	s, err := Compile("", `
table employees {
  field id { type = integer; key; }
  field manager { ref = employees; }
}`)
	require.NoError(err)
	require.Equal([]string{"employees"}, tableNames(s))
	require.Empty(s.Table(0).Deps)
	require.Equal(Integer, s.Field(1).Type)
}

func Test_DanglingReference(t *testing.T) {
	require := require.New(t)
	_, err := Compile("shop.dsl", "table orders {\n  field customer {\n    ref = customer;\n  }\n}")
	require.Error(err)
	require.Equal(lex.Semantic, lex.KindOf(err))
	var e *lex.Error
	require.ErrorAs(err, &e)
	require.Equal(3, e.Pos.Line)
	require.Contains(err.Error(), `unknown table "customer" referenced by field orders.customer`)
}

func Test_Cycle(t *testing.T) {
	require := require.New(t)
	_, err := Compile("cyc.dsl", `
table a { field b { ref = b; } }
table b { field c { ref = c; } }
table c { field a { ref = a; } }
`)
	require.Error(err)
	require.Equal(lex.Semantic, lex.KindOf(err))
	require.Contains(err.Error(), "cyclic schema: a -> b -> c -> a")
	var e *lex.Error
	require.ErrorAs(err, &e)
	require.Equal(4, e.Pos.Line, "points at the reference closing the cycle")
}

func Test_Lint(t *testing.T) {
	require := require.New(t)
	s, err := Compile("", `
table a { field name { } field id { key; } }
table b { field id { key; } field a { type = integer; ref = a; } }
`)
	require.NoError(err)
	issues := s.Lint()
	codes := map[string]string{}
	for _, is := range issues {
		codes[is.Code] = is.Table + "." + is.Field
	}
	require.Equal(map[string]string{
		IssueRefTypeIgnored:  "b.a",
		IssueRefTargetNotKey: "b.a",
	}, codes)

	s, err = Compile("", "table k { field x { } }")
	require.NoError(err)
	issues = s.Lint()
	require.Len(issues, 1)
	require.Equal(IssueNoKey, issues[0].Code)
}
