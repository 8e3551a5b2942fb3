package gen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"verbena/internal/dsl"
	"verbena/internal/runtime"
)

const shopSchema = `
table orders {
  field id { type = integer(0); generated; key; }
  field customer { ref = customers; }
  field total { type = decimal(2); }
}
table customers {
  field id { type = integer(0); generated; key; }
  field name { }
  field email { type = varchar(80); }
}
`

func compile(t *testing.T, src string) *dsl.Schema {
	t.Helper()
	s, err := dsl.Compile("schema.dsl", src)
	require.NoError(t, err)
	return s
}

func Test_GenerateSchema(t *testing.T) {
	require := require.New(t)
	arts, err := GenerateSchema(compile(t, shopSchema), SchemaOptions{Package: "shop", Source: "dsl/schema.dsl"})
	require.NoError(err)
	require.Len(arts, 2)
	require.Equal(SchemaDeclFile, arts[0].Name)
	require.Equal(SchemaDefFile, arts[1].Name)

	decl := string(arts[0].Data)
	require.True(strings.HasPrefix(decl, "// Code generated by compile-schema from schema.dsl. DO NOT EDIT."))
	require.Contains(decl, "package shop")
	require.Contains(decl, "Customers_id = iota")
	require.Contains(decl, "Orders_total")
	require.Contains(decl, "var CustomersTable runtime.Table")
	require.Contains(decl, "var Tables []*runtime.Table")
	require.Less(strings.Index(decl, "CustomersTable"), strings.Index(decl, "OrdersTable"))

	def := string(arts[1].Data)
	require.Contains(def, "func init()")
	require.Contains(def, `Ref: &CustomersTable`)
	require.Contains(def, `Name: "email", Type: runtime.Varchar, Size: 80`)
	// ссылка наследует тип и размер ключа
	require.Contains(def, `Name: "customer", Type: runtime.Integer, Size: 0`)
	require.Less(strings.Index(def, "CustomersTable = runtime.Table"), strings.Index(def, "OrdersTable = runtime.Table"))
}

func Test_GenerateSchemaDeterministic(t *testing.T) {
	require := require.New(t)
	a, err := GenerateSchema(compile(t, shopSchema), SchemaOptions{Package: "shop", Source: "schema.dsl"})
	require.NoError(err)
	b, err := GenerateSchema(compile(t, shopSchema), SchemaOptions{Package: "shop", Source: "schema.dsl"})
	require.NoError(err)
	require.Equal(a, b)
}

func Test_GenerateSchemaIdentClash(t *testing.T) {
	s := compile(t, "table a { field b_c { } }\ntable a_b { field c { } }")
	_, err := GenerateSchema(s, SchemaOptions{Package: "x", Source: "s.dsl"})
	require.ErrorContains(t, err, "A_b_c")
}

func Test_Descriptors(t *testing.T) {
	require := require.New(t)
	tables := Descriptors(compile(t, shopSchema))
	require.Len(tables, 2)
	require.Equal("customers", tables[0].Name)

	orders, ok := runtime.Find(tables, "orders")
	require.True(ok)
	customer, ok := orders.Field("customer")
	require.True(ok)
	require.Same(tables[0], customer.Ref)
	require.Equal(runtime.Integer, customer.Type)
	require.Len(orders.Keys(), 1)
}

func Test_WriteFiles(t *testing.T) {
	require := require.New(t)
	dir := filepath.Join(t.TempDir(), "out")
	arts := []Artifact{{Name: "a.go", Data: []byte("package a\n")}, {Name: "b.go", Data: []byte("package b\n")}}
	require.NoError(WriteFiles(dir, arts))

	b, err := os.ReadFile(filepath.Join(dir, "b.go"))
	require.NoError(err)
	require.Equal("package b\n", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(err)
	require.Len(entries, 2, "no temp files left behind")
}

func Test_ArtifactRejectsBrokenSource(t *testing.T) {
	var g Generator
	g.Emit("package x\nfunc {\n")
	_, err := g.Artifact("x.go")
	require.ErrorContains(t, err, "format x.go")
}
