package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_TableLookup(t *testing.T) {
	require := require.New(t)
	customers := Table{Name: "customers", Fields: []Field{
		{Name: "id", Type: Integer, Generated: true, Key: true},
		{Name: "name"},
	}}
	orders := Table{Name: "orders", Fields: []Field{
		{Name: "id", Type: Integer, Key: true},
		{Name: "line", Type: Smallint, Key: true},
		{Name: "customer", Type: Integer, Ref: &customers},
	}}
	tables := []*Table{&customers, &orders}

	require.Len(orders.Keys(), 2)
	f, ok := orders.Field("customer")
	require.True(ok)
	require.Same(&customers, f.Ref)
	_, ok = orders.Field("missing")
	require.False(ok)

	found, ok := Find(tables, "orders")
	require.True(ok)
	require.Same(&orders, found)
	_, ok = Find(tables, "nope")
	require.False(ok)

	require.Equal("varchar", customers.Fields[1].Type.String())
	require.Equal("smallint", Smallint.String())
}
