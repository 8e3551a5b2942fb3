//go:build integration

package pg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"verbena/internal/runtime"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("verbena"),
		postgres.WithUsername("verbena"),
		postgres.WithPassword("verbena"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return url
}

func Test_MigrateAndRender(t *testing.T) {
	require := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := Open(ctx, startPostgres(t))
	require.NoError(err)
	defer db.Close()

	tables := shopTables()
	// старая версия схемы: orders без части колонок
	old := &runtime.Table{Name: "orders", Fields: tables[1].Fields[:2]}
	_, err = Migrate(ctx, db, []*runtime.Table{tables[0], old})
	require.NoError(err)

	plan, err := Migrate(ctx, db, tables)
	require.NoError(err)
	require.Empty(plan.CreateTables)
	require.Len(plan.AddColumns, 2)

	plan, err = Migrate(ctx, db, tables)
	require.NoError(err)
	require.True(plan.Empty())

	// повторный DDL не падает
	ddl, err := GenerateDDL(tables)
	require.NoError(err)
	require.NoError(ApplyDDL(ctx, db, ddl))

	_, err = db.ExecContext(ctx, `insert into customers(name, email) values ('Ann', 'ann@example.com'), ('Bob', null)`)
	require.NoError(err)

	rdb, err := runtime.NewSQLDB(db, 2)
	require.NoError(err)
	defer rdb.Close()

	st, err := rdb.WithContext(ctx).Prep("SELECT name,email FROM customers ORDER BY id")
	require.NoError(err)
	var got [][]string
	for st.Step() {
		got = append(got, []string{st.Get(0), st.Get(1)})
	}
	require.NoError(runtime.Finish(st))
	require.Equal([][]string{{"Ann", "ann@example.com"}, {"Bob", ""}}, got)
}
