package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/untillpro/goutils/logger"

	"verbena/internal/runtime"
)

// Plan: что нужно добавить, чтобы база соответствовала реестру.
type Plan struct {
	CreateTables []string
	AddColumns   []string
}

func (p Plan) Empty() bool { return len(p.CreateTables) == 0 && len(p.AddColumns) == 0 }

func (p Plan) Statements() []string {
	return append(append([]string{}, p.CreateTables...), p.AddColumns...)
}

// Existing: колонки, которые уже есть в базе (таблица -> множество колонок).
type Existing map[string]map[string]bool

// Diff строит add-only план: недостающие таблицы создаются, недостающие колонки добавляются.
// Лишние таблицы и колонки не трогаем, типы не меняем.
func Diff(tables []*runtime.Table, have Existing) (Plan, error) {
	var p Plan
	for _, t := range tables {
		cols, ok := have[strings.ToLower(t.Name)]
		if !ok {
			stmt, err := CreateTable(t)
			if err != nil {
				return Plan{}, err
			}
			p.CreateTables = append(p.CreateTables, stmt)
			continue
		}
		for _, f := range t.Fields {
			if cols[strings.ToLower(f.Name)] {
				continue
			}
			c, err := column(t, f)
			if err != nil {
				return Plan{}, err
			}
			p.AddColumns = append(p.AddColumns, fmt.Sprintf("alter table %s add column if not exists %s;", sqlIdent(t.Name), c))
		}
	}
	return p, nil
}

// Introspect читает колонки таблиц текущей схемы.
func Introspect(ctx context.Context, db *sql.DB) (Existing, error) {
	rows, err := db.QueryContext(ctx, `select table_name, column_name
from information_schema.columns
where table_schema = current_schema()`)
	if err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	defer rows.Close()

	have := Existing{}
	for rows.Next() {
		var table, col string
		if err := rows.Scan(&table, &col); err != nil {
			return nil, err
		}
		if have[table] == nil {
			have[table] = map[string]bool{}
		}
		have[table][col] = true
	}
	return have, rows.Err()
}

// Migrate приводит базу к реестру (add-only) и возвращает выполненный план.
func Migrate(ctx context.Context, db *sql.DB, tables []*runtime.Table) (Plan, error) {
	have, err := Introspect(ctx, db)
	if err != nil {
		return Plan{}, err
	}
	plan, err := Diff(tables, have)
	if err != nil {
		return Plan{}, err
	}
	if plan.Empty() {
		logger.Info("schema is up to date")
		return plan, nil
	}
	logger.Info(fmt.Sprintf("migrate: %d table(s) to create, %d column(s) to add", len(plan.CreateTables), len(plan.AddColumns)))
	if err := ApplyDDL(ctx, db, plan.Statements()); err != nil {
		return Plan{}, err
	}
	return plan, nil
}
