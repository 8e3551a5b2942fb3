package pg

import (
	"fmt"
	"strings"

	"github.com/untillpro/goutils/logger"

	"verbena/internal/runtime"
)

// reserved: слова, которые нельзя писать в запросе без кавычек
var reserved = map[string]struct{}{
	"user": {}, "select": {}, "table": {}, "insert": {}, "update": {}, "delete": {},
	"where": {}, "join": {}, "group": {}, "order": {}, "limit": {}, "offset": {},
	"primary": {}, "foreign": {}, "key": {}, "constraint": {}, "default": {},
	"from": {}, "into": {}, "values": {}, "unique": {}, "index": {}, "create": {},
	"drop": {}, "alter": {}, "schema": {}, "grant": {}, "revoke": {},
}

// IsReserved: имя совпадает с зарезервированным словом SQL (без учёта регистра).
func IsReserved(s string) bool { _, ok := reserved[strings.ToLower(s)]; return ok }

func sqlIdent(s string) string { return `"` + strings.ToLower(s) + `"` }

// mapType: при size 0 модификатора нет; для decimal size означает число знаков после запятой.
func mapType(f runtime.Field) (string, error) {
	switch f.Type {
	case runtime.Varchar:
		if f.Size > 0 {
			return fmt.Sprintf("varchar(%d)", f.Size), nil
		}
		return "varchar", nil
	case runtime.Char:
		if f.Size > 0 {
			return fmt.Sprintf("char(%d)", f.Size), nil
		}
		return "char", nil
	case runtime.Text:
		return "text", nil
	case runtime.Integer:
		return "integer", nil
	case runtime.Smallint:
		return "smallint", nil
	case runtime.Bigint:
		return "bigint", nil
	case runtime.Date:
		return "date", nil
	case runtime.Decimal:
		return fmt.Sprintf("numeric(18,%d)", f.Size), nil
	default:
		return "", fmt.Errorf("unknown type: %s", f.Type)
	}
}

// column: определение колонки для CREATE TABLE и ALTER TABLE ADD COLUMN.
func column(t *runtime.Table, f runtime.Field) (string, error) {
	typ, err := mapType(f)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", t.Name, f.Name, err)
	}
	def := sqlIdent(f.Name) + " " + typ
	if f.Generated {
		switch f.Type {
		case runtime.Integer, runtime.Smallint, runtime.Bigint:
			def += " generated by default as identity"
		default:
			logger.Warning(fmt.Sprintf("%s.%s: generated %s column gets no identity", t.Name, f.Name, f.Type))
		}
	}
	// внешний ключ только на одиночный первичный ключ
	if f.Ref != nil {
		if keys := f.Ref.Keys(); len(keys) == 1 {
			def += fmt.Sprintf(" references %s(%s)", sqlIdent(f.Ref.Name), sqlIdent(keys[0].Name))
		}
	}
	return def, nil
}

// CreateTable: DDL одной таблицы.
func CreateTable(t *runtime.Table) (string, error) {
	var cols []string
	for _, f := range t.Fields {
		c, err := column(t, f)
		if err != nil {
			return "", err
		}
		cols = append(cols, c)
	}
	if keys := t.Keys(); len(keys) > 0 {
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, sqlIdent(k.Name))
		}
		cols = append(cols, "primary key ("+strings.Join(names, ", ")+")")
	}
	return fmt.Sprintf("create table if not exists %s (\n  %s\n);", sqlIdent(t.Name), strings.Join(cols, ",\n  ")), nil
}

// GenerateDDL возвращает CREATE TABLE для каждой таблицы реестра в его порядке.
// Реестр отсортирован топологически, поэтому references всегда указывают на уже созданные таблицы.
func GenerateDDL(tables []*runtime.Table) ([]string, error) {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		stmt, err := CreateTable(t)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}
