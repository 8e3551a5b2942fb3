package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/untillpro/goutils/logger"
)

// duplicate_table, duplicate_object
var duplicateCodes = map[string]bool{"42P07": true, "42710": true}

// ApplyDDL выполняет операторы по порядку. Уже существующие объекты пропускаются.
func ApplyDDL(ctx context.Context, db *sql.DB, ddl []string) error {
	for _, sqlText := range ddl {
		sqlText = strings.TrimSpace(sqlText)
		if sqlText == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, sqlText); err != nil {
			// pgx/stdlib возвращает *pgconn.PgError
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && duplicateCodes[pgErr.Code] {
				logger.Info("DDL skipped (already exists):", strings.TrimSpace(pgErr.Message))
				continue
			}
			return fmt.Errorf("DDL apply failed: %w", err)
		}
	}
	return nil
}
