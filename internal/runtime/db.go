package runtime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/untillpro/goutils/logger"
)

// ErrNoPage возвращает Dispatch для неизвестного идентификатора запроса.
var ErrNoPage = errors.New("no such page")

// Stmt: курсор по результату запроса (Step, Get по позиции колонки).
type Stmt interface {
	Step() bool
	Get(i int) string
	Err() error
	Close() error
}

// DB: то, что нужно сгенерированным страницам от базы.
type DB interface {
	Prep(query string) (Stmt, error)
}

// PageFunc: сигнатура сгенерированной функции страницы.
type PageFunc func(db DB, o io.StringWriter) error

const DefaultStmtCacheSize = 64

// SQLDB реализует DB поверх database/sql. Подготовленные запросы кешируются (LRU),
// вытесненные закрываются.
type SQLDB struct {
	db    *sql.DB
	ctx   context.Context
	stmts *lru.Cache[string, *sql.Stmt]
}

// NewSQLDB оборачивает db; size <= 0: размер кеша по умолчанию.
func NewSQLDB(db *sql.DB, size int) (*SQLDB, error) {
	if size <= 0 {
		size = DefaultStmtCacheSize
	}
	cache, err := lru.NewWithEvict[string, *sql.Stmt](size, func(query string, st *sql.Stmt) {
		if err := st.Close(); err != nil {
			logger.Warning("close evicted statement:", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &SQLDB{db: db, ctx: context.Background(), stmts: cache}, nil
}

// WithContext возвращает копию, выполняющую запросы в ctx (кеш общий).
func (d *SQLDB) WithContext(ctx context.Context) *SQLDB {
	c := *d
	c.ctx = ctx
	return &c
}

// Prep выполняет запрос и возвращает курсор по строкам.
func (d *SQLDB) Prep(query string) (Stmt, error) {
	st, ok := d.stmts.Get(query)
	if !ok {
		prepared, err := d.db.PrepareContext(d.ctx, query)
		if err != nil {
			return nil, fmt.Errorf("prepare %q: %w", query, err)
		}
		st = addOrClose(d.stmts, query, prepared)
	}
	rows, err := st.QueryContext(d.ctx)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	return &sqlStmt{rows: rows, vals: make([]sql.NullString, len(cols))}, nil
}

// addOrClose кладёт v в кеш, если ключа там ещё нет. Иначе v закрывается
// и возвращается уже закешированное значение (параллельный промах по тому же запросу).
func addOrClose[V io.Closer](c *lru.Cache[string, V], key string, v V) V {
	prev, found, _ := c.PeekOrAdd(key, v)
	if !found {
		return v
	}
	if err := v.Close(); err != nil {
		logger.Warning("close duplicate statement:", err)
	}
	return prev
}

// Close закрывает все закешированные подготовленные запросы.
func (d *SQLDB) Close() {
	d.stmts.Purge()
}

type sqlStmt struct {
	rows *sql.Rows
	vals []sql.NullString
	err  error
}

func (s *sqlStmt) Step() bool {
	if s.err != nil || !s.rows.Next() {
		return false
	}
	dest := make([]any, len(s.vals))
	for i := range s.vals {
		dest[i] = &s.vals[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		s.err = err
		return false
	}
	return true
}

// Get: значение колонки i текущей строки; NULL даёт пустую строку.
func (s *sqlStmt) Get(i int) string {
	if i < 0 || i >= len(s.vals) {
		return ""
	}
	return s.vals[i].String
}

func (s *sqlStmt) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.rows.Err()
}

func (s *sqlStmt) Close() error {
	return s.rows.Close()
}

// Finish закрывает курсор и возвращает первую ошибку шага или закрытия.
func Finish(s Stmt) error {
	err := s.Err()
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}
