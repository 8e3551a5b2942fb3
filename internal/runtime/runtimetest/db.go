// Package runtimetest: подставная runtime.DB для тестов страниц.
package runtimetest

import (
	"fmt"

	"verbena/internal/runtime"
)

// DB отвечает на запросы заранее заданными строками. Неизвестный запрос: ошибка.
type DB struct {
	Rows    map[string][][]string
	Queries []string
}

func (d *DB) Prep(query string) (runtime.Stmt, error) {
	d.Queries = append(d.Queries, query)
	rows, ok := d.Rows[query]
	if !ok {
		return nil, fmt.Errorf("unexpected query %q", query)
	}
	return &stmt{rows: rows, at: -1}, nil
}

type stmt struct {
	rows [][]string
	at   int
}

func (s *stmt) Step() bool {
	if s.at+1 >= len(s.rows) {
		return false
	}
	s.at++
	return true
}

func (s *stmt) Get(i int) string {
	if s.at < 0 || i >= len(s.rows[s.at]) {
		return ""
	}
	return s.rows[s.at][i]
}

func (s *stmt) Err() error   { return nil }
func (s *stmt) Close() error { return nil }
