package api

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"verbena/internal/runtime"
)

// DispatchFunc: сгенерированный Dispatch.
type DispatchFunc func(db runtime.DB, req string, o io.StringWriter) error

// Site содержит реестр таблиц, диспетчер страниц и доступ к базе.
type Site struct {
	Tables   []*runtime.Table
	Pages    []string
	Dispatch DispatchFunc
	// DB выдаёт runtime.DB, привязанную к контексту запроса.
	DB func(ctx context.Context) runtime.DB

	mu      sync.Mutex
	entropy io.Reader
}

// NewSite собирает сайт из сгенерированных артефактов.
func NewSite(tables []*runtime.Table, pages []string, dispatch DispatchFunc, db func(ctx context.Context) runtime.DB) *Site {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Site{
		Tables:   tables,
		Pages:    pages,
		Dispatch: dispatch,
		DB:       db,
		entropy:  ulid.Monotonic(src, 0),
	}
}

func (s *Site) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}
