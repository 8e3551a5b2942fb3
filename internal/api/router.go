// api/router.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/untillpro/goutils/logger"
)

const shutdownTimeout = 10 * time.Second

func NewRouter(site *Site) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestID(site))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/meta", MetaListHandler(site))
		apiGroup.GET("/meta/:table", MetaTableHandler(site))
		apiGroup.GET("/pages", MetaPagesHandler(site))
	}

	// страницы: всё остальное
	r.GET("/", PageHandler(site))
	r.GET("/:page", PageHandler(site))
	return r
}

// RunServer обслуживает addr до отмены ctx.
func RunServer(ctx context.Context, addr string, site *Site) error {
	srv := &http.Server{Addr: addr, Handler: NewRouter(site)}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
