package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/untillpro/goutils/logger"
	"github.com/valyala/bytebufferpool"

	"verbena/internal/runtime"
)

const requestIDHeader = "X-Request-ID"

// RequestID проставляет X-Request-ID (ULID), если клиент его не прислал.
func RequestID(site *Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = site.newID()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// GET /
// GET /:page
// Страница рисуется целиком в буфер: при ошибке клиент не получает половину HTML.
func PageHandler(site *Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		req := c.Param("page")
		err := site.Dispatch(site.DB(c.Request.Context()), req, buf)
		switch {
		case errors.Is(err, runtime.ErrNoPage):
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		case err != nil:
			logger.Error("render", req+":", err, "request", c.GetString("requestID"))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Render failed"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.B)
	}
}
