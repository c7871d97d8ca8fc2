package middleware

import (
	"log/slog"
	"net/http"

	"enrollment-sync/internal/handler/httperr"
	"enrollment-sync/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackLines = 8

// ErrorHandler answers for handlers that recorded an error without writing a
// body, and logs the stack of every server-side error.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			resp, ok := e.Meta.(httperr.Response)
			if ok && resp.Status >= http.StatusInternalServerError {
				logger.ErrorContext(c.Request.Context(), "request failed",
					"request_id", GetRequestID(c),
					"route", c.FullPath(),
					"error", e.Err.Error(),
					"stack", errs.ExtractStackLines(e.Err, stackLines))
			}
		}

		if c.Writer.Written() {
			return
		}
		if last := c.Errors.Last(); last != nil && last.IsType(gin.ErrorTypePublic) {
			if resp, ok := last.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if len(c.Errors) > 0 {
			writeInternalError(c)
		}
	}
}

func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(c.Request.Context(), "recovered from panic",
					"request_id", GetRequestID(c),
					"path", c.Request.URL.Path,
					"panic", r)
				writeInternalError(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}

func writeInternalError(c *gin.Context) {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Message = "Internal server error"
	c.JSON(resp.Status, resp)
}
