package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
)

const (
	ctxFamily  = "family"
	ctxSession = "session"
)

// FamilyParam validates the :family path parameter and stores the parsed
// family in the context.
func FamilyParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		family, err := core.ParseFamily(c.Param("family"))
		if err != nil {
			abortWithError(c, core.WrapError(core.ErrValidation, "invalid chain family", err))
			return
		}
		c.Set(ctxFamily, family)
		c.Next()
	}
}

func familyOf(c *gin.Context) core.ChainFamily {
	return c.MustGet(ctxFamily).(core.ChainFamily)
}

// ConnectionAuth requires a Bearer connection token issued for the session
// that is still active in the requested family.
func ConnectionAuth(tokenizer ports.Tokenizer, sessions ActiveSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || len(auth) == len("Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid authorization header", Notice: "error"})
			return
		}

		session, err := tokenizer.TokenToSession(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			abortWithError(c, err)
			return
		}

		family := familyOf(c)
		active, ok := sessions.Active(family)
		if !ok || session.Family != family || active.ID != session.ID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "connection is no longer active", Notice: "error"})
			return
		}

		c.Set(ctxSession, active)
		c.Next()
	}
}

// RequestLogger logs every request at a level matching its status.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

// Recovery turns a handler panic into a 500.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Notice: "error"})
			}
		}()
		c.Next()
	}
}

// MaxBodySize limits the request body size.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
