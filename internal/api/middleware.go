package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"safvacut-wallet-go/internal/apperr"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	appKey     = "app"
	sessionKey = "session"
)

// requestLogger logs every request once it completes.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			zap.L().Error("HTTP request", fields...)
			return
		}
		zap.L().Info("HTTP request", fields...)
	}
}

// requireReady holds requests until startup finishes, up to the configured
// timeout, then answers 503.
func (s *Server) requireReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.readyTimeout)
		defer cancel()

		_, err := s.ready.Wait(ctx)
		app := s.app.Load()
		if err != nil || app == nil {
			respondFailure(c, apperr.NewUnavailable("api.requireReady", err))
			return
		}
		c.Set(appKey, app)
		c.Next()
	}
}

// requireSession resolves the bearer token and opens the user's dashboard
// session if this process has not seen them yet.
func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		app := appFrom(c)

		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			respondError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		identity, err := app.Auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			respondFailure(c, err)
			return
		}

		sess, ok := app.Sessions.Get(identity.Uid)
		if !ok {
			sess, err = app.Sessions.Open(c.Request.Context(), *identity, clientInfo(c))
			if err != nil {
				respondFailure(c, apperr.NewFailure("api.requireSession", "Failed to load your dashboard", err))
				return
			}
		} else {
			sess.SetIdentity(*identity)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func appFrom(c *gin.Context) *App {
	return c.MustGet(appKey).(*App)
}

func sessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func clientInfo(c *gin.Context) models.ClientInfo {
	return models.ClientInfo{UserAgent: c.Request.UserAgent(), RemoteIp: c.ClientIP()}
}
