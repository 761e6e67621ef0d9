/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/models"

	"github.com/gin-gonic/gin"
)

// Server wraps an http.Server with configured routes. It accepts
// connections before startup finishes; routes wait on readiness.
type Server struct {
	inner        *http.Server
	engine       *gin.Engine
	ready        *common.Readiness
	readyTimeout time.Duration
	app          atomic.Pointer[App]
}

// NewServer wires up middleware and routes. Attach the App, then resolve
// ready, once services are up.
func NewServer(cfg models.ServerConfig, ready *common.Readiness) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		engine:       engine,
		ready:        ready,
		readyTimeout: cfg.ReadyTimeout,
	}
	if s.readyTimeout <= 0 {
		s.readyTimeout = 5 * time.Second
	}
	s.routes()

	s.inner = &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) Attach(app *App) {
	s.app.Store(app)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api", s.requireReady())

	auth := api.Group("/auth")
	{
		auth.POST("/signup", handleSignUp)
		auth.POST("/signin", handleSignIn)
		auth.POST("/provider/:provider", handleProviderSignIn)
	}

	protected := api.Group("", requireSession())
	{
		protected.POST("/auth/signout", handleSignOut)

		protected.POST("/dashboard/navigate", handleNavigate)
		protected.GET("/dashboard/overview", handleOverview)
		protected.POST("/dashboard/refresh", handleRefresh)

		protected.GET("/wallets", handleListWallets)
		protected.POST("/wallets/connect", handleConnectWallet)
		protected.POST("/wallets/import", handleImportWallet)
		protected.POST("/wallets/prime", handlePrimeWallet)

		protected.POST("/transactions/send", handleSend)
		protected.GET("/assets/:symbol/receive", handleReceive)
		protected.POST("/assets/:symbol/reconcile", handleReconcile)

		protected.GET("/profile", handleGetProfile)
		protected.PUT("/profile", handleEditProfile)
		protected.POST("/profile/avatar", handleUploadAvatar)
		protected.PUT("/profile/password", handleChangePassword)
		protected.PUT("/profile/pin", handleChangePin)
		protected.POST("/profile/pin/verify", handleVerifyPin)

		protected.GET("/settings", handleGetSettings)
		protected.GET("/settings/notifications", handleGetNotificationSettings)
		protected.PUT("/settings/notifications", handleSaveNotificationSettings)

		protected.GET("/notifications", handleListNotifications)
		protected.POST("/notifications/:id/read", handleMarkRead)
		protected.POST("/notifications/read-all", handleMarkAllRead)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	app := s.app.Load()
	if !s.ready.Ready() || app == nil {
		respondError(c, http.StatusServiceUnavailable, "starting")
		return
	}
	if err := app.HealthCheck(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	respondJSON(c, http.StatusOK, "ok", nil)
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server and closes open sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.inner.Shutdown(ctx)
	if app := s.app.Load(); app != nil {
		app.Sessions.CloseAll(ctx)
	}
	return err
}
