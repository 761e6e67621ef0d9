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

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"safvacut-wallet-go/internal/api"
	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/config"
	"safvacut-wallet-go/internal/reconcile"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting wallet dashboard server", zap.String("addr", cfg.Server.Addr))

	// Accept connections right away; requests wait on readiness.
	ready := common.NewReadiness()
	server := api.NewServer(cfg.Server, ready)

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var services *common.Services
	var reconciler *reconcile.Reconciler
	go func() {
		svc, err := common.InitializeServices(ctx, cfg)
		if err != nil {
			zap.L().Error("Failed to initialize services", zap.Error(err))
			ready.Resolve(nil, err)
			return
		}
		app, err := api.NewApp(cfg, svc)
		if err != nil {
			svc.Close()
			zap.L().Error("Failed to wire application", zap.Error(err))
			ready.Resolve(nil, err)
			return
		}

		if cfg.Reconcile.Enabled {
			r := reconcile.NewReconciler(reconcile.ReconcilerConfig{
				Docs:            svc.Backend,
				PollingInterval: cfg.Reconcile.Interval,
			})
			if err := r.Start(ctx); err != nil {
				zap.L().Error("Failed to start reconciler", zap.Error(err))
			} else {
				reconciler = r
			}
		}

		services = svc
		server.Attach(app)
		ready.Resolve(svc, nil)
		zap.L().Info("Services ready")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received")
	case err := <-serveErr:
		zap.L().Error("Server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("Forced shutdown after timeout", zap.Error(err))
	}

	// Startup may still be running; only tear down what it finished.
	select {
	case <-ready.Done():
		if reconciler != nil {
			reconciler.Stop()
		}
		if services != nil {
			services.Close()
		}
	default:
		cancel()
	}
	zap.L().Info("Server stopped")
}
