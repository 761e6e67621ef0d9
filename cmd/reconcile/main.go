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
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/config"
	"safvacut-wallet-go/internal/reconcile"

	"go.uber.org/zap"
)

func main() {
	watchFlag := flag.Bool("watch", false, "Keep sweeping on RECONCILE_INTERVAL until interrupted")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer backend.Close()

	r := reconcile.NewReconciler(reconcile.ReconcilerConfig{
		Docs:            backend,
		PollingInterval: cfg.Reconcile.Interval,
	})

	if !*watchFlag {
		result, err := r.Sweep(ctx)
		if err != nil {
			zap.L().Fatal("Reconcile sweep failed", zap.Error(err))
		}
		common.PrintFooter(fmt.Sprintf("RECONCILED: %d assets repaired across %d users (%d failed)",
			result.AssetsFixed, result.Users, len(result.Failed)), common.DefaultWidth)
		return
	}

	if err := r.Start(ctx); err != nil {
		zap.L().Fatal("Failed to start reconciler", zap.Error(err))
	}
	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received")
	r.Stop()
}
