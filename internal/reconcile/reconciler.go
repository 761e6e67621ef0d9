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

package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"safvacut-wallet-go/internal/dashboard"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"go.uber.org/zap"
)

// ReconcilerConfig contains configuration for Reconciler
type ReconcilerConfig struct {
	Docs            store.DocumentStore
	PollingInterval time.Duration
	// Concurrency caps how many users are swept at once. Zero means 4.
	Concurrency int
}

// Reconciler periodically replays sends whose asset write never landed
type Reconciler struct {
	docs            store.DocumentStore
	pollingInterval time.Duration
	concurrency     int
	now             func() time.Time

	mutex      sync.Mutex
	lastSweep  time.Time
	totalFixed int

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
}

// SweepResult summarises one pass over every profile
type SweepResult struct {
	Users       int
	AssetsFixed int
	Failed      []string
}

func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Reconciler{
		docs:            cfg.Docs,
		pollingInterval: cfg.PollingInterval,
		concurrency:     concurrency,
		now:             func() time.Time { return time.Now().UTC() },
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start runs a first sweep synchronously, then keeps sweeping on the
// polling interval until Stop is called or ctx ends.
func (r *Reconciler) Start(ctx context.Context) error {
	if r.pollingInterval <= 0 {
		return fmt.Errorf("polling interval must be positive, got %s", r.pollingInterval)
	}

	zap.L().Info("Starting reconciler")

	// Startup recovery: repair anything left over from before the restart.
	if _, err := r.Sweep(ctx); err != nil {
		return fmt.Errorf("startup sweep failed: %w", err)
	}

	go r.pollLoop(ctx)

	zap.L().Info("Reconciler started", zap.Duration("polling_interval", r.pollingInterval))
	return nil
}

// Stop gracefully stops the reconciler
func (r *Reconciler) Stop() {
	zap.L().Info("Stopping reconciler")
	close(r.stopChan)
	<-r.doneChan
	zap.L().Info("Reconciler stopped")
}

func (r *Reconciler) pollLoop(ctx context.Context) {
	defer close(r.doneChan)

	ticker := time.NewTicker(r.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				zap.L().Error("Reconcile sweep failed", zap.Error(err))
			}
		case <-r.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Sweep reconciles every asset of every profile once. Per-user failures are
// collected in the result; only failing to list profiles is an error.
func (r *Reconciler) Sweep(ctx context.Context) (SweepResult, error) {
	profiles, err := r.docs.ListProfiles(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list profiles: %w", err)
	}

	result := SweepResult{Users: len(profiles)}
	now := r.now()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, r.concurrency)
	)
	for _, p := range profiles {
		wg.Add(1)
		sem <- struct{}{}

		go func(p models.Profile) {
			defer wg.Done()
			defer func() { <-sem }()

			fixed, err := dashboard.ReconcileUser(ctx, r.docs, p.Uid, now)

			mu.Lock()
			defer mu.Unlock()
			result.AssetsFixed += fixed
			if err != nil {
				result.Failed = append(result.Failed, p.Uid)
				zap.L().Error("Failed to reconcile user",
					zap.String("uid", p.Uid),
					zap.Error(err))
			}
		}(p)
	}
	wg.Wait()

	r.mutex.Lock()
	r.lastSweep = now
	r.totalFixed += result.AssetsFixed
	r.mutex.Unlock()

	if result.AssetsFixed > 0 || len(result.Failed) > 0 {
		zap.L().Info("Reconcile sweep completed",
			zap.Int("users", result.Users),
			zap.Int("assets_fixed", result.AssetsFixed),
			zap.Int("failed_users", len(result.Failed)))
	} else {
		zap.L().Debug("Reconcile sweep found nothing to repair", zap.Int("users", result.Users))
	}
	return result, nil
}

// Stats returns the time of the last sweep and the assets repaired so far.
func (r *Reconciler) Stats() (time.Time, int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.lastSweep, r.totalFixed
}
