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

package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dexter-rewards-go/internal/api"
	"dexter-rewards-go/internal/metrics"
	"dexter-rewards-go/internal/models"

	"go.uber.org/zap"
)

// RewardsFetcher is the part of the rewards service the watcher drives
type RewardsFetcher interface {
	FetchReceipts(ctx context.Context) ([]string, error)
	FetchRewards(ctx context.Context, receiptIds []string) (*api.RewardsSummary, error)
	SaveSnapshot(ctx context.Context, summary *api.RewardsSummary) (*models.RewardSnapshot, error)
}

// Config contains configuration for Watcher
type Config struct {
	Service          RewardsFetcher
	Metrics          *metrics.Metrics
	PollingInterval  time.Duration
	FetchTimeout     time.Duration
	PersistSnapshots bool
}

// Watcher periodically refreshes the receipts and rewards of the connected account
type Watcher struct {
	service          RewardsFetcher
	metrics          *metrics.Metrics
	pollingInterval  time.Duration
	fetchTimeout     time.Duration
	persistSnapshots bool

	// Latest accepted cycle
	mutex  sync.RWMutex
	latest *api.RewardsSummary

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

func NewWatcher(cfg Config) (*Watcher, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("watcher requires a rewards service")
	}
	if cfg.PollingInterval <= 0 {
		return nil, fmt.Errorf("polling interval must be positive, got %v", cfg.PollingInterval)
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("fetch timeout must be positive, got %v", cfg.FetchTimeout)
	}

	return &Watcher{
		service:          cfg.Service,
		metrics:          cfg.Metrics,
		pollingInterval:  cfg.PollingInterval,
		fetchTimeout:     cfg.FetchTimeout,
		persistSnapshots: cfg.PersistSnapshots,
		stopChan:         make(chan struct{}),
		doneChan:         make(chan struct{}),
	}, nil
}

// Start begins polling in the background. The first cycle runs immediately.
func (w *Watcher) Start(ctx context.Context) {
	zap.L().Info("Starting rewards watcher",
		zap.Duration("polling_interval", w.pollingInterval),
		zap.Duration("fetch_timeout", w.fetchTimeout))

	go w.pollLoop(ctx)
}

// Stop gracefully stops the watcher and waits for the running cycle
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		zap.L().Info("Stopping rewards watcher")
		close(w.stopChan)
	})
	<-w.doneChan
	zap.L().Info("Rewards watcher stopped")
}

// Done is closed when the poll loop exits
func (w *Watcher) Done() <-chan struct{} {
	return w.doneChan
}

// Latest returns the most recent accepted summary, nil before the first cycle
func (w *Watcher) Latest() *api.RewardsSummary {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.latest
}

func (w *Watcher) pollLoop(ctx context.Context) {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.pollingInterval)
	defer ticker.Stop()

	w.Refresh(ctx)

	for {
		select {
		case <-ticker.C:
			w.Refresh(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Refresh runs one fetch cycle. It can be called alongside the poll loop;
// a cycle that started before the accepted one is discarded.
func (w *Watcher) Refresh(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, w.fetchTimeout)
	defer cancel()

	start := time.Now()
	summary, err := w.fetch(cycleCtx)
	if err != nil {
		w.observe(metrics.ResultError, start)
		zap.L().Error("Rewards fetch cycle failed", zap.Error(err))
		return
	}
	w.observe(metrics.ResultOk, start)

	if !w.accept(summary) {
		if w.metrics != nil {
			w.metrics.IncStaleCycles()
		}
		zap.L().Debug("Discarding stale fetch cycle", zap.Time("fetched_at", summary.FetchedAt))
		return
	}

	if w.persistSnapshots && summary.AccountAddress != "" {
		if _, err := w.service.SaveSnapshot(cycleCtx, summary); err != nil {
			zap.L().Error("Failed to persist snapshot", zap.Error(err))
		}
	}
}

func (w *Watcher) fetch(ctx context.Context) (*api.RewardsSummary, error) {
	receiptIds, err := w.service.FetchReceipts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipts: %w", err)
	}
	summary, err := w.service.FetchRewards(ctx, receiptIds)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rewards: %w", err)
	}
	return summary, nil
}

// accept stores and publishes summary unless a newer cycle was already
// accepted. Metrics are written under the lock so they always match latest.
func (w *Watcher) accept(summary *api.RewardsSummary) bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.latest != nil && summary.FetchedAt.Before(w.latest.FetchedAt) {
		return false
	}
	w.latest = summary
	w.publish(summary)
	return true
}

func (w *Watcher) observe(result string, start time.Time) {
	if w.metrics != nil {
		w.metrics.ObserveFetch(result, time.Since(start))
	}
}

func (w *Watcher) publish(summary *api.RewardsSummary) {
	zap.L().Info("Rewards refreshed",
		zap.String("account", summary.AccountAddress),
		zap.Int("receipts", len(summary.ReceiptIds)),
		zap.String("total", summary.Total.String()))

	if w.metrics == nil {
		return
	}

	total, _ := summary.Total.Float64()
	w.metrics.SetRewards(len(summary.ReceiptIds), total, summary.FetchedAt)

	amounts := make(map[string]metrics.TokenAmount, len(summary.ByToken))
	for _, token := range summary.ByToken {
		amount, _ := token.Amount.Float64()
		amounts[token.Address] = metrics.TokenAmount{Symbol: token.Symbol, Amount: amount}
	}
	w.metrics.SetTokenRewards(amounts)
}
