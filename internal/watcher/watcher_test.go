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
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"dexter-rewards-go/internal/api"
	"dexter-rewards-go/internal/metrics"
	"dexter-rewards-go/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mutex      sync.Mutex
	receipts   []string
	summaries  []*api.RewardsSummary
	receiptErr error
	calls      int
	saved      []*api.RewardsSummary
	cycles     chan struct{}
}

func (f *fakeFetcher) FetchReceipts(ctx context.Context) ([]string, error) {
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	return f.receipts, nil
}

func (f *fakeFetcher) FetchRewards(ctx context.Context, receiptIds []string) (*api.RewardsSummary, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	summary := f.summaries[f.calls%len(f.summaries)]
	f.calls++
	if f.cycles != nil {
		select {
		case f.cycles <- struct{}{}:
		default:
		}
	}
	return summary, nil
}

func (f *fakeFetcher) SaveSnapshot(ctx context.Context, summary *api.RewardsSummary) (*models.RewardSnapshot, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.saved = append(f.saved, summary)
	return &models.RewardSnapshot{AccountAddress: summary.AccountAddress, FetchedAt: summary.FetchedAt}, nil
}

func summaryAt(fetchedAt time.Time, total string) *api.RewardsSummary {
	return &api.RewardsSummary{
		AccountAddress: "account_tdx_2_1abc",
		ReceiptIds:     []string{"#1#", "#2#"},
		ByToken: []models.TokenReward{
			{
				TokenInfo: models.TokenInfo{Address: "resource_tdx_2_1dextr", Symbol: "DEXTR"},
				Amount:    decimal.RequireFromString(total),
			},
		},
		Total:     decimal.RequireFromString(total),
		FetchedAt: fetchedAt,
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelValue != "" && (len(metric.GetLabel()) == 0 || metric.GetLabel()[0].GetValue() != labelValue) {
				continue
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func newTestWatcher(t *testing.T, fetcher *fakeFetcher, persist bool) (*Watcher, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	w, err := NewWatcher(Config{
		Service:          fetcher,
		Metrics:          metrics.NewMetrics("test", reg),
		PollingInterval:  time.Hour,
		FetchTimeout:     time.Second,
		PersistSnapshots: persist,
	})
	require.NoError(t, err)
	return w, reg
}

func TestNewWatcher_InvalidConfig(t *testing.T) {
	fetcher := &fakeFetcher{}
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing service", Config{PollingInterval: time.Second, FetchTimeout: time.Second}},
		{"zero interval", Config{Service: fetcher, FetchTimeout: time.Second}},
		{"zero timeout", Config{Service: fetcher, PollingInterval: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWatcher(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestRefresh_AcceptsAndPersists(t *testing.T) {
	now := time.Now().UTC()
	fetcher := &fakeFetcher{summaries: []*api.RewardsSummary{summaryAt(now, "12.5")}}
	w, reg := newTestWatcher(t, fetcher, true)

	assert.Nil(t, w.Latest())
	w.Refresh(context.Background())

	latest := w.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "12.5", latest.Total.String())
	assert.Len(t, fetcher.saved, 1)
	assert.Equal(t, 1.0, counterValue(t, reg, "test_fetch_cycles_total", metrics.ResultOk))
	assert.Equal(t, 2.0, counterValue(t, reg, "test_receipts", ""))
	assert.Equal(t, 12.5, counterValue(t, reg, "test_rewards_total_amount", ""))
}

func TestRefresh_DiscardsStaleCycle(t *testing.T) {
	now := time.Now().UTC()
	fetcher := &fakeFetcher{summaries: []*api.RewardsSummary{
		summaryAt(now, "20"),
		summaryAt(now.Add(-time.Minute), "10"),
	}}
	w, reg := newTestWatcher(t, fetcher, true)

	w.Refresh(context.Background())
	w.Refresh(context.Background())

	assert.Equal(t, "20", w.Latest().Total.String())
	assert.Len(t, fetcher.saved, 1)
	assert.Equal(t, 1.0, counterValue(t, reg, "test_stale_cycles_total", ""))
	assert.Equal(t, 20.0, counterValue(t, reg, "test_rewards_total_amount", ""))
}

func TestRefresh_ConcurrentCyclesKeepMetricsOnLatest(t *testing.T) {
	base := time.Now().UTC()
	summaries := make([]*api.RewardsSummary, 0, 20)
	for i := 0; i < 20; i++ {
		// fetch order is shuffled relative to FetchedAt
		offset := time.Duration((i*7)%20) * time.Second
		summaries = append(summaries, summaryAt(base.Add(offset), fmt.Sprintf("%d", (i*7)%20+1)))
	}
	fetcher := &fakeFetcher{summaries: summaries}
	w, reg := newTestWatcher(t, fetcher, false)

	var wg sync.WaitGroup
	for i := 0; i < len(summaries); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Refresh(context.Background())
		}()
	}
	wg.Wait()

	latest := w.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "20", latest.Total.String())
	assert.Equal(t, 20.0, counterValue(t, reg, "test_rewards_total_amount", ""))
}

func TestRefresh_NoPersistence(t *testing.T) {
	fetcher := &fakeFetcher{summaries: []*api.RewardsSummary{summaryAt(time.Now(), "1")}}
	w, _ := newTestWatcher(t, fetcher, false)

	w.Refresh(context.Background())

	assert.NotNil(t, w.Latest())
	assert.Empty(t, fetcher.saved)
}

func TestRefresh_FetchError(t *testing.T) {
	fetcher := &fakeFetcher{receiptErr: errors.New("wallet unavailable")}
	w, reg := newTestWatcher(t, fetcher, true)

	w.Refresh(context.Background())

	assert.Nil(t, w.Latest())
	assert.Equal(t, 1.0, counterValue(t, reg, "test_fetch_cycles_total", metrics.ResultError))
}

func TestStartStop(t *testing.T) {
	fetcher := &fakeFetcher{
		summaries: []*api.RewardsSummary{summaryAt(time.Now(), "3")},
		cycles:    make(chan struct{}, 1),
	}
	w, _ := newTestWatcher(t, fetcher, false)

	w.Start(context.Background())

	select {
	case <-fetcher.cycles:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not run the initial cycle")
	}

	w.Stop()
	w.Stop()

	select {
	case <-w.Done():
	default:
		t.Fatal("poll loop still running after Stop")
	}
}

func TestStart_ContextCancel(t *testing.T) {
	fetcher := &fakeFetcher{summaries: []*api.RewardsSummary{summaryAt(time.Now(), "3")}}
	w, _ := newTestWatcher(t, fetcher, false)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("poll loop did not exit on context cancel")
	}
}
