package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOk    = "ok"
	ResultError = "error"
)

type Metrics struct {
	receiptsGauge      prometheus.Gauge
	rewardsTotalGauge  prometheus.Gauge
	tokenRewardsGauge  *prometheus.GaugeVec
	lastFetchGauge     prometheus.Gauge
	fetchCyclesCounter *prometheus.CounterVec
	staleCycleCounter  prometheus.Counter
	fetchDuration      prometheus.Histogram
}

// NewMetrics registers the reward metrics on reg, prometheus.DefaultRegisterer when nil.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := Metrics{
		// state of the watched account
		receiptsGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_receipts", namespace),
			Help: "Number of order receipts held by the watched account",
		}),
		rewardsTotalGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_rewards_total_amount", namespace),
			Help: "Claimable rewards summed across all tokens",
		}),
		tokenRewardsGauge: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_token_rewards_amount", namespace),
			Help: "Claimable rewards per token",
		}, []string{"token", "symbol"}),
		// fetch cycle health
		lastFetchGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_last_fetch_timestamp_seconds", namespace),
			Help: "Unix time of the latest accepted fetch cycle",
		}),
		fetchCyclesCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_fetch_cycles_total", namespace),
			Help: "Completed fetch cycles by result",
		}, []string{"result"}),
		staleCycleCounter: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_stale_cycles_total", namespace),
			Help: "Fetch cycles discarded because a newer cycle completed first",
		}),
		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_fetch_duration_seconds", namespace),
			Help:    "Duration of a fetch cycle",
			Buckets: prometheus.DefBuckets,
		}),
	}
	return &m
}

func (metrics *Metrics) SetRewards(receipts int, total float64, fetchedAt time.Time) {
	metrics.receiptsGauge.Set(float64(receipts))
	metrics.rewardsTotalGauge.Set(total)
	metrics.lastFetchGauge.Set(float64(fetchedAt.Unix()))
}

// SetTokenRewards replaces the per-token gauges so tokens no longer rewarded disappear.
func (metrics *Metrics) SetTokenRewards(amounts map[string]TokenAmount) {
	metrics.tokenRewardsGauge.Reset()
	for address, amount := range amounts {
		metrics.tokenRewardsGauge.WithLabelValues(address, amount.Symbol).Set(amount.Amount)
	}
}

// TokenAmount is a per-token gauge value
type TokenAmount struct {
	Symbol string
	Amount float64
}

func (metrics *Metrics) ObserveFetch(result string, elapsed time.Duration) {
	metrics.fetchCyclesCounter.WithLabelValues(result).Inc()
	metrics.fetchDuration.Observe(elapsed.Seconds())
}

func (metrics *Metrics) IncStaleCycles() {
	metrics.staleCycleCounter.Inc()
}
