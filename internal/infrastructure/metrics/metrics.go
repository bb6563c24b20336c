package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Movement kinds used as metric labels.
const (
	KindFlow     = "flow"
	KindTransfer = "transfer"
)

var (
	movementsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tallybook_movements_created_total",
			Help: "Total number of movements created, by kind",
		},
		[]string{"kind"},
	)

	movementsUpdated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tallybook_movements_updated_total",
			Help: "Total number of movements updated, by kind",
		},
		[]string{"kind"},
	)

	movementsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tallybook_movements_deleted_total",
			Help: "Total number of movements deleted, by kind",
		},
		[]string{"kind"},
	)

	movementsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tallybook_movements_rejected_total",
			Help: "Total number of movements rejected, by kind",
		},
		[]string{"kind"},
	)
)

// MovementCreated records a successful movement creation.
func MovementCreated(kind string) { movementsCreated.WithLabelValues(kind).Inc() }

// MovementUpdated records a successful movement update.
func MovementUpdated(kind string) { movementsUpdated.WithLabelValues(kind).Inc() }

// MovementDeleted records a successful movement deletion.
func MovementDeleted(kind string) { movementsDeleted.WithLabelValues(kind).Inc() }

// MovementRejected records a movement refused by a domain rule.
func MovementRejected(kind string) { movementsRejected.WithLabelValues(kind).Inc() }

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tallybook_cache_lookups_total",
		Help: "Cache lookups, by result",
	},
	[]string{"result"},
)

// CacheHit records a cache lookup that found a value.
func CacheHit() { cacheLookups.WithLabelValues("hit").Inc() }

// CacheMiss records a cache lookup that found nothing.
func CacheMiss() { cacheLookups.WithLabelValues("miss").Inc() }

// RegisterPoolStats exposes connection pool gauges for the given pool.
func RegisterPoolStats(pool *pgxpool.Pool) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "tallybook_db_connections_total",
		Help: "Total connections in the database pool",
	}, func() float64 {
		return float64(pool.Stat().TotalConns())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "tallybook_db_connections_idle",
		Help: "Idle connections in the database pool",
	}, func() float64 {
		return float64(pool.Stat().IdleConns())
	})
}
