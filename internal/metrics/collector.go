// Package metrics exposes dashboard aggregates to Prometheus. Values are
// recomputed from the store on every scrape.
package metrics

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"homemeds/m/domain"
	"homemeds/m/internal/catalog"
)

// Dashboard computes inventory aggregates.
type Dashboard interface {
	DashboardMetrics(ctx context.Context) (domain.DashboardMetrics, error)
}

// CatalogCounter counts catalog entries.
type CatalogCounter interface {
	Count(ctx context.Context) (catalog.Counts, error)
}

// Collector implements prometheus.Collector.
type Collector struct {
	dashboard Dashboard
	catalog   CatalogCounter
	timeout   time.Duration

	lots       *prometheus.Desc
	lotsTotal  *prometheus.Desc
	entries    *prometheus.Desc
	scrapeErrs *prometheus.Desc
}

func NewCollector(dashboard Dashboard, catalog CatalogCounter) *Collector {
	return &Collector{
		dashboard: dashboard,
		catalog:   catalog,
		timeout:   5 * time.Second,
		lots: prometheus.NewDesc("homemeds_inventory_lots",
			"Inventory lots by expiry status.", []string{"status"}, nil),
		lotsTotal: prometheus.NewDesc("homemeds_inventory_lots_total",
			"All inventory lots.", nil, nil),
		entries: prometheus.NewDesc("homemeds_catalog_entries",
			"Catalog entries by kind (official or user).", []string{"kind"}, nil),
		scrapeErrs: prometheus.NewDesc("homemeds_scrape_error",
			"1 if the last scrape could not read the store.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lots
	ch <- c.lotsTotal
	ch <- c.entries
	ch <- c.scrapeErrs
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	failed := 0.0
	if m, err := c.dashboard.DashboardMetrics(ctx); err != nil {
		log.Printf("metrics: unable to compute dashboard: %v", err)
		failed = 1
	} else {
		ch <- prometheus.MustNewConstMetric(c.lotsTotal, prometheus.GaugeValue, float64(m.Total))
		ch <- prometheus.MustNewConstMetric(c.lots, prometheus.GaugeValue, float64(m.Expired), string(domain.StatusExpired))
		ch <- prometheus.MustNewConstMetric(c.lots, prometheus.GaugeValue, float64(m.ExpiringSoon), string(domain.StatusExpiringSoon))
		ch <- prometheus.MustNewConstMetric(c.lots, prometheus.GaugeValue, float64(m.Normal), string(domain.StatusNormal))
	}

	if counts, err := c.catalog.Count(ctx); err != nil {
		log.Printf("metrics: unable to count catalog: %v", err)
		failed = 1
	} else {
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(counts.Official), "official")
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(counts.User), "user")
	}

	ch <- prometheus.MustNewConstMetric(c.scrapeErrs, prometheus.GaugeValue, failed)
}
