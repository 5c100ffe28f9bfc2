package main

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"thde.io/franklinwh"
)

const scrapeTimeout = 25 * time.Second

// Collector implements prometheus.Collector for a FranklinWH gateway. The
// client library never refreshes tokens itself, so the collector holds the
// token provider and swaps in a fresh client when a scrape fails with an
// authentication error.
type Collector struct {
	provider  *franklinwh.TokenProvider
	gatewayID string
	opts      []franklinwh.Option

	mu     sync.Mutex
	client *franklinwh.Client

	soc            *prometheus.Desc
	solarPower     *prometheus.Desc
	batteryPower   *prometheus.Desc
	gridPower      *prometheus.Desc
	homePower      *prometheus.Desc
	generatorPower *prometheus.Desc
	gridUp         *prometheus.Desc
	dailySolar     *prometheus.Desc
	dailyHomeUse   *prometheus.Desc
	dailyCharge    *prometheus.Desc
	dailyDischarge *prometheus.Desc
	dailyImport    *prometheus.Desc
	dailyExport    *prometheus.Desc
	scrapeSuccess  *prometheus.Desc
}

// NewCollector creates a collector for one gateway. opts are passed to every
// client the collector constructs.
func NewCollector(provider *franklinwh.TokenProvider, gatewayID string, opts ...franklinwh.Option) *Collector {
	labels := []string{"gateway_id"}

	return &Collector{
		provider:  provider,
		gatewayID: gatewayID,
		opts:      opts,
		soc: prometheus.NewDesc(
			"franklinwh_battery_soc_percent",
			"Battery state of charge in percent",
			labels, nil,
		),
		solarPower: prometheus.NewDesc(
			"franklinwh_solar_power_kw",
			"Current solar production in kilowatts",
			labels, nil,
		),
		batteryPower: prometheus.NewDesc(
			"franklinwh_battery_power_kw",
			"Current battery power in kilowatts (positive=discharging, negative=charging)",
			labels, nil,
		),
		gridPower: prometheus.NewDesc(
			"franklinwh_grid_power_kw",
			"Current grid power in kilowatts (positive=importing, negative=exporting)",
			labels, nil,
		),
		homePower: prometheus.NewDesc(
			"franklinwh_home_power_kw",
			"Current home load in kilowatts",
			labels, nil,
		),
		generatorPower: prometheus.NewDesc(
			"franklinwh_generator_power_kw",
			"Current generator production in kilowatts",
			labels, nil,
		),
		gridUp: prometheus.NewDesc(
			"franklinwh_grid_up",
			"Whether the grid connection is up (1=up, 0=down or off-grid)",
			labels, nil,
		),
		dailySolar: prometheus.NewDesc(
			"franklinwh_daily_solar_kwh",
			"Solar production today in kilowatt-hours",
			labels, nil,
		),
		dailyHomeUse: prometheus.NewDesc(
			"franklinwh_daily_home_use_kwh",
			"Home consumption today in kilowatt-hours",
			labels, nil,
		),
		dailyCharge: prometheus.NewDesc(
			"franklinwh_daily_battery_charge_kwh",
			"Battery charge today in kilowatt-hours",
			labels, nil,
		),
		dailyDischarge: prometheus.NewDesc(
			"franklinwh_daily_battery_discharge_kwh",
			"Battery discharge today in kilowatt-hours",
			labels, nil,
		),
		dailyImport: prometheus.NewDesc(
			"franklinwh_daily_grid_import_kwh",
			"Grid import today in kilowatt-hours",
			labels, nil,
		),
		dailyExport: prometheus.NewDesc(
			"franklinwh_daily_grid_export_kwh",
			"Grid export today in kilowatt-hours",
			labels, nil,
		),
		scrapeSuccess: prometheus.NewDesc(
			"franklinwh_scrape_success",
			"Whether scraping the FranklinWH cloud API was successful",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.soc
	ch <- c.solarPower
	ch <- c.batteryPower
	ch <- c.gridPower
	ch <- c.homePower
	ch <- c.generatorPower
	ch <- c.gridUp
	ch <- c.dailySolar
	ch <- c.dailyHomeUse
	ch <- c.dailyCharge
	ch <- c.dailyDischarge
	ch <- c.dailyImport
	ch <- c.dailyExport
	ch <- c.scrapeSuccess
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	stats, err := c.stats(ctx)
	if err != nil {
		log.Printf("Error scraping gateway %s: %v", c.gatewayID, err)
		ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 0, c.gatewayID)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 1, c.gatewayID)

	cur := stats.Current
	ch <- prometheus.MustNewConstMetric(c.soc, prometheus.GaugeValue, cur.BatterySOC, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.solarPower, prometheus.GaugeValue, cur.SolarProduction, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.batteryPower, prometheus.GaugeValue, cur.BatteryUse, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.gridPower, prometheus.GaugeValue, cur.GridUse, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.homePower, prometheus.GaugeValue, cur.HomeLoad, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.generatorPower, prometheus.GaugeValue, cur.GeneratorProduction, c.gatewayID)

	gridUp := 0.0
	if cur.GridStatus == franklinwh.GridStatusNormal {
		gridUp = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.gridUp, prometheus.GaugeValue, gridUp, c.gatewayID)

	totals := stats.Totals
	ch <- prometheus.MustNewConstMetric(c.dailySolar, prometheus.GaugeValue, totals.Solar, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.dailyHomeUse, prometheus.GaugeValue, totals.HomeUse, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.dailyCharge, prometheus.GaugeValue, totals.BatteryCharge, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.dailyDischarge, prometheus.GaugeValue, totals.BatteryDischarge, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.dailyImport, prometheus.GaugeValue, totals.GridImport, c.gatewayID)
	ch <- prometheus.MustNewConstMetric(c.dailyExport, prometheus.GaugeValue, totals.GridExport, c.gatewayID)
}

// stats fetches the statistics, logging in again once if the token expired.
// Statistics are reads, so repeating the call after a fresh login is safe.
func (c *Collector) stats(ctx context.Context) (*franklinwh.Stats, error) {
	client, err := c.getClient(ctx, false)
	if err != nil {
		return nil, err
	}

	stats, err := client.Stats(ctx)
	if errors.Is(err, franklinwh.ErrAuthentication) {
		log.Printf("Token for gateway %s expired, logging in again", c.gatewayID)
		if client, err = c.getClient(ctx, true); err != nil {
			return nil, err
		}
		stats, err = client.Stats(ctx)
	}

	return stats, err
}

func (c *Collector) getClient(ctx context.Context, force bool) (*franklinwh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && !force {
		return c.client, nil
	}

	token, err := c.provider.Token(ctx)
	if err != nil {
		return nil, err
	}

	c.client = franklinwh.New(token, c.gatewayID, c.opts...)
	return c.client, nil
}
