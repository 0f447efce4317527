// Package compare runs one regional price comparison: discovery on the base
// storefront, a sweep of every region, conversion and ranking.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"regionprice/internal/catalog"
	"regionprice/internal/collect"
	"regionprice/internal/currency"
	"regionprice/internal/extract"
	"regionprice/internal/metrics"
	"regionprice/internal/pricing"
	"regionprice/internal/storefront"
)

// NotAvailable is shown in place of a converted price that could not be
// computed.
const NotAvailable = "N/A"

var (
	// ErrNoPricingData means the sweep finished without a single full price.
	// It is not a failure; the returned report still lists what went wrong.
	ErrNoPricingData = errors.New("no pricing data available")
	ErrItemNotFound  = errors.New("in-app purchase not found")
	ErrUnknownRegion = errors.New("unknown region")
)

// RateSource provides the exchange rate table for a base currency.
type RateSource interface {
	Latest(ctx context.Context, base string) (pricing.RateTable, error)
}

// Request is one comparison. Item selects an in-app purchase by offer name
// or display name; empty compares the app itself. Region overrides the base
// storefront derived from Currency.
type Request struct {
	AppID    string `json:"app_id"`
	Currency string `json:"currency"`
	Item     string `json:"item,omitempty"`
	Region   string `json:"region,omitempty"`
}

// Row is one line of the comparison table.
type Row struct {
	Region    string `json:"region"`
	Price     string `json:"price"`
	Currency  string `json:"currency"`
	Converted string `json:"converted"`
}

type Report struct {
	RunID        string                `json:"run_id"`
	AppID        string                `json:"app_id"`
	AppName      string                `json:"app_name,omitempty"`
	Item         *extract.Item         `json:"item,omitempty"`
	BaseCurrency string                `json:"base_currency"`
	BaseRegion   catalog.Region        `json:"base_region"`
	StartedAt    time.Time             `json:"started_at"`
	FinishedAt   time.Time             `json:"finished_at"`
	Records      []pricing.PriceRecord `json:"records"`
	Rows         []Row                 `json:"rows"`
	DisplayOnly  []collect.DisplayOnly `json:"display_only"`
	Failures     []collect.Failure     `json:"failures"`
}

// Product is what the base storefront page says about an app.
type Product struct {
	AppID  string         `json:"app_id"`
	Name   string         `json:"name"`
	Region catalog.Region `json:"region"`
	Items  []extract.Item `json:"items"`
}

type Config struct {
	Catalog    *catalog.Catalog
	Fetcher    storefront.Fetcher
	Collector  *collect.Collector
	Rates      RateSource
	Currencies *currency.Table
	Log        *zap.Logger
	Metrics    *metrics.Metrics
}

type Service struct {
	catalog    *catalog.Catalog
	fetcher    storefront.Fetcher
	collector  *collect.Collector
	rates      RateSource
	currencies *currency.Table
	log        *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func New(cfg Config) *Service {
	s := &Service{
		catalog:    cfg.Catalog,
		fetcher:    cfg.Fetcher,
		collector:  cfg.Collector,
		rates:      cfg.Rates,
		currencies: cfg.Currencies,
		log:        cfg.Log,
		metrics:    cfg.Metrics,
		now:        time.Now,
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.currencies == nil {
		s.currencies = currency.DefaultTable()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop()
	}
	if s.collector == nil {
		s.collector = collect.New(s.fetcher, collect.WithLogger(s.log), collect.WithMetrics(s.metrics))
	}
	return s
}

func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

func (s *Service) Currencies() *currency.Table { return s.currencies }

// BaseRegion resolves the storefront a request is anchored on.
func (s *Service) BaseRegion(currencyCode, override string) (catalog.Region, error) {
	if override == "" {
		return s.catalog.BaseRegion(currencyCode), nil
	}
	r, ok := s.catalog.Lookup(override)
	if !ok {
		return catalog.Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, override)
	}
	return r, nil
}

// Discover reads the app name and in-app purchases from one storefront.
func (s *Service) Discover(ctx context.Context, appID string, region catalog.Region) (*Product, error) {
	raw, err := s.fetcher.Fetch(ctx, storefront.Request{AppID: appID, Region: region.Code})
	if err != nil {
		return nil, fmt.Errorf("fetching %s storefront: %w", region.Code, err)
	}
	page, err := extract.Parse(raw)
	if err != nil {
		return nil, err
	}
	p := &Product{AppID: appID, Name: extract.AppName(page), Region: region}
	items, err := extract.InAppPurchases(page)
	if err != nil {
		s.log.Debug("no in-app purchase listing", zap.String("app_id", appID), zap.String("region", region.Code), zap.Error(err))
	}
	p.Items = items
	return p, nil
}

// FindItem matches want against offer names first, then display names,
// case-insensitively.
func FindItem(items []extract.Item, want string) (extract.Item, bool) {
	want = strings.TrimSpace(want)
	for _, it := range items {
		if strings.EqualFold(it.OfferName, want) {
			return it, true
		}
	}
	for _, it := range items {
		if strings.EqualFold(it.Name, want) {
			return it, true
		}
	}
	return extract.Item{}, false
}

// Run performs one comparison. An unreachable rate source aborts the run and
// discards what was collected. A sweep with no full prices returns the report
// together with ErrNoPricingData.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	appID, err := ParseAppID(req.AppID)
	if err != nil {
		return nil, err
	}
	base, err := ParseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	region, err := s.BaseRegion(base, req.Region)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:        uuid.NewString(),
		AppID:        appID,
		BaseCurrency: base,
		BaseRegion:   region,
		StartedAt:    s.now().UTC(),
	}
	log := s.log.With(zap.String("run_id", report.RunID), zap.String("app_id", appID), zap.String("base", base))

	product, err := s.Discover(ctx, appID, region)
	switch {
	case err != nil && req.Item != "":
		s.metrics.Runs.WithLabelValues("error").Inc()
		return nil, err
	case err != nil:
		log.Warn("base storefront discovery failed", zap.Error(err))
	default:
		report.AppName = product.Name
	}

	if req.Item != "" {
		item, ok := FindItem(product.Items, req.Item)
		if !ok {
			s.metrics.Runs.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: %q in %s storefront", ErrItemNotFound, req.Item, region.Code)
		}
		report.Item = &item
	}

	log.Info("collecting regional prices", zap.String("base_region", region.Code), zap.Int("regions", s.catalog.Len()))
	res := s.collector.Collect(ctx, collect.Request{
		AppID:   appID,
		Item:    report.Item,
		Base:    region,
		Regions: s.catalog.All(),
	})
	report.DisplayOnly = res.DisplayOnly
	report.Failures = res.Failures

	if len(res.Records) == 0 {
		report.FinishedAt = s.now().UTC()
		s.metrics.Runs.WithLabelValues("empty").Inc()
		log.Info("no pricing data", zap.Int("failures", len(res.Failures)))
		return report, ErrNoPricingData
	}

	table, err := s.rates.Latest(ctx, base)
	if err != nil {
		s.metrics.RateFetches.WithLabelValues("error").Inc()
		s.metrics.Runs.WithLabelValues("error").Inc()
		return nil, err
	}
	s.metrics.RateFetches.WithLabelValues("ok").Inc()

	report.Records = pricing.Convert(res.Records, table)
	report.Rows = Rows(s.currencies, report.Records, base)
	report.FinishedAt = s.now().UTC()
	s.metrics.Runs.WithLabelValues("ok").Inc()
	log.Info("comparison complete",
		zap.Int("records", len(report.Records)),
		zap.Int("display_only", len(report.DisplayOnly)),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

// Rows formats converted records for display.
func Rows(currencies *currency.Table, records []pricing.PriceRecord, base string) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		converted := NotAvailable
		if r.Converted.Valid {
			converted = currencies.Format(r.Converted.Decimal, base)
		}
		rows[i] = Row{
			Region:    r.Region,
			Price:     currencies.Format(r.Amount, r.Currency),
			Currency:  r.Currency,
			Converted: converted,
		}
	}
	return rows
}
