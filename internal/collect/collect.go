// Package collect sweeps every storefront region for one app or in-app
// purchase and gathers the extracted prices.
package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"regionprice/internal/catalog"
	"regionprice/internal/extract"
	"regionprice/internal/metrics"
	"regionprice/internal/pricing"
	"regionprice/internal/storefront"
)

const tracerName = "regionprice/internal/collect"

// Request describes one sweep. Base is visited first; a region in Regions
// with the same code is not visited again.
type Request struct {
	AppID   string
	Item    *extract.Item
	Base    catalog.Region
	Regions []catalog.Region
}

// Outcome is what one region produced.
type Outcome struct {
	Region  catalog.Region
	Price   extract.Price
	Err     error
	Elapsed time.Duration
}

// DisplayOnly is a region whose page only carried a formatted label.
type DisplayOnly struct {
	Region catalog.Region `json:"region"`
	Label  string         `json:"label"`
}

// Failure is a region that yielded nothing.
type Failure struct {
	Region  catalog.Region `json:"region"`
	Reason  string         `json:"reason"`
	NoPrice bool           `json:"no_price"`
	Err     error          `json:"-"`
}

// Result holds everything a sweep gathered. Records are in completion order.
type Result struct {
	Records     []pricing.PriceRecord `json:"records"`
	DisplayOnly []DisplayOnly         `json:"display_only"`
	Failures    []Failure             `json:"failures"`
}

type Collector struct {
	fetcher   storefront.Fetcher
	extractor *extract.Extractor
	log       *zap.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	limit     int
	onOutcome func(Outcome)
}

type Option func(*Collector)

func WithLogger(l *zap.Logger) Option { return func(c *Collector) { c.log = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(c *Collector) { c.metrics = m } }

func WithExtractor(e *extract.Extractor) Option { return func(c *Collector) { c.extractor = e } }

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Collector) { c.tracer = tp.Tracer(tracerName) }
}

// WithConcurrency caps regions in flight. n <= 0 means no cap.
func WithConcurrency(n int) Option { return func(c *Collector) { c.limit = n } }

// OnOutcome registers fn to observe each outcome as it arrives. fn runs on
// the collecting goroutine, one call at a time.
func OnOutcome(fn func(Outcome)) Option { return func(c *Collector) { c.onOutcome = fn } }

func New(f storefront.Fetcher, opts ...Option) *Collector {
	c := &Collector{
		fetcher:   f,
		extractor: extract.New(),
		log:       zap.NewNop(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.Nop()
	}
	return c
}

// Units lists the regions a sweep visits, in issue order.
func Units(req Request) []catalog.Region {
	units := make([]catalog.Region, 0, len(req.Regions)+1)
	if req.Base.Code != "" {
		units = append(units, req.Base)
	}
	for _, r := range req.Regions {
		if r.Code == req.Base.Code {
			continue
		}
		units = append(units, r)
	}
	return units
}

// Collect visits every unit and blocks until all have reported. Per-region
// failures are logged and recorded; they never abort the sweep.
func (c *Collector) Collect(ctx context.Context, req Request) Result {
	units := Units(req)
	outcomes := make(chan Outcome, len(units))

	var g errgroup.Group
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}
	go func() {
		for _, region := range units {
			g.Go(func() error {
				outcomes <- c.visit(ctx, req, region)
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	var res Result
	for o := range outcomes {
		c.record(&res, o)
	}
	return res
}

func (c *Collector) visit(ctx context.Context, req Request, region catalog.Region) Outcome {
	ctx, span := c.tracer.Start(ctx, "collect.region", trace.WithAttributes(
		attribute.String("app.id", req.AppID),
		attribute.String("region.code", region.Code),
	))
	defer span.End()

	c.metrics.RegionsActive.Inc()
	defer c.metrics.RegionsActive.Dec()

	start := time.Now()
	o := Outcome{Region: region}
	page, err := c.fetcher.Fetch(ctx, storefront.Request{AppID: req.AppID, Region: region.Code})
	if err != nil {
		o.Err = fmt.Errorf("fetching page: %w", err)
	} else {
		o.Price, o.Err = c.extractor.Extract(page, req.Item)
	}
	o.Elapsed = time.Since(start)

	label := outcomeLabel(o)
	c.metrics.RegionOutcomes.WithLabelValues(label).Inc()
	c.metrics.RegionDuration.WithLabelValues(label).Observe(o.Elapsed.Seconds())

	span.SetAttributes(attribute.String("outcome", label))
	switch {
	case label == metrics.OutcomeFetchError:
		span.RecordError(o.Err)
		span.SetStatus(codes.Error, o.Err.Error())
	case o.Err == nil:
		span.SetAttributes(attribute.String("extract.strategy", o.Price.Strategy))
	}
	return o
}

func outcomeLabel(o Outcome) string {
	switch {
	case o.Err != nil && errors.Is(o.Err, extract.ErrNoPrice):
		return metrics.OutcomeNoPrice
	case o.Err != nil:
		return metrics.OutcomeFetchError
	case o.Price.Kind == extract.KindDisplayOnly:
		return metrics.OutcomeDisplayOnly
	default:
		return metrics.OutcomeFull
	}
}

func (c *Collector) record(res *Result, o Outcome) {
	log := c.log.With(zap.String("region", o.Region.Name), zap.String("code", o.Region.Code))
	switch {
	case o.Err != nil:
		noPrice := errors.Is(o.Err, extract.ErrNoPrice)
		log.Warn("region skipped", zap.Bool("no_price", noPrice), zap.Error(o.Err))
		res.Failures = append(res.Failures, Failure{Region: o.Region, Reason: o.Err.Error(), NoPrice: noPrice, Err: o.Err})
	case o.Price.Kind == extract.KindDisplayOnly:
		log.Debug("display-only price", zap.String("label", o.Price.Display))
		res.DisplayOnly = append(res.DisplayOnly, DisplayOnly{Region: o.Region, Label: o.Price.Display})
	default:
		log.Debug("price extracted",
			zap.String("amount", o.Price.Amount.String()),
			zap.String("currency", o.Price.Currency),
			zap.String("strategy", o.Price.Strategy),
			zap.Duration("elapsed", o.Elapsed),
		)
		res.Records = append(res.Records, pricing.PriceRecord{
			Region:     o.Region.Name,
			RegionCode: o.Region.Code,
			Amount:     o.Price.Amount,
			Currency:   o.Price.Currency,
			Strategy:   o.Price.Strategy,
		})
	}
	if c.onOutcome != nil {
		c.onOutcome(o)
	}
}
