package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/warehouse-report/internal/abc"
	"github.com/noah-isme/warehouse-report/internal/obs"
	"github.com/noah-isme/warehouse-report/internal/orders"
	"github.com/noah-isme/warehouse-report/internal/profit"
)

// View names a report view.
type View string

const (
	ViewTariffs  View = "tariffs"
	ViewProducts View = "products"
	ViewOrders   View = "orders"
	ViewShares   View = "shares"
	ViewABC      View = "abc"
)

// ProductReport is the product statistics view with grand totals.
type ProductReport struct {
	Rows   []profit.ProductRow `json:"rows"`
	Totals profit.Totals       `json:"totals"`
}

// Service builds report views from a source, caching each view in Redis.
type Service struct {
	Source  orders.Source
	Cache   *Cache
	Options abc.Options
	Metrics *obs.ReportMetrics
	Logger  zerolog.Logger
}

// Pipeline loads the dataset and builds a pipeline over it.
func (s *Service) Pipeline(ctx context.Context) (*Pipeline, error) {
	if s == nil || s.Source == nil {
		return nil, errors.New("report service not configured")
	}
	ctx, span := obs.StartSpan(ctx, "report.load", attribute.String("source", s.Source.Name()))
	list, err := s.Source.Load(ctx)
	if err != nil {
		obs.EndSpan(span, err)
		return nil, fmt.Errorf("load orders: %w", err)
	}
	span.SetAttributes(attribute.Int("orders", len(list)))
	if s.Metrics != nil {
		s.Metrics.OrdersLoaded.Set(float64(len(list)))
	}
	p, err := NewPipeline(list, s.Options)
	obs.EndSpan(span, err)
	return p, err
}

// Tariffs returns the tariff view.
func (s *Service) Tariffs(ctx context.Context) ([]profit.TariffRow, error) {
	return cachedView(ctx, s, ViewTariffs, func(p *Pipeline) ([]profit.TariffRow, error) {
		return p.Tariffs(), nil
	})
}

// Products returns per-product statistics with grand totals.
func (s *Service) Products(ctx context.Context) (ProductReport, error) {
	return cachedView(ctx, s, ViewProducts, func(p *Pipeline) (ProductReport, error) {
		return ProductReport{Rows: p.ProductStatistics(), Totals: p.Totals()}, nil
	})
}

// Orders returns order profits and their mean.
func (s *Service) Orders(ctx context.Context) (profit.OrderProfitTable, error) {
	return cachedView(ctx, s, ViewOrders, func(p *Pipeline) (profit.OrderProfitTable, error) {
		return p.OrderProfits(), nil
	})
}

// Shares returns warehouse product shares.
func (s *Service) Shares(ctx context.Context) ([]profit.Share, error) {
	return cachedView(ctx, s, ViewShares, func(p *Pipeline) ([]profit.Share, error) {
		return p.WarehouseShares()
	})
}

// Classified returns the ABC classification.
func (s *Service) Classified(ctx context.Context) ([]abc.Row, error) {
	return cachedView(ctx, s, ViewABC, func(p *Pipeline) ([]abc.Row, error) {
		rows, err := p.Classified()
		if err != nil {
			return nil, err
		}
		if s.Metrics != nil {
			for _, r := range rows {
				s.Metrics.ClassifiedRows.WithLabelValues(string(r.Category)).Inc()
			}
		}
		return rows, nil
	})
}

// cachedView serves a view from the cache or builds it from a freshly loaded pipeline and stores it.
func cachedView[T any](ctx context.Context, s *Service, view View, build func(*Pipeline) (T, error)) (T, error) {
	var zero T
	if s == nil || s.Source == nil {
		return zero, errors.New("report service not configured")
	}
	key := cacheKey("report", s.Source.Name(), view, s.Options.Order, s.Options.ThresholdA, s.Options.ThresholdB)

	var cached T
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err != nil {
		s.Logger.Warn().Err(err).Str("view", string(view)).Msg("report cache read failed")
	} else if ok {
		s.observe(view, "cache_hit", 0)
		return cached, nil
	}

	start := time.Now()
	ctx, span := obs.StartSpan(ctx, "report."+string(view))
	value, err := func() (T, error) {
		p, err := s.Pipeline(ctx)
		if err != nil {
			return zero, err
		}
		return build(p)
	}()
	obs.EndSpan(span, err)
	if err != nil {
		s.observe(view, "error", time.Since(start))
		return zero, err
	}
	s.observe(view, "ok", time.Since(start))

	if err := s.Cache.SetJSON(ctx, key, value); err != nil {
		s.Logger.Warn().Err(err).Str("view", string(view)).Msg("report cache write failed")
	}
	return value, nil
}

func (s *Service) observe(view View, result string, d time.Duration) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.BuildsTotal.WithLabelValues(string(view), result).Inc()
	if result != "cache_hit" {
		s.Metrics.BuildDuration.WithLabelValues(string(view)).Observe(obs.DurationMillis(d))
	}
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}
