// Package report assembles the profit and ABC views over a loaded order dataset.
package report

import (
	"fmt"

	"github.com/noah-isme/warehouse-report/internal/abc"
	"github.com/noah-isme/warehouse-report/internal/orders"
	"github.com/noah-isme/warehouse-report/internal/profit"
)

// Pipeline holds a dataset with its tariffs resolved and lines enriched.
// Views are derived from the enriched lines on every call.
type Pipeline struct {
	orders  []orders.Order
	tariffs profit.Tariffs
	lines   []profit.Line
	opts    abc.Options
}

// NewPipeline resolves tariffs and enriches every order line.
func NewPipeline(list []orders.Order, opts abc.Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	tariffs, err := profit.ResolveTariffs(list)
	if err != nil {
		return nil, fmt.Errorf("resolve tariffs: %w", err)
	}
	lines, err := profit.Enrich(list, tariffs)
	if err != nil {
		return nil, fmt.Errorf("enrich lines: %w", err)
	}
	return &Pipeline{orders: list, tariffs: tariffs, lines: lines, opts: opts}, nil
}

// OrderCount returns the number of orders in the dataset.
func (p *Pipeline) OrderCount() int { return len(p.orders) }

// Lines returns the enriched order lines.
func (p *Pipeline) Lines() []profit.Line { return p.lines }

// Tariffs returns the tariff table ordered by warehouse.
func (p *Pipeline) Tariffs() []profit.TariffRow { return p.tariffs.Table() }

// ProductStatistics returns per-product totals.
func (p *Pipeline) ProductStatistics() []profit.ProductRow { return profit.ProductStatistics(p.lines) }

// OrderProfits returns per-order profit and the mean order profit.
func (p *Pipeline) OrderProfits() profit.OrderProfitTable { return profit.OrderProfits(p.lines) }

// Totals returns grand totals over every line.
func (p *Pipeline) Totals() profit.Totals { return profit.Sum(p.lines) }

// WarehouseShares returns each product's share of its warehouse profit.
func (p *Pipeline) WarehouseShares() ([]profit.Share, error) {
	shares, err := profit.WarehouseProductShares(p.lines)
	if err != nil {
		return nil, fmt.Errorf("warehouse shares: %w", err)
	}
	return shares, nil
}

// Classified returns the ABC classification of the warehouse shares.
func (p *Pipeline) Classified() ([]abc.Row, error) {
	shares, err := p.WarehouseShares()
	if err != nil {
		return nil, err
	}
	return abc.Classify(shares, p.opts)
}
