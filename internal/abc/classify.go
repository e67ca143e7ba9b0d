// Package abc buckets warehouse product shares into A/B/C tiers by cumulative share of warehouse profit.
package abc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/warehouse-report/internal/profit"
)

// Category is an ABC tier.
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
)

// PercentOrder controls the direction in which shares are ranked within a warehouse before accumulation.
type PercentOrder string

const (
	// PercentAscending accumulates the smallest contributors first. This is the historical report ordering.
	PercentAscending PercentOrder = "asc"
	// PercentDescending accumulates the largest contributors first, as in textbook Pareto analysis.
	PercentDescending PercentOrder = "desc"
)

// ParsePercentOrder maps configuration values onto a PercentOrder. Empty input selects PercentAscending.
func ParsePercentOrder(value string) (PercentOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "asc", "ascending":
		return PercentAscending, nil
	case "desc", "descending":
		return PercentDescending, nil
	default:
		return "", fmt.Errorf("abc: unknown percent order %q", value)
	}
}

// ErrInvalidOptions is returned by Options.Validate.
var ErrInvalidOptions = errors.New("abc: invalid options")

// Options configures classification. The zero value is not valid; start from DefaultOptions.
type Options struct {
	ThresholdA decimal.Decimal
	ThresholdB decimal.Decimal
	Order      PercentOrder
}

// DefaultOptions returns the 70/90 thresholds with ascending ranking.
func DefaultOptions() Options {
	return Options{
		ThresholdA: decimal.NewFromInt(70),
		ThresholdB: decimal.NewFromInt(90),
		Order:      PercentAscending,
	}
}

// Validate checks that 0 < A <= B <= 100 and the order is known.
func (o Options) Validate() error {
	hundred := decimal.NewFromInt(100)
	if !o.ThresholdA.IsPositive() || o.ThresholdA.GreaterThan(o.ThresholdB) || o.ThresholdB.GreaterThan(hundred) {
		return fmt.Errorf("%w: thresholds must satisfy 0 < A <= B <= 100 (A=%s, B=%s)", ErrInvalidOptions, o.ThresholdA, o.ThresholdB)
	}
	if o.Order != PercentAscending && o.Order != PercentDescending {
		return fmt.Errorf("%w: unknown percent order %q", ErrInvalidOptions, o.Order)
	}
	return nil
}

// Row is a share with its running percentage and tier.
type Row struct {
	profit.Share
	Accumulated decimal.Decimal `json:"accumulated_percent_profit_product_of_warehouse"`
	Category    Category        `json:"category"`
}

// Categorize assigns the tier for an accumulated percentage. Both thresholds are inclusive.
func (o Options) Categorize(accumulated decimal.Decimal) Category {
	switch {
	case accumulated.LessThanOrEqual(o.ThresholdA):
		return CategoryA
	case accumulated.LessThanOrEqual(o.ThresholdB):
		return CategoryB
	default:
		return CategoryC
	}
}

// Classify sorts shares by warehouse name descending and percentage in the configured
// direction, accumulates the percentage within each warehouse and assigns a tier.
// The sort is stable so equal keys keep their input order. shares is not modified.
func Classify(shares []profit.Share, opts Options) ([]Row, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	rows := make([]Row, len(shares))
	for i, s := range shares {
		rows[i] = Row{Share: s}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.WarehouseName != b.WarehouseName {
			return a.WarehouseName > b.WarehouseName
		}
		if opts.Order == PercentDescending {
			return a.Percent.GreaterThan(b.Percent)
		}
		return a.Percent.LessThan(b.Percent)
	})

	running := decimal.Zero
	for i := range rows {
		if i == 0 || rows[i].WarehouseName != rows[i-1].WarehouseName {
			running = decimal.Zero
		}
		running = running.Add(rows[i].Percent)
		rows[i].Accumulated = running
		rows[i].Category = opts.Categorize(running)
	}
	return rows, nil
}

// Summary counts rows per warehouse and category.
type Summary map[string]map[Category]int

// Summarize tallies classified rows.
func Summarize(rows []Row) Summary {
	out := make(Summary)
	for _, r := range rows {
		byCategory, ok := out[r.WarehouseName]
		if !ok {
			byCategory = make(map[Category]int, 3)
			out[r.WarehouseName] = byCategory
		}
		byCategory[r.Category]++
	}
	return out
}
