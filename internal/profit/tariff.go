package profit

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/warehouse-report/internal/orders"
)

// Tariffs maps a warehouse name to its per-unit delivery cost.
type Tariffs map[string]decimal.Decimal

// TariffRow is one line of the tariff table.
type TariffRow struct {
	WarehouseName string          `json:"warehouse_name"`
	Tariff        decimal.Decimal `json:"tariff"`
}

// ResolveTariffs derives a per-unit delivery cost for every warehouse as the absolute
// highway cost of all its orders divided by the units shipped by those orders.
func ResolveTariffs(list []orders.Order) (Tariffs, error) {
	type acc struct {
		cost     decimal.Decimal
		quantity int64
	}
	totals := make(map[string]*acc)
	for _, o := range list {
		a, ok := totals[o.WarehouseName]
		if !ok {
			a = &acc{cost: decimal.Zero}
			totals[o.WarehouseName] = a
		}
		a.cost = a.cost.Add(o.HighwayCost)
		a.quantity += o.Quantity()
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	tariffs := make(Tariffs, len(totals))
	for _, name := range names {
		a := totals[name]
		if a.quantity == 0 {
			return nil, fmt.Errorf("warehouse %q: total quantity is zero: %w", name, ErrDivisionByZero)
		}
		tariffs[name] = a.cost.Abs().Div(decimal.NewFromInt(a.quantity))
	}
	return tariffs, nil
}

// Lookup returns the tariff of warehouse.
func (t Tariffs) Lookup(warehouse string) (decimal.Decimal, error) {
	tariff, ok := t[warehouse]
	if !ok {
		return decimal.Zero, fmt.Errorf("warehouse %q: %w", warehouse, ErrTariffNotFound)
	}
	return tariff, nil
}

// Table lists tariffs ordered by warehouse name.
func (t Tariffs) Table() []TariffRow {
	rows := make([]TariffRow, 0, len(t))
	for name, tariff := range t {
		rows = append(rows, TariffRow{WarehouseName: name, Tariff: tariff})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].WarehouseName < rows[j].WarehouseName })
	return rows
}
