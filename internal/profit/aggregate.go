package profit

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/warehouse-report/internal/orders"
)

var hundred = decimal.NewFromInt(100)

// ProductRow holds the totals of a single product across all orders.
type ProductRow struct {
	Product  string          `json:"product"`
	Quantity int64           `json:"quantity"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// OrderRow holds the profit of a single order.
type OrderRow struct {
	OrderID     orders.OrderID  `json:"order_id"`
	OrderProfit decimal.Decimal `json:"order_profit"`
}

// OrderProfitTable lists order profits together with their mean.
type OrderProfitTable struct {
	Rows []OrderRow      `json:"rows"`
	Mean decimal.Decimal `json:"mean_order_profit"`
}

// Share is the profit contribution of a product within a warehouse.
type Share struct {
	WarehouseName string          `json:"warehouse_name"`
	Product       string          `json:"product"`
	Quantity      int64           `json:"quantity"`
	Profit        decimal.Decimal `json:"profit"`
	Percent       decimal.Decimal `json:"percent_profit_product_of_warehouse"`
}

// Totals are grand totals over every enriched line.
type Totals struct {
	Quantity int64           `json:"quantity"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// ProductStatistics sums quantity, income, expenses and profit per product, ordered by product.
func ProductStatistics(lines []Line) []ProductRow {
	index := make(map[string]int)
	var rows []ProductRow
	for _, l := range lines {
		i, ok := index[l.Product]
		if !ok {
			rows = append(rows, ProductRow{Product: l.Product, Income: decimal.Zero, Expenses: decimal.Zero, Profit: decimal.Zero})
			i = len(rows) - 1
			index[l.Product] = i
		}
		r := &rows[i]
		r.Quantity += l.Quantity
		r.Income = r.Income.Add(l.Income)
		r.Expenses = r.Expenses.Add(l.Expenses)
		r.Profit = r.Profit.Add(l.Profit)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Product < rows[j].Product })
	return rows
}

// OrderProfits sums profit per order and computes the mean order profit.
// Orders without lines do not appear. The mean of an empty table is zero.
func OrderProfits(lines []Line) OrderProfitTable {
	index := make(map[orders.OrderID]int)
	var rows []OrderRow
	for _, l := range lines {
		i, ok := index[l.OrderID]
		if !ok {
			rows = append(rows, OrderRow{OrderID: l.OrderID, OrderProfit: decimal.Zero})
			i = len(rows) - 1
			index[l.OrderID] = i
		}
		rows[i].OrderProfit = rows[i].OrderProfit.Add(l.Profit)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].OrderID.Less(rows[j].OrderID) })

	mean := decimal.Zero
	if len(rows) > 0 {
		sum := decimal.Zero
		for _, r := range rows {
			sum = sum.Add(r.OrderProfit)
		}
		mean = sum.Div(decimal.NewFromInt(int64(len(rows))))
	}
	return OrderProfitTable{Rows: rows, Mean: mean}
}

// WarehouseProductShares sums quantity and profit per (warehouse, product) and expresses
// each profit as a percentage of its warehouse's total profit. Rows are ordered by
// warehouse then product.
func WarehouseProductShares(lines []Line) ([]Share, error) {
	type key struct{ warehouse, product string }
	index := make(map[key]int)
	var rows []Share
	for _, l := range lines {
		k := key{l.WarehouseName, l.Product}
		i, ok := index[k]
		if !ok {
			rows = append(rows, Share{WarehouseName: l.WarehouseName, Product: l.Product, Profit: decimal.Zero})
			i = len(rows) - 1
			index[k] = i
		}
		rows[i].Quantity += l.Quantity
		rows[i].Profit = rows[i].Profit.Add(l.Profit)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WarehouseName != rows[j].WarehouseName {
			return rows[i].WarehouseName < rows[j].WarehouseName
		}
		return rows[i].Product < rows[j].Product
	})

	warehouseProfit := make(map[string]decimal.Decimal)
	for _, r := range rows {
		warehouseProfit[r.WarehouseName] = warehouseProfit[r.WarehouseName].Add(r.Profit)
	}
	for i := range rows {
		total := warehouseProfit[rows[i].WarehouseName]
		if total.IsZero() {
			return nil, fmt.Errorf("warehouse %q: total profit is zero: %w", rows[i].WarehouseName, ErrDivisionByZero)
		}
		rows[i].Percent = rows[i].Profit.Mul(hundred).Div(total)
	}
	return rows, nil
}

// Sum computes grand totals directly from enriched lines.
func Sum(lines []Line) Totals {
	t := Totals{Income: decimal.Zero, Expenses: decimal.Zero, Profit: decimal.Zero}
	for _, l := range lines {
		t.Quantity += l.Quantity
		t.Income = t.Income.Add(l.Income)
		t.Expenses = t.Expenses.Add(l.Expenses)
		t.Profit = t.Profit.Add(l.Profit)
	}
	return t
}
