package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/warehouse-report/internal/abc"
	"github.com/noah-isme/warehouse-report/internal/orders"
	"github.com/noah-isme/warehouse-report/internal/profit"
	"github.com/noah-isme/warehouse-report/internal/report"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func twoWarehouses() []orders.Order {
	return []orders.Order{
		{OrderID: "1", WarehouseName: "W1", HighwayCost: dec("-100"), Products: []orders.LineItem{
			{Product: "X", Price: dec("10"), Quantity: 5},
			{Product: "Y", Price: dec("20"), Quantity: 5},
		}},
		{OrderID: "2", WarehouseName: "W2", HighwayCost: dec("-20"), Products: []orders.LineItem{
			{Product: "X", Price: dec("30"), Quantity: 2},
			{Product: "Z", Price: dec("5"), Quantity: 8},
		}},
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	p, err := report.NewPipeline(twoWarehouses(), abc.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 2, p.OrderCount())

	tariffs := p.Tariffs()
	require.Len(t, tariffs, 2)
	require.True(t, tariffs[0].Tariff.Equal(dec("10")))
	require.True(t, tariffs[1].Tariff.Equal(dec("2")))

	lines := p.Lines()
	require.Len(t, lines, 4)
	require.True(t, lines[0].Profit.IsZero())
	require.True(t, lines[1].Profit.Equal(dec("50")))

	shares, err := p.WarehouseShares()
	require.NoError(t, err)
	require.Len(t, shares, 4)

	rows, err := p.Classified()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	// W2 sorts before W1 (descending); within each warehouse the smaller share comes first.
	require.Equal(t, "W2", rows[0].WarehouseName)
	require.Equal(t, "W2", rows[1].WarehouseName)
	require.Equal(t, "W1", rows[2].WarehouseName)
	require.Equal(t, "X", rows[2].Product)
	require.True(t, rows[2].Accumulated.IsZero())
	require.Equal(t, abc.CategoryA, rows[2].Category)
	require.True(t, rows[3].Accumulated.Equal(dec("100")))
	require.Equal(t, abc.CategoryC, rows[3].Category)
}

func TestPipelineSurfacesTariffErrors(t *testing.T) {
	list := append(twoWarehouses(), orders.Order{OrderID: "3", WarehouseName: "Ghost", HighwayCost: dec("5"), Products: []orders.LineItem{}})
	_, err := report.NewPipeline(list, abc.DefaultOptions())
	require.Error(t, err)
	require.True(t, errors.Is(err, profit.ErrDivisionByZero))
}

func TestPipelineZeroWarehouseProfitOnlyFailsShareViews(t *testing.T) {
	list := []orders.Order{{OrderID: "1", WarehouseName: "W", HighwayCost: dec("-10"), Products: []orders.LineItem{
		{Product: "A", Price: dec("1"), Quantity: 10},
	}}}
	p, err := report.NewPipeline(list, abc.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, p.ProductStatistics(), 1)
	require.Len(t, p.OrderProfits().Rows, 1)

	_, err = p.WarehouseShares()
	require.True(t, errors.Is(err, profit.ErrDivisionByZero))
	_, err = p.Classified()
	require.True(t, errors.Is(err, profit.ErrDivisionByZero))
}

func TestTablesRender(t *testing.T) {
	p, err := report.NewPipeline(twoWarehouses(), abc.DefaultOptions())
	require.NoError(t, err)
	tables, err := p.Tables([]string{"tariffs", "products", "orders", "shares", "abc"})
	require.NoError(t, err)
	require.Len(t, tables, 5)

	var buf bytes.Buffer
	for _, table := range tables {
		require.NoError(t, table.Render(&buf))
	}
	out := buf.String()
	for _, column := range []string{
		"warehouse_name", "tariff", "income", "expenses", "order_profit", "mean_order_profit",
		"percent_profit_product_of_warehouse", "accumulated_percent_profit_product_of_warehouse", "category",
	} {
		require.Contains(t, out, column)
	}
	require.Contains(t, out, "10.0000")
	require.Contains(t, out, "total: quantity=20")

	abcTable := tables[4]
	require.Equal(t, "C", abcTable.Rows[len(abcTable.Rows)-1][6])

	_, err = p.Tables([]string{"margins"})
	require.Error(t, err)
}

func TestOrderTableFooter(t *testing.T) {
	table := report.OrderTable(profit.OrderProfitTable{
		Rows: []profit.OrderRow{{OrderID: "1", OrderProfit: dec("10")}, {OrderID: "2", OrderProfit: dec("20")}},
		Mean: dec("15"),
	})
	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))
	require.True(t, strings.Contains(buf.String(), "mean_order_profit: 15.00"))
}
