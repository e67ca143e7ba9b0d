package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/warehouse-report/internal/abc"
	"github.com/noah-isme/warehouse-report/internal/profit"
)

// Table is a printable view.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	Footer  []string
}

// Render writes the table as aligned text.
func (t Table) Render(w io.Writer) error {
	if t.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n", t.Title); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t")+"\t")
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, line := range t.Footer {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func num(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func qty(n int64) string {
	return strconv.FormatInt(n, 10)
}

// TariffTable renders the warehouse tariffs.
func TariffTable(rows []profit.TariffRow) Table {
	t := Table{Title: "Warehouse tariffs", Columns: []string{"warehouse_name", "tariff"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.WarehouseName, r.Tariff.StringFixed(4)})
	}
	return t
}

// ProductTable renders per-product statistics with a totals footer.
func ProductTable(rows []profit.ProductRow, totals profit.Totals) Table {
	t := Table{Title: "Product statistics", Columns: []string{"product", "quantity", "income", "expenses", "profit"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Product, qty(r.Quantity), num(r.Income), num(r.Expenses), num(r.Profit)})
	}
	t.Footer = []string{fmt.Sprintf("total: quantity=%d income=%s expenses=%s profit=%s",
		totals.Quantity, num(totals.Income), num(totals.Expenses), num(totals.Profit))}
	return t
}

// OrderTable renders order profits followed by the mean.
func OrderTable(table profit.OrderProfitTable) Table {
	t := Table{Title: "Order profit", Columns: []string{"order_id", "order_profit"}}
	for _, r := range table.Rows {
		t.Rows = append(t.Rows, []string{string(r.OrderID), num(r.OrderProfit)})
	}
	t.Footer = []string{"mean_order_profit: " + num(table.Mean)}
	return t
}

// ShareTable renders warehouse product shares.
func ShareTable(rows []profit.Share) Table {
	t := Table{
		Title:   "Product share of warehouse profit",
		Columns: []string{"warehouse_name", "product", "quantity", "profit", "percent_profit_product_of_warehouse"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.WarehouseName, r.Product, qty(r.Quantity), num(r.Profit), r.Percent.StringFixed(4)})
	}
	return t
}

// ABCTable renders classified shares.
func ABCTable(rows []abc.Row) Table {
	t := Table{
		Title: "ABC classification",
		Columns: []string{"warehouse_name", "product", "quantity", "profit", "percent_profit_product_of_warehouse",
			"accumulated_percent_profit_product_of_warehouse", "category"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.WarehouseName, r.Product, qty(r.Quantity), num(r.Profit),
			r.Percent.StringFixed(4), r.Accumulated.StringFixed(4), string(r.Category),
		})
	}
	return t
}

// Tables builds the requested views from p in the given order.
func (p *Pipeline) Tables(views []string) ([]Table, error) {
	out := make([]Table, 0, len(views))
	for _, view := range views {
		switch View(view) {
		case ViewTariffs:
			out = append(out, TariffTable(p.Tariffs()))
		case ViewProducts:
			out = append(out, ProductTable(p.ProductStatistics(), p.Totals()))
		case ViewOrders:
			out = append(out, OrderTable(p.OrderProfits()))
		case ViewShares:
			shares, err := p.WarehouseShares()
			if err != nil {
				return nil, err
			}
			out = append(out, ShareTable(shares))
		case ViewABC:
			rows, err := p.Classified()
			if err != nil {
				return nil, err
			}
			out = append(out, ABCTable(rows))
		default:
			return nil, fmt.Errorf("unknown view %q", view)
		}
	}
	return out, nil
}
