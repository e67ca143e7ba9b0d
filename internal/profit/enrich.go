package profit

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/warehouse-report/internal/orders"
)

// Line is an order line joined with its warehouse tariff and the resulting money flows.
type Line struct {
	OrderID       orders.OrderID  `json:"order_id"`
	WarehouseName string          `json:"warehouse_name"`
	Product       string          `json:"product"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int64           `json:"quantity"`
	Tariff        decimal.Decimal `json:"tariff"`
	Income        decimal.Decimal `json:"income"`
	Expenses      decimal.Decimal `json:"expenses"`
	Profit        decimal.Decimal `json:"profit"`
}

// Enrich produces one Line per order line item, preserving input order.
func Enrich(list []orders.Order, tariffs Tariffs) ([]Line, error) {
	var lines []Line
	for _, o := range list {
		tariff, err := tariffs.Lookup(o.WarehouseName)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", o.OrderID, err)
		}
		for _, item := range o.Products {
			qty := decimal.NewFromInt(item.Quantity)
			income := item.Price.Mul(qty)
			expenses := tariff.Mul(qty)
			lines = append(lines, Line{
				OrderID:       o.OrderID,
				WarehouseName: o.WarehouseName,
				Product:       item.Product,
				Price:         item.Price,
				Quantity:      item.Quantity,
				Tariff:        tariff,
				Income:        income,
				Expenses:      expenses,
				Profit:        income.Sub(expenses),
			})
		}
	}
	return lines, nil
}
