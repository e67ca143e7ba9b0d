package orders

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// orderRecord mirrors the JSON document so that absent fields can be told apart from zero values.
type orderRecord struct {
	OrderID       *OrderID          `json:"order_id" validate:"required"`
	WarehouseName *string           `json:"warehouse_name" validate:"required"`
	HighwayCost   *decimal.Decimal  `json:"highway_cost" validate:"required"`
	Products      *[]lineItemRecord `json:"products" validate:"required"`
}

type lineItemRecord struct {
	Product  *string          `json:"product" validate:"required"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Quantity *int64           `json:"quantity" validate:"required"`
}

func (r orderRecord) toOrder() Order {
	o := Order{
		OrderID:       *r.OrderID,
		WarehouseName: *r.WarehouseName,
		HighwayCost:   *r.HighwayCost,
		Products:      make([]LineItem, 0, len(*r.Products)),
	}
	for _, item := range *r.Products {
		o.Products = append(o.Products, LineItem{
			Product:  *item.Product,
			Price:    *item.Price,
			Quantity: *item.Quantity,
		})
	}
	return o
}

func checkRecords(records []orderRecord) error {
	v := orderValidator()
	for i, r := range records {
		if err := v.Struct(r); err != nil {
			return fmt.Errorf("%w: order #%d: %s", ErrInvalidInput, i, describe(err))
		}
		if r.Products == nil {
			continue
		}
		for j, item := range *r.Products {
			if err := v.Struct(item); err != nil {
				return fmt.Errorf("%w: order #%d (order_id=%q) product #%d: %s", ErrInvalidInput, i, *r.OrderID, j, describe(err))
			}
		}
	}
	return nil
}
