package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderID identifies an order. Datasets encode it either as a JSON number or a string.
type OrderID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *OrderID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = OrderID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("order_id: %w", err)
	}
	*id = OrderID(n.String())
	return nil
}

// Less orders identifiers numerically when both are integers and lexically otherwise.
func (id OrderID) Less(other OrderID) bool {
	a, errA := strconv.ParseInt(string(id), 10, 64)
	b, errB := strconv.ParseInt(string(other), 10, 64)
	if errA == nil && errB == nil {
		return a < b
	}
	return id < other
}

// LineItem is a single product line of an order.
type LineItem struct {
	Product  string          `json:"product" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int64           `json:"quantity" validate:"gte=1"`
}

// Order is a raw order record as stored in the dataset.
type Order struct {
	OrderID       OrderID         `json:"order_id" validate:"required"`
	WarehouseName string          `json:"warehouse_name" validate:"required"`
	HighwayCost   decimal.Decimal `json:"highway_cost"`
	Products      []LineItem      `json:"products" validate:"dive"`
}

// Quantity returns the number of units shipped with the order.
func (o Order) Quantity() int64 {
	var total int64
	for _, item := range o.Products {
		total += item.Quantity
	}
	return total
}

// SortByID orders the list by OrderID in place, keeping the relative order of equal identifiers.
func SortByID(list []Order) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].OrderID.Less(list[j].OrderID)
	})
}
