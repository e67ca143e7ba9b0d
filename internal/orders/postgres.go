package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Querier is the subset of pgx used to read orders. *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TxBeginner starts transactions for Store writes. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

const selectOrderLines = `
SELECT o.order_id, o.warehouse_name, o.highway_cost::text,
       l.product, l.price::text, l.quantity
FROM orders o
LEFT JOIN order_lines l ON l.order_id = o.order_id
ORDER BY o.order_id, l.position`

// PostgresSource reads orders from the orders/order_lines tables.
type PostgresSource struct {
	DB Querier
}

// Name identifies the source in cache keys and logs.
func (PostgresSource) Name() string {
	return "postgres"
}

// Load reads every order with its lines.
func (s PostgresSource) Load(ctx context.Context) ([]Order, error) {
	if s.DB == nil {
		return nil, errors.New("orders: database not configured")
	}
	rows, err := s.DB.Query(ctx, selectOrderLines)
	if err != nil {
		return nil, fmt.Errorf("orders: query: %w", err)
	}
	defer rows.Close()

	var flat []lineRow
	for rows.Next() {
		var r lineRow
		if err := rows.Scan(&r.OrderID, &r.WarehouseName, &r.HighwayCost, &r.Product, &r.Price, &r.Quantity); err != nil {
			return nil, fmt.Errorf("orders: scan: %w", err)
		}
		flat = append(flat, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: rows: %w", err)
	}
	list, err := assemble(flat)
	if err != nil {
		return nil, err
	}
	if err := Validate(list); err != nil {
		return nil, err
	}
	SortByID(list)
	return list, nil
}

// lineRow is one row of the orders/order_lines join. Line columns are NULL for orders without lines.
type lineRow struct {
	OrderID       string
	WarehouseName string
	HighwayCost   string
	Product       *string
	Price         *string
	Quantity      *int64
}

// assemble folds joined rows into orders. Rows of the same order must be adjacent.
func assemble(rows []lineRow) ([]Order, error) {
	var (
		list  []Order
		index = make(map[string]int)
	)
	for _, r := range rows {
		pos, seen := index[r.OrderID]
		if !seen {
			cost, err := decimal.NewFromString(r.HighwayCost)
			if err != nil {
				return nil, fmt.Errorf("%w: order_id=%q highway_cost: %v", ErrInvalidInput, r.OrderID, err)
			}
			list = append(list, Order{
				OrderID:       OrderID(r.OrderID),
				WarehouseName: r.WarehouseName,
				HighwayCost:   cost,
				Products:      []LineItem{},
			})
			pos = len(list) - 1
			index[r.OrderID] = pos
		}
		if r.Product == nil {
			continue
		}
		if r.Price == nil || r.Quantity == nil {
			return nil, fmt.Errorf("%w: order_id=%q product %q: incomplete line", ErrInvalidInput, r.OrderID, *r.Product)
		}
		price, err := decimal.NewFromString(*r.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: order_id=%q product %q price: %v", ErrInvalidInput, r.OrderID, *r.Product, err)
		}
		list[pos].Products = append(list[pos].Products, LineItem{
			Product:  *r.Product,
			Price:    price,
			Quantity: *r.Quantity,
		})
	}
	return list, nil
}

// Store writes datasets into PostgreSQL.
type Store struct {
	DB TxBeginner
}

// Replace swaps the stored dataset for list in a single transaction.
func (s Store) Replace(ctx context.Context, list []Order) (err error) {
	if s.DB == nil {
		return errors.New("orders: database not configured")
	}
	if err := Validate(list); err != nil {
		return err
	}
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("orders: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("orders: clear: %w", err)
	}
	batch := &pgx.Batch{}
	for _, o := range list {
		batch.Queue(`INSERT INTO orders (order_id, warehouse_name, highway_cost) VALUES ($1, $2, $3::numeric)`,
			string(o.OrderID), o.WarehouseName, o.HighwayCost.String())
		for i, item := range o.Products {
			batch.Queue(`INSERT INTO order_lines (order_id, position, product, price, quantity) VALUES ($1, $2, $3, $4::numeric, $5)`,
				string(o.OrderID), i, item.Product, item.Price.String(), item.Quantity)
		}
	}
	results := tx.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err = results.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				err = fmt.Errorf("%w: duplicate order_id: %s", ErrInvalidInput, pgErr.Detail)
			}
			_ = results.Close()
			return fmt.Errorf("orders: insert: %w", err)
		}
	}
	if err = results.Close(); err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("orders: commit: %w", err)
	}
	return nil
}
