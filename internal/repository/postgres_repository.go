package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
)

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT id, name, price, cost, stock, date_added
	          FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Cost,
		&p.Stock,
		&p.DateAdded,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT id, name, price, cost, stock, date_added
	          FROM products ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Price,
			&p.Cost,
			&p.Stock,
			&p.DateAdded,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, name, price, cost, stock, date_added)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, insertErr := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Price,
		p.Cost,
		p.Stock,
		p.DateAdded)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateProduct
		}
		return fmt.Errorf("insert product: %w", insertErr)
	}
	return nil
}

// AddStock increments the stock level atomically and returns the new level.
func (r *Repository) AddStock(ctx context.Context, id string, qty int) (int, error) {
	query := `UPDATE products SET stock = stock + $2 WHERE id = $1 RETURNING stock`

	var newStock int
	err := r.db.QueryRowContext(ctx, query, id, qty).Scan(&newStock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("add stock for %s: %w", id, err)
	}
	return newStock, nil
}

func (r *Repository) ListSales(ctx context.Context) ([]*domain.SaleRecord, error) {
	query := `SELECT id, product_id, name, price, cost, quantity, total, created_at
	          FROM sales ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []*domain.SaleRecord
	for rows.Next() {
		s := &domain.SaleRecord{}
		if err := rows.Scan(
			&s.ID,
			&s.ProductID,
			&s.Name,
			&s.Price,
			&s.Cost,
			&s.Quantity,
			&s.Total,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sales, nil
}

// RecordSale runs the stock decrement, the ledger insert and the outbox insert
// in one transaction. The decrement is conditional on the current stock level,
// so two concurrent sales of the same product can never jointly oversell: the
// row lock serializes them and the loser fails the WHERE clause.
func (r *Repository) RecordSale(ctx context.Context, sale *domain.SaleRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("record sale %s qty %d: begin tx: %w", sale.ProductID, sale.Quantity, err)
	}
	defer tx.Rollback()

	var newStock int
	err = tx.QueryRowContext(ctx,
		`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2 RETURNING stock`,
		sale.ProductID, sale.Quantity).Scan(&newStock)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the product is missing or the stock ran out; look again to tell.
		var stock int
		e2 := tx.QueryRowContext(ctx,
			`SELECT stock FROM products WHERE id = $1`, sale.ProductID).Scan(&stock)
		if errors.Is(e2, sql.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		if e2 != nil {
			return 0, fmt.Errorf("record sale %s qty %d: check stock: %w", sale.ProductID, sale.Quantity, e2)
		}
		return 0, ErrInsufficientStock
	}
	if err != nil {
		return 0, fmt.Errorf("record sale %s qty %d: decrement stock: %w", sale.ProductID, sale.Quantity, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sales (id, product_id, name, price, cost, quantity, total, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sale.ID,
		sale.ProductID,
		sale.Name,
		sale.Price,
		sale.Cost,
		sale.Quantity,
		sale.Total,
		sale.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("record sale %s qty %d: append ledger: %w", sale.ProductID, sale.Quantity, err)
	}

	payload, err := json.Marshal(sale)
	if err != nil {
		return 0, fmt.Errorf("record sale %s qty %d: marshal outbox payload: %w", sale.ProductID, sale.Quantity, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sale_outbox (aggregate_id, event_type, payload)
		 VALUES ($1, $2, $3)`,
		sale.ID.String(), "sale.recorded", payload)
	if err != nil {
		return 0, fmt.Errorf("record sale %s qty %d: insert outbox: %w", sale.ProductID, sale.Quantity, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record sale %s qty %d: commit: %w", sale.ProductID, sale.Quantity, err)
	}
	return newStock, nil
}

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM sale_outbox WHERE processed = FALSE ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		ev := &OutboxEvent{}
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

func (r *Repository) MarkEventAsProcessed(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sale_outbox SET processed = TRUE, processed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark outbox event %d processed: %w", id, err)
	}
	return nil
}
