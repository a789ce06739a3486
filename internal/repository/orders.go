package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leporo/sqlf"

	"vendorconnect/internal/domain"
)

// OrderRepo stores vendor orders and their lines.
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

func selectOrder(o *domain.Order, status *string) *sqlf.Stmt {
	return sqlf.PostgreSQL.From("orders o").
		Select("o.id").To(&o.ID).
		Select("o.vendor_id").To(&o.VendorID).
		Select("o.group_order_id").To(&o.GroupOrderID).
		Select("o.transport_id").To(&o.TransportID).
		Select("o.total_amount").To(&o.TotalAmount).
		Select("o.status").To(status).
		Select("o.delivery_address").To(&o.DeliveryAddress).
		Select("o.delivery_date").To(&o.DeliveryDate).
		Select("o.delivery_slot").To(&o.DeliverySlot).
		Select("o.notes").To(&o.Notes).
		Select("o.created_at").To(&o.CreatedAt).
		Select("o.updated_at").To(&o.UpdatedAt)
}

// Insert stores o with its lines in one transaction, filling in ids and timestamps.
func (r *OrderRepo) Insert(ctx context.Context, o *domain.Order) error {
	return runTx(ctx, r.db, func(tx *TxRepo) error {
		q := sqlf.PostgreSQL.InsertInto("orders").
			Set("vendor_id", o.VendorID).
			Set("group_order_id", o.GroupOrderID).
			Set("transport_id", o.TransportID).
			Set("total_amount", o.TotalAmount).
			Set("status", string(o.Status)).
			Set("delivery_address", o.DeliveryAddress).
			Set("delivery_date", o.DeliveryDate).
			Set("delivery_slot", o.DeliverySlot).
			Set("notes", o.Notes).
			Returning("id").To(&o.ID).
			Returning("created_at").To(&o.CreatedAt).
			Returning("updated_at").To(&o.UpdatedAt)
		if err := queryOne(ctx, tx.tx, q); err != nil {
			return aggregateErr(err, "insert order")
		}

		for i := range o.Items {
			it := &o.Items[i]
			it.OrderID = o.ID
			iq := sqlf.PostgreSQL.InsertInto("order_items").
				Set("order_id", it.OrderID).
				Set("product_id", it.ProductID).
				Set("supplier_id", it.SupplierID).
				Set("quantity", it.Quantity).
				Set("unit_price", it.UnitPrice).
				Set("total_price", it.TotalPrice).
				Returning("id").To(&it.ID)
			if err := queryOne(ctx, tx.tx, iq); err != nil {
				return aggregateErr(err, "insert order item")
			}
		}
		return nil
	})
}

// Get returns the order with all its lines, or nil when it does not exist.
func (r *OrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	if err := queryOne(ctx, r.db, selectOrder(&o, &status).Where("o.id = ?", id)); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	o.Status = domain.OrderStatus(status)

	orders := []domain.Order{o}
	if err := r.loadItems(ctx, orders, 0); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListByVendor returns one page of the vendor's orders, newest first.
func (r *OrderRepo) ListByVendor(ctx context.Context, vendorID int64, f domain.OrderFilter, page domain.Page) ([]domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	q := selectOrder(&o, &status).Where("o.vendor_id = ?", vendorID)
	return r.list(ctx, q, &o, &status, f, page, 0)
}

// ListBySupplier returns one page of orders containing the supplier's products,
// newest first. Only the supplier's own lines are loaded.
func (r *OrderRepo) ListBySupplier(ctx context.Context, supplierID int64, f domain.OrderFilter, page domain.Page) ([]domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	q := selectOrder(&o, &status).
		Where("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.supplier_id = ?)", supplierID)
	return r.list(ctx, q, &o, &status, f, page, supplierID)
}

func (r *OrderRepo) list(
	ctx context.Context, q *sqlf.Stmt, o *domain.Order, status *string,
	f domain.OrderFilter, page domain.Page, supplierID int64,
) ([]domain.Order, error) {
	if f.Status != nil {
		q.Where("o.status = ?", string(*f.Status))
	}
	q.OrderBy("o.created_at DESC", "o.id DESC").Limit(page.Limit).Offset(page.Offset)

	out := make([]domain.Order, 0, page.Limit)
	err := queryAll(ctx, r.db, q, func() {
		row := *o
		row.Status = domain.OrderStatus(*status)
		row.GroupOrderID = clonePtr(o.GroupOrderID)
		row.TransportID = clonePtr(o.TransportID)
		row.DeliveryDate = clonePtr(o.DeliveryDate)
		out = append(out, row)
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := r.loadItems(ctx, out, supplierID); err != nil {
		return nil, err
	}
	return out, nil
}

// loadItems attaches the lines of every order, restricted to supplierID when non-zero.
func (r *OrderRepo) loadItems(ctx context.Context, orders []domain.Order, supplierID int64) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	var it domain.OrderItem
	q := sqlf.PostgreSQL.From("order_items").
		Select("id").To(&it.ID).
		Select("order_id").To(&it.OrderID).
		Select("product_id").To(&it.ProductID).
		Select("supplier_id").To(&it.SupplierID).
		Select("quantity").To(&it.Quantity).
		Select("unit_price").To(&it.UnitPrice).
		Select("total_price").To(&it.TotalPrice).
		Where("order_id = ANY(?)", ids)
	if supplierID != 0 {
		q.Where("supplier_id = ?", supplierID)
	}
	q.OrderBy("order_id", "id")

	err := queryAll(ctx, r.db, q, func() {
		i := index[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	})
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	return nil
}

// UpdateStatus moves the order from one status to another. It reports false
// when the order no longer has status from.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *domain.Order, from domain.OrderStatus) (bool, error) {
	q := sqlf.PostgreSQL.Update("orders").
		Set("status", string(o.Status)).
		SetExpr("updated_at", "now()").
		Where("id = ? AND status = ?", o.ID, string(from)).
		Returning("updated_at").To(&o.UpdatedAt)
	if err := queryOne(ctx, r.db, q); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("update order %d status: %w", o.ID, err)
	}
	return true, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
