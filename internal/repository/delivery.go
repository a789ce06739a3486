package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leporo/sqlf"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/ports/deliverytx"
)

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error {
	return runTx(ctx, r.db, func(tx *TxRepo) error { return fn(tx) })
}

type deliveryRow struct {
	ID           int64
	GroupOrderID int64
	DeliveryDate *time.Time
	Status       string
	TrackingLink string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func selectDelivery(r *deliveryRow) *sqlf.Stmt {
	return sqlf.PostgreSQL.From("deliveries").
		Select("id").To(&r.ID).
		Select("group_order_id").To(&r.GroupOrderID).
		Select("delivery_date").To(&r.DeliveryDate).
		Select("status").To(&r.Status).
		Select("tracking_link").To(&r.TrackingLink).
		Select("created_at").To(&r.CreatedAt).
		Select("updated_at").To(&r.UpdatedAt)
}

func (r deliveryRow) toDomain() *domain.Delivery {
	return &domain.Delivery{
		ID:           r.ID,
		GroupOrderID: r.GroupOrderID,
		DeliveryDate: r.DeliveryDate,
		Status:       domain.DeliveryStatus(r.Status),
		TrackingLink: r.TrackingLink,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func getDelivery(ctx context.Context, db querier, where string, arg any, forUpdate bool) (*domain.Delivery, error) {
	var row deliveryRow
	q := selectDelivery(&row).Where(where, arg)
	if forUpdate {
		q.Clause("FOR UPDATE")
	}
	if err := queryOne(ctx, db, q); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return row.toDomain(), nil
}

// Get returns the delivery by id, or nil.
func (r *DeliveryRepo) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	return getDelivery(ctx, r.db, "id = ?", id, false)
}

// GetDeliveryByGroupOrder returns the delivery of a group order, or nil.
func (r *TxRepo) GetDeliveryByGroupOrder(ctx context.Context, groupOrderID int64) (*domain.Delivery, error) {
	return getDelivery(ctx, r.tx, "group_order_id = ?", groupOrderID, false)
}

// GetDeliveryForUpdate reads and locks a delivery.
func (r *TxRepo) GetDeliveryForUpdate(ctx context.Context, id int64) (*domain.Delivery, error) {
	return getDelivery(ctx, r.tx, "id = ?", id, true)
}

// InsertDelivery inserts d and fills in its id. A second delivery for the
// same group order is rejected with apperr.ErrAlreadyJoined.
func (r *TxRepo) InsertDelivery(ctx context.Context, d *domain.Delivery) error {
	q := sqlf.PostgreSQL.InsertInto("deliveries").
		Set("group_order_id", d.GroupOrderID).
		Set("delivery_date", d.DeliveryDate).
		Set("status", string(d.Status)).
		Set("tracking_link", d.TrackingLink).
		Returning("id").To(&d.ID).
		Returning("created_at").To(&d.CreatedAt).
		Returning("updated_at").To(&d.UpdatedAt)
	if err := queryOne(ctx, r.tx, q); err != nil {
		return aggregateErr(err, "insert delivery")
	}
	return nil
}

// UpdateDeliveryStatus sets the status of a delivery.
func (r *TxRepo) UpdateDeliveryStatus(ctx context.Context, id int64, status domain.DeliveryStatus) error {
	q := sqlf.PostgreSQL.Update("deliveries").
		Set("status", string(status)).
		SetExpr("updated_at", "now()").
		Where("id = ?", id)
	defer q.Close()

	ct, err := r.tx.Exec(ctx, q.String(), q.Args()...)
	if err != nil {
		return fmt.Errorf("update delivery %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
