package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leporo/sqlf"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/geo"
	"vendorconnect/internal/ports/grouptx"
)

// GroupOrderRepo represents group order repository.
type GroupOrderRepo struct{ db *pgxpool.Pool }

// NewGroupOrderRepo creates a new GroupOrderRepo.
func NewGroupOrderRepo(db *pgxpool.Pool) *GroupOrderRepo { return &GroupOrderRepo{db: db} }

// WithTx opens a transaction and executes fn within it.
func (r *GroupOrderRepo) WithTx(ctx context.Context, fn func(tx grouptx.Repository) error) error {
	return runTx(ctx, r.db, func(tx *TxRepo) error { return fn(tx) })
}

type groupOrderRow struct {
	ID                  int64
	Name                string
	Description         string
	InitiatorID         int64
	Status              string
	MinParticipants     int
	MaxParticipants     *int
	CurrentParticipants int
	TargetAmount        *float64
	CurrentAmount       float64
	DiscountRate        *float64
	Deadline            time.Time
	DeliveryDate        *time.Time
	LocationRadiusKm    float64
	Latitude            float64
	Longitude           float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func selectGroupOrder(r *groupOrderRow) *sqlf.Stmt {
	return sqlf.PostgreSQL.From("group_orders g").
		Select("g.id").To(&r.ID).
		Select("g.name").To(&r.Name).
		Select("g.description").To(&r.Description).
		Select("g.initiator_id").To(&r.InitiatorID).
		Select("g.status").To(&r.Status).
		Select("g.min_participants").To(&r.MinParticipants).
		Select("g.max_participants").To(&r.MaxParticipants).
		Select("g.current_participants").To(&r.CurrentParticipants).
		Select("g.target_amount").To(&r.TargetAmount).
		Select("g.current_amount").To(&r.CurrentAmount).
		Select("g.discount_rate").To(&r.DiscountRate).
		Select("g.deadline").To(&r.Deadline).
		Select("g.delivery_date").To(&r.DeliveryDate).
		Select("g.location_radius_km").To(&r.LocationRadiusKm).
		Select("g.latitude").To(&r.Latitude).
		Select("g.longitude").To(&r.Longitude).
		Select("g.created_at").To(&r.CreatedAt).
		Select("g.updated_at").To(&r.UpdatedAt)
}

func (r groupOrderRow) toDomain() domain.GroupOrder {
	return domain.GroupOrder{
		ID:                  r.ID,
		Name:                r.Name,
		Description:         r.Description,
		InitiatorID:         r.InitiatorID,
		Status:              domain.GroupOrderStatus(r.Status),
		MinParticipants:     r.MinParticipants,
		MaxParticipants:     r.MaxParticipants,
		CurrentParticipants: r.CurrentParticipants,
		TargetAmount:        r.TargetAmount,
		CurrentAmount:       r.CurrentAmount,
		DiscountRate:        r.DiscountRate,
		Deadline:            r.Deadline,
		DeliveryDate:        r.DeliveryDate,
		LocationRadiusKm:    r.LocationRadiusKm,
		Location:            domain.Location{Latitude: r.Latitude, Longitude: r.Longitude},
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// loadGroupOrder reads one group order with its items and participants.
// forUpdate locks the aggregate row for the rest of the transaction.
func loadGroupOrder(ctx context.Context, db querier, id int64, forUpdate bool) (*domain.GroupOrder, error) {
	var row groupOrderRow
	q := selectGroupOrder(&row).Where("g.id = ?", id)
	if forUpdate {
		q.Clause("FOR UPDATE")
	}
	if err := queryOne(ctx, db, q); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get group order %d: %w", id, err)
	}
	g := row.toDomain()

	var it domain.GroupOrderItem
	items := sqlf.PostgreSQL.From("group_order_items").
		Select("id").To(&it.ID).
		Select("group_order_id").To(&it.GroupOrderID).
		Select("product_id").To(&it.ProductID).
		Select("supplier_id").To(&it.SupplierID).
		Select("total_quantity").To(&it.TotalQuantity).
		Select("unit_price").To(&it.UnitPrice).
		Select("bulk_discount_price").To(&it.BulkDiscountPrice).
		Select("min_quantity_for_discount").To(&it.MinQuantityForDiscount).
		Where("group_order_id = ?", id).
		OrderBy("id")
	if err := queryAll(ctx, db, items, func() { g.Items = append(g.Items, it) }); err != nil {
		return nil, fmt.Errorf("get group order %d items: %w", id, err)
	}

	var (
		p      domain.GroupOrderParticipant
		status string
	)
	parts := sqlf.PostgreSQL.From("group_order_participants").
		Select("id").To(&p.ID).
		Select("group_order_id").To(&p.GroupOrderID).
		Select("user_id").To(&p.UserID).
		Select("amount").To(&p.Amount).
		Select("status").To(&status).
		Select("joined_at").To(&p.JoinedAt).
		Where("group_order_id = ?", id).
		OrderBy("id")
	err := queryAll(ctx, db, parts, func() {
		p.Status = domain.ParticipationStatus(status)
		g.Participants = append(g.Participants, p)
	})
	if err != nil {
		return nil, fmt.Errorf("get group order %d participants: %w", id, err)
	}
	return &g, nil
}

// Get returns the group order with items and participants, or nil.
func (r *GroupOrderRepo) Get(ctx context.Context, id int64) (*domain.GroupOrder, error) {
	return loadGroupOrder(ctx, r.db, id, false)
}

func (r *GroupOrderRepo) list(ctx context.Context, build func(q *sqlf.Stmt)) ([]domain.GroupOrder, error) {
	var row groupOrderRow
	q := selectGroupOrder(&row)
	build(q)

	out := make([]domain.GroupOrder, 0)
	if err := queryAll(ctx, r.db, q, func() { out = append(out, row.toDomain()) }); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOpenWithinBox returns open group orders with a future deadline located in box.
func (r *GroupOrderRepo) ListOpenWithinBox(ctx context.Context, box geo.Box, now time.Time) ([]domain.GroupOrder, error) {
	out, err := r.list(ctx, func(q *sqlf.Stmt) {
		q.Where("g.status = ?", string(domain.GroupOrderOpen)).
			Where("g.deadline > ?", now)
		withinBox(q, "g.latitude", "g.longitude", box)
		q.OrderBy("g.deadline", "g.id")
	})
	if err != nil {
		return nil, fmt.Errorf("list open group orders: %w", err)
	}
	return out, nil
}

// ListByInitiator returns group orders created by userID, newest first.
func (r *GroupOrderRepo) ListByInitiator(
	ctx context.Context,
	userID int64,
	status *domain.GroupOrderStatus,
	page domain.Page,
) ([]domain.GroupOrder, error) {
	out, err := r.list(ctx, func(q *sqlf.Stmt) {
		q.Where("g.initiator_id = ?", userID)
		if status != nil {
			q.Where("g.status = ?", string(*status))
		}
		q.OrderBy("g.created_at DESC", "g.id DESC").Limit(page.Limit).Offset(page.Offset)
	})
	if err != nil {
		return nil, fmt.Errorf("list group orders of %d: %w", userID, err)
	}
	return out, nil
}

// ListExpiredOpen returns ids of open group orders whose deadline has passed.
func (r *GroupOrderRepo) ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	var id int64
	q := sqlf.PostgreSQL.From("group_orders").
		Select("id").To(&id).
		Where("status = ?", string(domain.GroupOrderOpen)).
		Where("deadline <= ?", now).
		OrderBy("deadline").
		Limit(limit)

	out := make([]int64, 0)
	if err := queryAll(ctx, r.db, q, func() { out = append(out, id) }); err != nil {
		return nil, fmt.Errorf("list expired group orders: %w", err)
	}
	return out, nil
}

// GetGroupOrderForUpdate reads and locks a group order aggregate.
func (r *TxRepo) GetGroupOrderForUpdate(ctx context.Context, id int64) (*domain.GroupOrder, error) {
	return loadGroupOrder(ctx, r.tx, id, true)
}

// GetProducts returns the products with the given ids.
func (r *TxRepo) GetProducts(ctx context.Context, ids []int64) ([]domain.Product, error) {
	var p domain.Product
	q := sqlf.PostgreSQL.From("products").
		Select("id").To(&p.ID).
		Select("supplier_id").To(&p.SupplierID).
		Select("name").To(&p.Name).
		Select("unit").To(&p.Unit).
		Select("price").To(&p.Price).
		Where("id = ANY(?)", ids).
		OrderBy("id")

	out := make([]domain.Product, 0, len(ids))
	if err := queryAll(ctx, r.tx, q, func() { out = append(out, p) }); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	return out, nil
}

// InsertGroupOrder inserts g with its items and initial participants, filling in ids.
func (r *TxRepo) InsertGroupOrder(ctx context.Context, g *domain.GroupOrder) error {
	q := sqlf.PostgreSQL.InsertInto("group_orders").
		Set("name", g.Name).
		Set("description", g.Description).
		Set("initiator_id", g.InitiatorID).
		Set("status", string(g.Status)).
		Set("min_participants", g.MinParticipants).
		Set("max_participants", g.MaxParticipants).
		Set("current_participants", g.CurrentParticipants).
		Set("target_amount", g.TargetAmount).
		Set("current_amount", g.CurrentAmount).
		Set("discount_rate", g.DiscountRate).
		Set("deadline", g.Deadline).
		Set("delivery_date", g.DeliveryDate).
		Set("location_radius_km", g.LocationRadiusKm).
		Set("latitude", g.Location.Latitude).
		Set("longitude", g.Location.Longitude).
		Returning("id").To(&g.ID).
		Returning("created_at").To(&g.CreatedAt).
		Returning("updated_at").To(&g.UpdatedAt)
	if err := queryOne(ctx, r.tx, q); err != nil {
		return fmt.Errorf("insert group order: %w", err)
	}

	for i := range g.Items {
		it := &g.Items[i]
		it.GroupOrderID = g.ID
		iq := sqlf.PostgreSQL.InsertInto("group_order_items").
			Set("group_order_id", it.GroupOrderID).
			Set("product_id", it.ProductID).
			Set("supplier_id", it.SupplierID).
			Set("total_quantity", it.TotalQuantity).
			Set("unit_price", it.UnitPrice).
			Set("bulk_discount_price", it.BulkDiscountPrice).
			Set("min_quantity_for_discount", it.MinQuantityForDiscount).
			Returning("id").To(&it.ID)
		if err := queryOne(ctx, r.tx, iq); err != nil {
			return fmt.Errorf("insert group order item: %w", err)
		}
	}

	for i := range g.Participants {
		p := &g.Participants[i]
		p.GroupOrderID = g.ID
		if err := r.InsertGroupOrderParticipant(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// InsertGroupOrderParticipant inserts p and fills in its id.
func (r *TxRepo) InsertGroupOrderParticipant(ctx context.Context, p *domain.GroupOrderParticipant) error {
	q := sqlf.PostgreSQL.InsertInto("group_order_participants").
		Set("group_order_id", p.GroupOrderID).
		Set("user_id", p.UserID).
		Set("amount", p.Amount).
		Set("status", string(p.Status)).
		Set("joined_at", p.JoinedAt).
		Returning("id").To(&p.ID)
	if err := queryOne(ctx, r.tx, q); err != nil {
		return aggregateErr(err, "insert group order participant")
	}
	return nil
}

// UpdateGroupOrderParticipantStatus sets the status of a participation.
func (r *TxRepo) UpdateGroupOrderParticipantStatus(ctx context.Context, id int64, status domain.ParticipationStatus) error {
	q := sqlf.PostgreSQL.Update("group_order_participants").
		Set("status", string(status)).
		Where("id = ?", id)
	return execOne(ctx, r.tx, q, fmt.Sprintf("update group order participant %d", id))
}

// UpdateGroupOrderState persists the status and counters of g.
func (r *TxRepo) UpdateGroupOrderState(ctx context.Context, g *domain.GroupOrder) error {
	q := sqlf.PostgreSQL.Update("group_orders").
		Set("status", string(g.Status)).
		Set("current_participants", g.CurrentParticipants).
		Set("current_amount", g.CurrentAmount).
		SetExpr("updated_at", "now()").
		Where("id = ?", g.ID)
	defer q.Close()

	ct, err := r.tx.Exec(ctx, q.String(), q.Args()...)
	if err != nil {
		return aggregateErr(err, fmt.Sprintf("update group order %d", g.ID))
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
