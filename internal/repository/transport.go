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
	"vendorconnect/internal/ports/transporttx"
)

// TransportRepo represents shared transport repository.
type TransportRepo struct{ db *pgxpool.Pool }

// NewTransportRepo creates a new TransportRepo.
func NewTransportRepo(db *pgxpool.Pool) *TransportRepo { return &TransportRepo{db: db} }

// WithTx opens a transaction and executes fn within it.
func (r *TransportRepo) WithTx(ctx context.Context, fn func(tx transporttx.Repository) error) error {
	return runTx(ctx, r.db, func(tx *TxRepo) error { return fn(tx) })
}

type transportRow struct {
	ID                   int64
	Name                 string
	Description          string
	VehicleType          string
	Capacity             float64
	CapacityUnit         string
	Cost                 float64
	Status               string
	SourceAddress        string
	SourceLat            float64
	SourceLon            float64
	DestinationAddress   string
	DestinationLat       float64
	DestinationLon       float64
	DepartureTime        time.Time
	EstimatedArrivalTime time.Time
	CurrentCapacityUsed  float64
	MaxParticipants      int
	CurrentParticipants  int
	InitiatorID          int64
	DriverName           string
	DriverContact        string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func selectTransport(r *transportRow) *sqlf.Stmt {
	return sqlf.PostgreSQL.From("transports t").
		Select("t.id").To(&r.ID).
		Select("t.name").To(&r.Name).
		Select("t.description").To(&r.Description).
		Select("t.vehicle_type").To(&r.VehicleType).
		Select("t.capacity").To(&r.Capacity).
		Select("t.capacity_unit").To(&r.CapacityUnit).
		Select("t.cost").To(&r.Cost).
		Select("t.status").To(&r.Status).
		Select("t.source_address").To(&r.SourceAddress).
		Select("t.source_latitude").To(&r.SourceLat).
		Select("t.source_longitude").To(&r.SourceLon).
		Select("t.destination_address").To(&r.DestinationAddress).
		Select("t.destination_latitude").To(&r.DestinationLat).
		Select("t.destination_longitude").To(&r.DestinationLon).
		Select("t.departure_time").To(&r.DepartureTime).
		Select("t.estimated_arrival_time").To(&r.EstimatedArrivalTime).
		Select("t.current_capacity_used").To(&r.CurrentCapacityUsed).
		Select("t.max_participants").To(&r.MaxParticipants).
		Select("t.current_participants").To(&r.CurrentParticipants).
		Select("t.initiator_id").To(&r.InitiatorID).
		Select("t.driver_name").To(&r.DriverName).
		Select("t.driver_contact").To(&r.DriverContact).
		Select("t.created_at").To(&r.CreatedAt).
		Select("t.updated_at").To(&r.UpdatedAt)
}

func (r transportRow) toDomain() domain.Transport {
	return domain.Transport{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		VehicleType:  r.VehicleType,
		Capacity:     r.Capacity,
		CapacityUnit: r.CapacityUnit,
		Cost:         r.Cost,
		Status:       domain.TransportStatus(r.Status),
		Source: domain.Place{
			Address:  r.SourceAddress,
			Location: domain.Location{Latitude: r.SourceLat, Longitude: r.SourceLon},
		},
		Destination: domain.Place{
			Address:  r.DestinationAddress,
			Location: domain.Location{Latitude: r.DestinationLat, Longitude: r.DestinationLon},
		},
		DepartureTime:        r.DepartureTime,
		EstimatedArrivalTime: r.EstimatedArrivalTime,
		CurrentCapacityUsed:  r.CurrentCapacityUsed,
		MaxParticipants:      r.MaxParticipants,
		CurrentParticipants:  r.CurrentParticipants,
		InitiatorID:          r.InitiatorID,
		DriverName:           r.DriverName,
		DriverContact:        r.DriverContact,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

type participantRow struct {
	ID          int64
	TransportID int64
	UserID      int64
	OrderID     *int64
	PickupAddr  string
	PickupLat   float64
	PickupLon   float64
	DropAddr    string
	DropLat     float64
	DropLon     float64
	Weight      float64
	Volume      *float64
	CostShare   float64
	Status      string
	JoinedAt    time.Time
}

func selectParticipant(q *sqlf.Stmt, r *participantRow) *sqlf.Stmt {
	return q.
		Select("p.id").To(&r.ID).
		Select("p.transport_id").To(&r.TransportID).
		Select("p.user_id").To(&r.UserID).
		Select("p.order_id").To(&r.OrderID).
		Select("p.pickup_address").To(&r.PickupAddr).
		Select("p.pickup_latitude").To(&r.PickupLat).
		Select("p.pickup_longitude").To(&r.PickupLon).
		Select("p.drop_address").To(&r.DropAddr).
		Select("p.drop_latitude").To(&r.DropLat).
		Select("p.drop_longitude").To(&r.DropLon).
		Select("p.cargo_weight").To(&r.Weight).
		Select("p.cargo_volume").To(&r.Volume).
		Select("p.cost_share").To(&r.CostShare).
		Select("p.status").To(&r.Status).
		Select("p.joined_at").To(&r.JoinedAt)
}

func (r participantRow) toDomain() domain.TransportParticipant {
	return domain.TransportParticipant{
		ID:          r.ID,
		TransportID: r.TransportID,
		UserID:      r.UserID,
		Cargo: domain.Cargo{
			OrderID: r.OrderID,
			Pickup:  domain.Place{Address: r.PickupAddr, Location: domain.Location{Latitude: r.PickupLat, Longitude: r.PickupLon}},
			Drop:    domain.Place{Address: r.DropAddr, Location: domain.Location{Latitude: r.DropLat, Longitude: r.DropLon}},
			Weight:  r.Weight,
			Volume:  r.Volume,
		},
		CostShare: r.CostShare,
		Status:    domain.ParticipationStatus(r.Status),
		JoinedAt:  r.JoinedAt,
	}
}

func loadTransport(ctx context.Context, db querier, id int64, forUpdate bool) (*domain.Transport, error) {
	var row transportRow
	q := selectTransport(&row).Where("t.id = ?", id)
	if forUpdate {
		q.Clause("FOR UPDATE")
	}
	if err := queryOne(ctx, db, q); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transport %d: %w", id, err)
	}
	t := row.toDomain()

	var pr participantRow
	pq := selectParticipant(sqlf.PostgreSQL.From("transport_participants p"), &pr).
		Where("p.transport_id = ?", id).
		OrderBy("p.id")
	if err := queryAll(ctx, db, pq, func() { t.Participants = append(t.Participants, pr.toDomain()) }); err != nil {
		return nil, fmt.Errorf("get transport %d participants: %w", id, err)
	}
	return &t, nil
}

// Get returns the transport with its participants, or nil.
func (r *TransportRepo) Get(ctx context.Context, id int64) (*domain.Transport, error) {
	return loadTransport(ctx, r.db, id, false)
}

// ListAvailableWithinBox returns available transports whose source lies in box.
// When departureDay is set only transports departing on that UTC day are returned.
func (r *TransportRepo) ListAvailableWithinBox(ctx context.Context, box geo.Box, departureDay *time.Time) ([]domain.Transport, error) {
	var row transportRow
	q := selectTransport(&row).Where("t.status = ?", string(domain.TransportAvailable))
	withinBox(q, "t.source_latitude", "t.source_longitude", box)
	if departureDay != nil {
		start := time.Date(departureDay.Year(), departureDay.Month(), departureDay.Day(), 0, 0, 0, 0, time.UTC)
		q.Where("t.departure_time >= ? AND t.departure_time < ?", start, start.Add(24*time.Hour))
	}
	q.OrderBy("t.departure_time", "t.id")

	out := make([]domain.Transport, 0)
	if err := queryAll(ctx, r.db, q, func() { out = append(out, row.toDomain()) }); err != nil {
		return nil, fmt.Errorf("list available transports: %w", err)
	}
	return out, nil
}

// ListByInitiator returns transports created by userID, newest first.
func (r *TransportRepo) ListByInitiator(ctx context.Context, userID int64, page domain.Page) ([]domain.Transport, error) {
	var row transportRow
	q := selectTransport(&row).
		Where("t.initiator_id = ?", userID).
		OrderBy("t.created_at DESC", "t.id DESC").
		Limit(page.Limit).
		Offset(page.Offset)

	out := make([]domain.Transport, 0)
	if err := queryAll(ctx, r.db, q, func() { out = append(out, row.toDomain()) }); err != nil {
		return nil, fmt.Errorf("list transports of %d: %w", userID, err)
	}
	return out, nil
}

// ListParticipations returns transports userID takes part in, each carrying
// only that user's participation, most recent first.
func (r *TransportRepo) ListParticipations(ctx context.Context, userID int64, page domain.Page) ([]domain.Transport, error) {
	var (
		row transportRow
		pr  participantRow
	)
	q := selectParticipant(selectTransport(&row), &pr).
		Join("transport_participants p", "p.transport_id = t.id").
		Where("p.user_id = ?", userID).
		OrderBy("p.joined_at DESC", "p.id DESC").
		Limit(page.Limit).
		Offset(page.Offset)

	out := make([]domain.Transport, 0)
	err := queryAll(ctx, r.db, q, func() {
		t := row.toDomain()
		t.Participants = []domain.TransportParticipant{pr.toDomain()}
		out = append(out, t)
	})
	if err != nil {
		return nil, fmt.Errorf("list participations of %d: %w", userID, err)
	}
	return out, nil
}

// GetTransportForUpdate reads and locks a transport aggregate.
func (r *TxRepo) GetTransportForUpdate(ctx context.Context, id int64) (*domain.Transport, error) {
	return loadTransport(ctx, r.tx, id, true)
}

// InsertTransport inserts t with its initial participants, filling in ids.
func (r *TxRepo) InsertTransport(ctx context.Context, t *domain.Transport) error {
	q := sqlf.PostgreSQL.InsertInto("transports").
		Set("name", t.Name).
		Set("description", t.Description).
		Set("vehicle_type", t.VehicleType).
		Set("capacity", t.Capacity).
		Set("capacity_unit", t.CapacityUnit).
		Set("cost", t.Cost).
		Set("status", string(t.Status)).
		Set("source_address", t.Source.Address).
		Set("source_latitude", t.Source.Location.Latitude).
		Set("source_longitude", t.Source.Location.Longitude).
		Set("destination_address", t.Destination.Address).
		Set("destination_latitude", t.Destination.Location.Latitude).
		Set("destination_longitude", t.Destination.Location.Longitude).
		Set("departure_time", t.DepartureTime).
		Set("estimated_arrival_time", t.EstimatedArrivalTime).
		Set("current_capacity_used", t.CurrentCapacityUsed).
		Set("max_participants", t.MaxParticipants).
		Set("current_participants", t.CurrentParticipants).
		Set("initiator_id", t.InitiatorID).
		Set("driver_name", t.DriverName).
		Set("driver_contact", t.DriverContact).
		Returning("id").To(&t.ID).
		Returning("created_at").To(&t.CreatedAt).
		Returning("updated_at").To(&t.UpdatedAt)
	if err := queryOne(ctx, r.tx, q); err != nil {
		return aggregateErr(err, "insert transport")
	}

	for i := range t.Participants {
		p := &t.Participants[i]
		p.TransportID = t.ID
		if err := r.InsertTransportParticipant(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// InsertTransportParticipant inserts p and fills in its id.
func (r *TxRepo) InsertTransportParticipant(ctx context.Context, p *domain.TransportParticipant) error {
	q := sqlf.PostgreSQL.InsertInto("transport_participants").
		Set("transport_id", p.TransportID).
		Set("user_id", p.UserID).
		Set("order_id", p.Cargo.OrderID).
		Set("pickup_address", p.Cargo.Pickup.Address).
		Set("pickup_latitude", p.Cargo.Pickup.Location.Latitude).
		Set("pickup_longitude", p.Cargo.Pickup.Location.Longitude).
		Set("drop_address", p.Cargo.Drop.Address).
		Set("drop_latitude", p.Cargo.Drop.Location.Latitude).
		Set("drop_longitude", p.Cargo.Drop.Location.Longitude).
		Set("cargo_weight", p.Cargo.Weight).
		Set("cargo_volume", p.Cargo.Volume).
		Set("cost_share", p.CostShare).
		Set("status", string(p.Status)).
		Set("joined_at", p.JoinedAt).
		Returning("id").To(&p.ID)
	if err := queryOne(ctx, r.tx, q); err != nil {
		return aggregateErr(err, "insert transport participant")
	}
	return nil
}

// UpdateTransportParticipantStatus sets the status of a participation.
func (r *TxRepo) UpdateTransportParticipantStatus(ctx context.Context, id int64, status domain.ParticipationStatus) error {
	q := sqlf.PostgreSQL.Update("transport_participants").
		Set("status", string(status)).
		Where("id = ?", id)
	return execOne(ctx, r.tx, q, fmt.Sprintf("update transport participant %d", id))
}

// UpdateTransportState persists the status and counters of t.
func (r *TxRepo) UpdateTransportState(ctx context.Context, t *domain.Transport) error {
	q := sqlf.PostgreSQL.Update("transports").
		Set("status", string(t.Status)).
		Set("current_participants", t.CurrentParticipants).
		Set("current_capacity_used", t.CurrentCapacityUsed).
		SetExpr("updated_at", "now()").
		Where("id = ?", t.ID)
	defer q.Close()

	ct, err := r.tx.Exec(ctx, q.String(), q.Args()...)
	if err != nil {
		return aggregateErr(err, fmt.Sprintf("update transport %d", t.ID))
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
