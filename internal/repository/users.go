package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leporo/sqlf"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/geo"
)

// UserRepo reads and updates marketplace users.
type UserRepo struct{ db *pgxpool.Pool }

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db: db} }

type userRow struct {
	ID           int64
	Name         string
	BusinessName string
	Phone        string
	Email        string
	Role         string
	IsVerified   bool
	Address      string
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
}

func selectUser(r *userRow) *sqlf.Stmt {
	return sqlf.PostgreSQL.From("users u").
		Select("u.id").To(&r.ID).
		Select("u.name").To(&r.Name).
		Select("u.business_name").To(&r.BusinessName).
		Select("u.phone").To(&r.Phone).
		Select("u.email").To(&r.Email).
		Select("u.role").To(&r.Role).
		Select("u.is_verified").To(&r.IsVerified).
		Select("u.address").To(&r.Address).
		Select("u.latitude").To(&r.Latitude).
		Select("u.longitude").To(&r.Longitude).
		Select("u.created_at").To(&r.CreatedAt)
}

func (r userRow) toDomain() domain.User {
	u := domain.User{
		ID:           r.ID,
		Name:         r.Name,
		BusinessName: r.BusinessName,
		Phone:        r.Phone,
		Email:        r.Email,
		Role:         domain.Role(r.Role),
		IsVerified:   r.IsVerified,
		Address:      r.Address,
		CreatedAt:    r.CreatedAt,
	}
	if r.Latitude != nil && r.Longitude != nil {
		u.Location = &domain.Location{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	return u
}

// Get returns the user by id, or nil when it does not exist.
func (r *UserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	q := selectUser(&row).Where("u.id = ?", id)
	if err := queryOne(ctx, r.db, q); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	u := row.toDomain()
	return &u, nil
}

// UpdateLocation sets the user's coordinates and, when given, address.
// It reports false when the user does not exist.
func (r *UserRepo) UpdateLocation(ctx context.Context, id int64, loc domain.Location, address *string) (bool, error) {
	q := sqlf.PostgreSQL.Update("users").
		Set("latitude", loc.Latitude).
		Set("longitude", loc.Longitude).
		SetExpr("updated_at", "now()").
		Where("id = ?", id)
	if address != nil {
		q.Set("address", *address)
	}
	defer q.Close()

	ct, err := r.db.Exec(ctx, q.String(), q.Args()...)
	if err != nil {
		return false, fmt.Errorf("update user %d location: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ListWithinBox returns located users matching f whose coordinates fall in box.
// A box crossing the antimeridian is filtered by latitude only.
func (r *UserRepo) ListWithinBox(ctx context.Context, f domain.UserFilter, box geo.Box) ([]domain.User, error) {
	var row userRow
	q := selectUser(&row).
		Where("u.latitude IS NOT NULL AND u.longitude IS NOT NULL")
	if f.Role != "" {
		q.Where("u.role = ?", string(f.Role))
	}
	if f.VerifiedOnly {
		q.Where("u.is_verified")
	}
	if f.ExcludeID != 0 {
		q.Where("u.id <> ?", f.ExcludeID)
	}
	withinBox(q, "u.latitude", "u.longitude", box)
	q.OrderBy("u.id")

	out := make([]domain.User, 0)
	if err := queryAll(ctx, r.db, q, func() { out = append(out, row.toDomain()) }); err != nil {
		return nil, fmt.Errorf("list users within box: %w", err)
	}
	return out, nil
}

// withinBox adds the bounding-box range predicate to q.
func withinBox(q *sqlf.Stmt, latCol, lonCol string, box geo.Box) {
	q.Where(latCol+" BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if !box.FullLongitude() && !box.CrossesAntimeridian() {
		q.Where(lonCol+" BETWEEN ? AND ?", box.MinLon, box.MaxLon)
	}
}
