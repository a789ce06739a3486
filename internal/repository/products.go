package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leporo/sqlf"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
)

// ProductRepo stores the supplier catalogue.
type ProductRepo struct{ db *pgxpool.Pool }

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(db *pgxpool.Pool) *ProductRepo { return &ProductRepo{db: db} }

func selectProduct(p *domain.Product) *sqlf.Stmt {
	return sqlf.PostgreSQL.From("products p").
		Select("p.id").To(&p.ID).
		Select("p.supplier_id").To(&p.SupplierID).
		Select("p.name").To(&p.Name).
		Select("p.description").To(&p.Description).
		Select("p.category").To(&p.Category).
		Select("p.sub_category").To(&p.SubCategory).
		Select("p.unit").To(&p.Unit).
		Select("p.min_order_quantity").To(&p.MinOrderQuantity).
		Select("p.price").To(&p.Price).
		Select("p.discounted_price").To(&p.DiscountedPrice).
		Select("p.stock").To(&p.Stock).
		Select("p.images").To(&p.Images).
		Select("p.is_available").To(&p.IsAvailable).
		Select("p.created_at").To(&p.CreatedAt).
		Select("p.updated_at").To(&p.UpdatedAt)
}

// Get returns the product by id, or nil when it does not exist.
func (r *ProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := queryOne(ctx, r.db, selectProduct(&p).Where("p.id = ?", id)); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// GetMany returns the products with the given ids ordered by id.
func (r *ProductRepo) GetMany(ctx context.Context, ids []int64) ([]domain.Product, error) {
	var p domain.Product
	q := selectProduct(&p).Where("p.id = ANY(?)", ids).OrderBy("p.id")

	out := make([]domain.Product, 0, len(ids))
	if err := queryAll(ctx, r.db, q, func() { out = append(out, cloneProduct(p)) }); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	return out, nil
}

// List returns one page of available products matching f.
func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter, page domain.Page) ([]domain.Product, error) {
	var p domain.Product
	q := selectProduct(&p).Where("p.is_available")
	if f.Category != "" {
		q.Where("p.category = ?", f.Category)
	}
	if f.SubCategory != "" {
		q.Where("p.sub_category = ?", f.SubCategory)
	}
	if f.SupplierID != 0 {
		q.Where("p.supplier_id = ?", f.SupplierID)
	}
	if f.MinPrice != nil {
		q.Where("p.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q.Where("p.price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		q.Where("(p.name ILIKE ? OR p.description ILIKE ?)", pattern, pattern)
	}
	q.OrderBy(productOrder(f), "p.id DESC").Limit(page.Limit).Offset(page.Offset)

	out := make([]domain.Product, 0, page.Limit)
	if err := queryAll(ctx, r.db, q, func() { out = append(out, cloneProduct(p)) }); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Insert stores p and fills in its id and timestamps.
func (r *ProductRepo) Insert(ctx context.Context, p *domain.Product) error {
	q := sqlf.PostgreSQL.InsertInto("products").Set("supplier_id", p.SupplierID)
	setProductColumns(q, p).
		Returning("id").To(&p.ID).
		Returning("created_at").To(&p.CreatedAt).
		Returning("updated_at").To(&p.UpdatedAt)
	if err := queryOne(ctx, r.db, q); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update writes every mutable column of p. It reports false when p is not
// owned by p.SupplierID or no longer exists.
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) (bool, error) {
	q := sqlf.PostgreSQL.Update("products")
	setProductColumns(q, p).
		SetExpr("updated_at", "now()").
		Where("id = ? AND supplier_id = ?", p.ID, p.SupplierID).
		Returning("updated_at").To(&p.UpdatedAt)
	if err := queryOne(ctx, r.db, q); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return true, nil
}

// Delete removes a supplier's product. It reports false when nothing matched.
// A product already referenced by an order or group order cannot be removed.
func (r *ProductRepo) Delete(ctx context.Context, id, supplierID int64) (bool, error) {
	q := sqlf.PostgreSQL.DeleteFrom("products").Where("id = ? AND supplier_id = ?", id, supplierID)
	defer q.Close()

	ct, err := r.db.Exec(ctx, q.String(), q.Args()...)
	if err != nil {
		if IsForeignKey(err) {
			return false, fmt.Errorf("%w: product %d is referenced by orders, mark it unavailable instead", apperr.ErrInvalidArgument, id)
		}
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

func setProductColumns(q *sqlf.Stmt, p *domain.Product) *sqlf.Stmt {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return q.Set("name", p.Name).
		Set("description", p.Description).
		Set("category", p.Category).
		Set("sub_category", p.SubCategory).
		Set("unit", p.Unit).
		Set("min_order_quantity", p.MinOrderQuantity).
		Set("price", p.Price).
		Set("discounted_price", p.DiscountedPrice).
		Set("stock", p.Stock).
		Set("images", images).
		Set("is_available", p.IsAvailable)
}

func productOrder(f domain.ProductFilter) string {
	col := domain.SortByCreatedAt
	if f.SortBy.Valid() {
		col = f.SortBy
	}
	if f.Descending {
		return "p." + string(col) + " DESC"
	}
	return "p." + string(col) + " ASC"
}

// cloneProduct detaches the pointer and slice fields shared with the scan destination.
func cloneProduct(p domain.Product) domain.Product {
	p.DiscountedPrice = clonePtr(p.DiscountedPrice)
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
