package catalog

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const productColumns = `
	p.id, p.name, p.price, COALESCE(p.cost_price, 0), COALESCE(p.image_url, ''),
	p.category_id, COALESCE(c.name, ''), p.stock_quantity, p.min_stock,
	COALESCE(p.unit_type, 'un'), p.is_active, p.is_featured, p.created_at, p.updated_at`

func scanProduct(row interface{ Scan(...any) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.CostPrice, &p.ImageURL,
		&p.CategoryID, &p.Category, &p.StockQuantity, &p.MinStock,
		&p.UnitType, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// ListActive returns the storefront catalog: active products with their
// category name resolved.
func (r *Repository) ListActive(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_active
		ORDER BY p.name
	`)
}

// ListAll returns every product, inactive ones included, for the back
// office.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.name
	`)
}

func (r *Repository) list(ctx context.Context, query string) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *domain.Product) error {
	p.ID = uuid.New().String()
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, name, price, cost_price, image_url, category_id,
			stock_quantity, min_stock, unit_type, is_active, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Price, p.CostPrice, p.ImageURL, nullIfEmpty(p.CategoryID),
		p.StockQuantity, p.MinStock, p.UnitType, p.IsActive, p.IsFeatured,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Update rewrites every mutable column. Returns false when the product
// does not exist.
func (r *Repository) Update(ctx context.Context, p *domain.Product) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, price = $3, cost_price = $4, image_url = NULLIF($5, ''),
			category_id = $6, stock_quantity = $7, min_stock = $8, unit_type = $9,
			is_active = $10, is_featured = $11, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Price, p.CostPrice, p.ImageURL, nullIfEmpty(p.CategoryID),
		p.StockQuantity, p.MinStock, p.UnitType, p.IsActive, p.IsFeatured)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// BulkDelete removes all products whose ids appear in the list and
// returns how many were actually deleted.
func (r *Repository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM products WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *Repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *Repository) CreateCategory(ctx context.Context, c *domain.Category) error {
	c.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name) VALUES ($1, $2)
	`, c.ID, c.Name)
	return err
}

func (r *Repository) UpdateCategory(ctx context.Context, c *domain.Category) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = $2 WHERE id = $1
	`, c.ID, c.Name)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// DeleteCategory also detaches the category from its products; they stay
// in the catalog uncategorized.
func (r *Repository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE products SET category_id = NULL, updated_at = NOW() WHERE category_id = $1
	`, id); err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
