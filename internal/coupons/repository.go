package coupons

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CouponWithUsage is a coupon plus how many orders applied it.
type CouponWithUsage struct {
	domain.Coupon
	UsageCount int `json:"usage_count"`
}

// GetByCode looks a coupon up by its code, case-insensitively.
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon := &domain.Coupon{}
	var productID sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, code, value, type, is_active, end_date, product_id, created_at
		FROM coupons
		WHERE UPPER(code) = $1
	`, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&coupon.ID, &coupon.Code, &coupon.Value, &coupon.Type,
		&coupon.IsActive, &coupon.EndDate, &productID, &coupon.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	coupon.ProductID = productID.String
	return coupon, nil
}

// ListWithUsage returns every coupon with its order usage count, newest
// first.
func (r *Repository) ListWithUsage(ctx context.Context) ([]CouponWithUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.code, c.value, c.type, c.is_active, c.end_date, c.product_id, c.created_at,
			COUNT(o.id)
		FROM coupons c
		LEFT JOIN orders o ON UPPER(o.applied_coupon) = UPPER(c.code)
		GROUP BY c.id
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	coupons := []CouponWithUsage{}
	for rows.Next() {
		var c CouponWithUsage
		var productID sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Value, &c.Type, &c.IsActive,
			&c.EndDate, &productID, &c.CreatedAt, &c.UsageCount,
		); err != nil {
			return nil, err
		}
		c.ProductID = productID.String
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return coupons, nil
}

func (r *Repository) Create(ctx context.Context, c *domain.Coupon) error {
	c.ID = uuid.New().String()
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	return r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (id, code, value, type, is_active, end_date, product_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NOW())
		RETURNING created_at
	`, c.ID, c.Code, c.Value, c.Type, c.IsActive, c.EndDate, c.ProductID).Scan(&c.CreatedAt)
}

func (r *Repository) Update(ctx context.Context, c *domain.Coupon) (bool, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	result, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET code = $2, value = $3, type = $4, is_active = $5, end_date = $6, product_id = NULLIF($7, '')
		WHERE id = $1
	`, c.ID, c.Code, c.Value, c.Type, c.IsActive, c.EndDate, c.ProductID)
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// SetActive pauses or resumes a coupon.
func (r *Repository) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE coupons SET is_active = $2 WHERE id = $1
	`, id, active)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// SetExpiry updates a coupon's end date; a nil endDate makes it
// perpetual.
func (r *Repository) SetExpiry(ctx context.Context, id string, endDate *time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE coupons SET end_date = $2 WHERE id = $1
	`, id, endDate)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
