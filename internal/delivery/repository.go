// Package delivery manages per-neighborhood delivery fees.
package delivery

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]domain.DeliveryFee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, neighborhood, fee
		FROM delivery_fees
		ORDER BY neighborhood
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	fees := []domain.DeliveryFee{}
	for rows.Next() {
		var f domain.DeliveryFee
		if err := rows.Scan(&f.ID, &f.Neighborhood, &f.Fee); err != nil {
			return nil, err
		}
		fees = append(fees, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fees, nil
}

// GetByNeighborhood resolves the fee for a neighborhood name,
// diacritics-insensitively. Returns nil when the neighborhood is not
// served.
func (r *Repository) GetByNeighborhood(ctx context.Context, neighborhood string) (*domain.DeliveryFee, error) {
	fees, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	target := domain.Normalize(neighborhood)
	for _, f := range fees {
		if domain.Normalize(f.Neighborhood) == target {
			return &f, nil
		}
	}
	return nil, nil
}

func (r *Repository) Create(ctx context.Context, f *domain.DeliveryFee) error {
	f.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO delivery_fees (id, neighborhood, fee)
		VALUES ($1, $2, $3)
	`, f.ID, f.Neighborhood, f.Fee)
	return err
}

func (r *Repository) Update(ctx context.Context, f *domain.DeliveryFee) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE delivery_fees SET neighborhood = $2, fee = $3 WHERE id = $1
	`, f.ID, f.Neighborhood, f.Fee)
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM delivery_fees WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
