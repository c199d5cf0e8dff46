package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codequiz/internal/common"
	"codequiz/internal/domain/model"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int) (*model.Category, error)
}

type pgCategoryRepository struct {
	db *sql.DB
}

func NewPgCategoryRepository(db *sql.DB) CategoryRepository {
	return &pgCategoryRepository{db: db}
}

func (r *pgCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	query := `SELECT id, name, slug FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgCategoryRepository.List: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("pgCategoryRepository.List scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgCategoryRepository.List rows: %w", err)
	}
	return categories, nil
}

func (r *pgCategoryRepository) FindByID(ctx context.Context, id int) (*model.Category, error) {
	query := `SELECT id, name, slug FROM categories WHERE id = $1`
	category := &model.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Name, &category.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCategoryRepository.FindByID: %w", err)
	}
	return category, nil
}
