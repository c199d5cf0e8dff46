package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codequiz/internal/common"
	"codequiz/internal/domain/model"
)

type TaskRepository interface {
	// FindByNumber looks a task up by its composite key: the owning category
	// and the ordinal number within it.
	FindByNumber(ctx context.Context, categoryID, taskNumber int) (*model.Task, error)
	ListByCategory(ctx context.Context, categoryID int) ([]model.Task, error)
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

func (r *pgTaskRepository) FindByNumber(ctx context.Context, categoryID, taskNumber int) (*model.Task, error) {
	query := `SELECT id, category, task_id, description, starting_code, correct_answer
	          FROM tasks WHERE category = $1 AND task_id = $2`
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, categoryID, taskNumber).Scan(
		&task.ID, &task.CategoryID, &task.TaskNumber, &task.Description, &task.StartingCode, &task.CorrectAnswer,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindByNumber: %w", err)
	}
	return task, nil
}

func (r *pgTaskRepository) ListByCategory(ctx context.Context, categoryID int) ([]model.Task, error) {
	query := `SELECT id, category, task_id, description, starting_code, correct_answer
	          FROM tasks WHERE category = $1 ORDER BY task_id`
	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListByCategory: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.CategoryID, &t.TaskNumber, &t.Description, &t.StartingCode, &t.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.ListByCategory scan: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListByCategory rows: %w", err)
	}
	return tasks, nil
}
