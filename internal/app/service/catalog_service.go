package service

import (
	"context"
	"fmt"

	"codequiz/internal/domain/model"
	"codequiz/internal/domain/repository"
)

type CatalogService struct {
	categoryRepo repository.CategoryRepository
	taskRepo     repository.TaskRepository
}

func NewCatalogService(categoryRepo repository.CategoryRepository, taskRepo repository.TaskRepository) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo, taskRepo: taskRepo}
}

// Question bundles a task with its category's display name for rendering.
type Question struct {
	CategoryName string
	Task         *model.Task
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) GetQuestion(ctx context.Context, categoryID, taskNumber int) (*Question, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category %d: %w", categoryID, err)
	}
	task, err := s.taskRepo.FindByNumber(ctx, categoryID, taskNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load task %d/%d: %w", categoryID, taskNumber, err)
	}
	return &Question{CategoryName: category.Name, Task: task}, nil
}
