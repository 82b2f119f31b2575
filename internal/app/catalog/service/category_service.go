package service

import (
	"context"
	"errors"
	"time"

	"productmanagement/internal/app/catalog/entity"
	"productmanagement/internal/app/catalog/repository"
	"productmanagement/internal/app/catalog/util"
	"productmanagement/pkg/logger"
	"productmanagement/pkg/metrics"

	"github.com/google/uuid"
)

// CategoryService обрабатывает создание категорий.
// Категории в этом сервисе не обновляются и не удаляются
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        util.DropdownCache
}

// NewCategoryService создает новый сервис категорий
func NewCategoryService(categoryRepo repository.CategoryRepository, cache util.DropdownCache) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// CreateCategory создает категорию и инвалидирует кеш выпадающего списка
func (s *CategoryService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Response, error) {
	logger.Info().Str("name", req.Name).Msg("Creating new category")

	category := &entity.Category{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			logger.Warn().Str("name", req.Name).Msg("Category name already taken")
			return nil, ValidationError(err.Error())
		}
		logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		return nil, InternalError("An error occurred while creating the category.", err)
	}

	metrics.CategoriesCreated.Inc()
	logger.Info().Str("category_id", category.ID.String()).Msg("Category created successfully")

	// Следующий запрос выпадающего списка загрузит свежие данные из БД
	if err := s.cache.DeleteDropdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate dropdown cache")
	}

	view := &entity.CategoryView{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}
	return entity.NewSuccessResponse("Category created successfully.", view), nil
}
