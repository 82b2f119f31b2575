package repository

import (
	"context"
	"errors"

	"productmanagement/internal/app/catalog/entity"
	"productmanagement/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const serviceName = "catalog-service"

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "products")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Create(product)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
	}
	return result.Error
}

// GetByID получает товар по ID
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return &product, nil
}

// GetAll получает все товары
func (r *productRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	var products []entity.Product
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&products)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return products, nil
}

// Update перезаписывает все изменяемые поля товара.
// Updates с map вместо struct, чтобы нулевые значения тоже сохранялись
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "products")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":           product.Name,
		"description":    product.Description,
		"price":          product.Price,
		"image_url":      product.ImageURL,
		"stock_quantity": product.StockQuantity,
		"category_id":    product.CategoryID,
		"updated_at":     product.UpdatedAt,
	})

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "products")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
