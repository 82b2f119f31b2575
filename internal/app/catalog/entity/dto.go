package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreateUpdateProductRequest используется и для создания, и для обновления товара.
// Обновление перезаписывает все изменяемые поля целиком (full replace):
// поле, отсутствующее в запросе, получает нулевое значение,
// отсутствующий category_id снимает привязку к категории
type CreateUpdateProductRequest struct {
	Name          string     `json:"name" validate:"required,min=2,max=200"`
	Description   string     `json:"description" validate:"max=2000"`
	Price         float64    `json:"price" validate:"gte=0"`
	ImageURL      string     `json:"image_url" validate:"omitempty,url"`
	StockQuantity int        `json:"stock_quantity" validate:"gte=0"`
	CategoryID    *uuid.UUID `json:"category_id"`
}

// ListProductsRequest - параметры сортировки и пагинации списка товаров
type ListProductsRequest struct {
	Sorting        string `json:"sorting"`
	SkipCount      int    `json:"skip_count" validate:"gte=0"`
	MaxResultCount int    `json:"max_result_count" validate:"gte=0"`
}

// ProductFilter - фильтр списка товаров по ключевому слову
type ProductFilter struct {
	SearchKeyword string `json:"search_keyword"`
}

type CategoryView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PagedProductsResult - страница списка товаров с общим количеством до пагинации
type PagedProductsResult struct {
	TotalCount int           `json:"total_count"`
	Items      []ProductView `json:"items"`
}

// DropDownItem - минимальная пара {id, name} для выпадающих списков UI
type DropDownItem struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}
