package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"productmanagement/internal/app/catalog/entity"
	"productmanagement/internal/app/catalog/repository"
	"productmanagement/internal/app/catalog/util"
	"productmanagement/pkg/logger"
	"productmanagement/pkg/metrics"

	"github.com/google/uuid"
)

const (
	defaultSorting   = "Name"
	dropdownCacheTTL = time.Hour
)

// errDanglingCategory - ссылка товара на категорию, которой нет в хранилище.
// Отличается от неустановленной категории: та даёт пустое имя без ошибки
var errDanglingCategory = errors.New("product references missing category")

// CatalogService - оркестратор каталога товаров.
// Координирует репозитории, Redis кеш выпадающего списка и публикацию
// событий об изменении товаров. Собственного состояния не хранит
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        util.DropdownCache
	publisher    util.MessagePublisher
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cache util.DropdownCache,
	publisher util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		publisher:    publisher,
	}
}

// CreateProduct создает товар и возвращает денормализованную проекцию
// с именем категории, чтобы вызывающему не нужен был повторный запрос
func (s *CatalogService) CreateProduct(ctx context.Context, req *entity.CreateUpdateProductRequest) (*entity.Response, error) {
	logger.Info().Str("name", req.Name).Msg("Creating new product")

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	categoryName, err := s.resolveCategoryName(ctx, product.CategoryID)
	if err != nil {
		if errors.Is(err, errDanglingCategory) {
			logger.Warn().Str("category_id", product.CategoryID.String()).Msg("Product create references missing category")
			return nil, NotFoundError("category not found")
		}
		logger.Error().Err(err).Str("name", req.Name).Msg("Failed to resolve category while creating product")
		return nil, InternalError("An error occurred while creating the product.", err)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create product")
		return nil, InternalError("An error occurred while creating the product.", err)
	}

	metrics.ProductsCreated.Inc()
	logger.Info().Str("product_id", product.ID.String()).Msg("Product created successfully")

	view := buildProductView(product, categoryName)
	return entity.NewSuccessResponse("Product created successfully.", view), nil
}

// UpdateProduct полностью перезаписывает изменяемые поля товара из запроса
// (не merge: отсутствующие поля обнуляются, отсутствующий category_id снимает
// привязку) и публикует события о новой цене и новом остатке.
// Обе публикации должны завершиться до того, как операция отчитается об успехе
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.CreateUpdateProductRequest) (*entity.Response, error) {
	if id == uuid.Nil {
		return nil, ValidationError("Id is required.")
	}

	logger.Info().Str("product_id", id.String()).Msg("Updating product")

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			logger.Warn().Str("product_id", id.String()).Msg("Product to update not found")
			return nil, NotFoundError(err.Error())
		}
		logger.Error().Err(err).Str("product_id", id.String()).Msg("Failed to get product for update")
		return nil, InternalError("An error occurred while updating the product.", err)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.ImageURL = req.ImageURL
	product.StockQuantity = req.StockQuantity
	product.CategoryID = req.CategoryID
	product.UpdatedAt = time.Now()

	categoryName, err := s.resolveCategoryName(ctx, product.CategoryID)
	if err != nil {
		if errors.Is(err, errDanglingCategory) {
			logger.Warn().Str("category_id", product.CategoryID.String()).Msg("Product update references missing category")
			return nil, NotFoundError("category not found")
		}
		logger.Error().Err(err).Str("product_id", id.String()).Msg("Failed to resolve category while updating product")
		return nil, InternalError("An error occurred while updating the product.", err)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, NotFoundError(err.Error())
		}
		logger.Error().Err(err).Str("product_id", id.String()).Msg("Failed to update product")
		return nil, InternalError("An error occurred while updating the product.", err)
	}

	// События публикуются безусловно, даже если цена или остаток не менялись
	if err := s.publishPriceChanged(ctx, product); err != nil {
		logger.Error().Err(err).Str("product_id", id.String()).Msg("Failed to publish price changed event")
		return nil, InternalError("An error occurred while updating the product.", err)
	}
	if err := s.publishStockChanged(ctx, product); err != nil {
		logger.Error().Err(err).Str("product_id", id.String()).Msg("Failed to publish stock changed event")
		return nil, InternalError("An error occurred while updating the product.", err)
	}

	metrics.ProductsUpdated.Inc()
	logger.Info().Str("product_id", id.String()).Msg("Product updated successfully")

	view := buildProductView(product, categoryName)
	return entity.NewSuccessResponse("Product updated successfully.", view), nil
}

// DeleteProduct удаляет товар по ID. События при удалении не публикуются
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) (*entity.Response, error) {
	if id == uuid.Nil {
		return nil, ValidationError("Id is required.")
	}

	logger.Info().Str("product_id", id.String()).Msg("Deleting product")

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			logger.Warn().Str("product_id", id.String()).Msg("Product to delete not found")
			return nil, NotFoundError(err.Error())
		}
		logger.Error().Err(err).Str("product_id", id.String()).Msg("Failed to delete product")
		return nil, InternalError("An error occurred while deleting the product.", err)
	}

	metrics.ProductsDeleted.Inc()
	logger.Info().Str("product_id", id.String()).Msg("Product deleted successfully")

	return entity.NewSuccessResponse("Product deleted successfully.", nil), nil
}

// GetProduct возвращает денормализованную проекцию товара.
// Товар с неустановленной категорией отдается с пустым category_name;
// товар с битой ссылкой на категорию - успешный конверт с пустым payload
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Response, error) {
	if id == uuid.Nil {
		return nil, ValidationError("Id is required.")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			logger.Warn().Str("product_id", id.String()).Msg("Product not found")
			return nil, NotFoundError(err.Error())
		}
		logger.Error().Err(err).Str("product_id", id.String()).Msg("Failed to get product")
		return nil, InternalError("An error occurred while retrieving the product.", err)
	}

	categoryName, err := s.resolveCategoryName(ctx, product.CategoryID)
	if err != nil {
		if errors.Is(err, errDanglingCategory) {
			logger.Warn().
				Str("product_id", id.String()).
				Str("category_id", product.CategoryID.String()).
				Msg("Product references missing category")
			return entity.NewSuccessResponse("Product retrieved successfully.", nil), nil
		}
		logger.Error().Err(err).Str("product_id", id.String()).Msg("Failed to resolve category for product")
		return nil, InternalError("An error occurred while retrieving the product.", err)
	}

	view := buildProductView(product, categoryName)
	return entity.NewSuccessResponse("Product retrieved successfully.", view), nil
}

// ListProducts возвращает отфильтрованную, отсортированную страницу проекций.
// Inner join: товары, чья категория не резолвится (нет привязки или ссылка
// битая), в листинг не попадают
func (s *CatalogService) ListProducts(ctx context.Context, req *entity.ListProductsRequest, filter *entity.ProductFilter) (*entity.Response, error) {
	sorting := req.Sorting
	if strings.TrimSpace(sorting) == "" {
		sorting = defaultSorting
	}
	less, ok := resolveComparator(sorting)
	if !ok {
		return nil, ValidationError(fmt.Sprintf("invalid sorting field: %s", req.Sorting))
	}

	keyword := strings.ToLower(strings.TrimSpace(filter.SearchKeyword))

	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get products for listing")
		return nil, InternalError("An error occurred while retrieving the products.", err)
	}
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get categories for listing")
		return nil, InternalError("An error occurred while retrieving the products.", err)
	}

	views := joinProductViews(products, categories)

	if keyword != "" {
		filtered := views[:0]
		for _, v := range views {
			if strings.Contains(strings.ToLower(v.Name), keyword) ||
				strings.Contains(strings.ToLower(v.Description), keyword) ||
				strings.Contains(strings.ToLower(v.CategoryName), keyword) {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	totalCount := len(views)

	// Стабильность при равных ключах не гарантируется
	sort.Slice(views, func(i, j int) bool {
		return less(views[i], views[j])
	})

	items := paginate(views, req.SkipCount, req.MaxResultCount)

	logger.Info().Int("count", len(items)).Int("total", totalCount).Msg("Retrieved products")

	result := &entity.PagedProductsResult{
		TotalCount: totalCount,
		Items:      items,
	}
	return entity.NewSuccessResponse("Products retrieved successfully.", result), nil
}

// GetCategoryDropdown возвращает все категории как пары {value, name},
// отсортированные по имени. Список кешируется в Redis на час
func (s *CatalogService) GetCategoryDropdown(ctx context.Context) (*entity.Response, error) {
	items, err := s.cache.GetDropdown(ctx)
	if err == nil && len(items) > 0 {
		return entity.NewSuccessResponse("Data retrieved successfully.", items), nil
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get categories for dropdown")
		return nil, InternalError("An error occurred while retrieving the products.", err)
	}

	items = make([]entity.DropDownItem, 0, len(categories))
	for _, c := range categories {
		items = append(items, entity.DropDownItem{
			Value: c.ID.String(),
			Name:  c.Name,
		})
	}

	// Репозиторий уже сортирует по имени, но контракт сортировки
	// не должен зависеть от хранилища
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})

	if err := s.cache.SetDropdown(ctx, items, dropdownCacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("Failed to cache category dropdown")
	}

	return entity.NewSuccessResponse("Data retrieved successfully.", items), nil
}

// RefreshCategoryDropdownCache принудительно перестраивает кеш выпадающего
// списка из БД, не дожидаясь истечения TTL. Вызывается планировщиком
func (s *CatalogService) RefreshCategoryDropdownCache(ctx context.Context) error {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories for cache refresh: %w", err)
	}

	items := make([]entity.DropDownItem, 0, len(categories))
	for _, c := range categories {
		items = append(items, entity.DropDownItem{
			Value: c.ID.String(),
			Name:  c.Name,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})

	if err := s.cache.SetDropdown(ctx, items, dropdownCacheTTL); err != nil {
		return fmt.Errorf("failed to refresh dropdown cache: %w", err)
	}

	logger.Debug().Int("count", len(items)).Msg("Category dropdown cache refreshed")
	return nil
}

// resolveCategoryName - единая точка резолва имени категории для товара.
// nil CategoryID - пустое имя без ошибки, отсутствующая категория - errDanglingCategory
func (s *CatalogService) resolveCategoryName(ctx context.Context, categoryID *uuid.UUID) (string, error) {
	if categoryID == nil {
		return "", nil
	}

	category, err := s.categoryRepo.GetByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return "", errDanglingCategory
		}
		return "", fmt.Errorf("failed to resolve category name: %w", err)
	}

	return category.Name, nil
}

// publishPriceChanged отправляет событие о новой цене товара.
// Key - ProductID для партиционирования в Kafka
func (s *CatalogService) publishPriceChanged(ctx context.Context, product *entity.Product) error {
	event := entity.ProductPriceChangedEvent{
		EventType: entity.EventTypePriceChanged,
		ProductID: product.ID,
		NewPrice:  product.Price,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal price changed event: %w", err)
	}

	if err := s.publisher.PublishMessage(ctx, product.ID.String(), data); err != nil {
		return fmt.Errorf("failed to publish price changed event: %w", err)
	}

	metrics.ProductEventsPublished.WithLabelValues(entity.EventTypePriceChanged).Inc()
	return nil
}

// publishStockChanged отправляет событие о новом остатке товара
func (s *CatalogService) publishStockChanged(ctx context.Context, product *entity.Product) error {
	event := entity.ProductStockChangedEvent{
		EventType:        entity.EventTypeStockChanged,
		ProductID:        product.ID,
		NewStockQuantity: product.StockQuantity,
		Timestamp:        time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal stock changed event: %w", err)
	}

	if err := s.publisher.PublishMessage(ctx, product.ID.String(), data); err != nil {
		return fmt.Errorf("failed to publish stock changed event: %w", err)
	}

	metrics.ProductEventsPublished.WithLabelValues(entity.EventTypeStockChanged).Inc()
	return nil
}

// joinProductViews строит денормализованные проекции inner join-ом
// товаров на категории по CategoryID
func joinProductViews(products []entity.Product, categories []entity.Category) []entity.ProductView {
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	views := make([]entity.ProductView, 0, len(products))
	for i := range products {
		p := &products[i]
		if p.CategoryID == nil {
			continue
		}
		name, ok := names[*p.CategoryID]
		if !ok {
			continue
		}
		views = append(views, *buildProductView(p, name))
	}
	return views
}

// paginate применяет окно skip/take к отсортированной последовательности.
// Skip за пределами выборки и take 0 дают пустую страницу
func paginate(views []entity.ProductView, skip, take int) []entity.ProductView {
	if skip < 0 {
		skip = 0
	}
	if take < 0 {
		take = 0
	}
	if skip >= len(views) {
		return []entity.ProductView{}
	}
	end := skip + take
	if end > len(views) {
		end = len(views)
	}
	return views[skip:end]
}

func buildProductView(product *entity.Product, categoryName string) *entity.ProductView {
	return &entity.ProductView{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		ImageURL:      product.ImageURL,
		StockQuantity: product.StockQuantity,
		CategoryID:    product.CategoryID,
		CategoryName:  categoryName,
	}
}
