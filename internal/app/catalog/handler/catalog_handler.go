package handler

import (
	"net/http"
	"strconv"

	"productmanagement/internal/app/catalog/entity"
	"productmanagement/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Значение max_result_count, если клиент его не передал
const defaultMaxResultCount = 10

// CatalogHandler обрабатывает HTTP запросы каталога с использованием Gin
type CatalogHandler struct {
	categoryService service.CategoryServiceInterface
	catalogService  service.CatalogServiceInterface
	validator       *validator.Validate
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(categoryService service.CategoryServiceInterface, catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		categoryService: categoryService,
		catalogService:  catalogService,
		validator:       validator.New(),
	}
}

// CreateCategory обрабатывает POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondBadRequest(c, formatValidationError(err))
		return
	}

	resp, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetCategoryDropdown обрабатывает GET /categories/dropdown
func (h *CatalogHandler) GetCategoryDropdown(c *gin.Context) {
	resp, err := h.catalogService.GetCategoryDropdown(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateProduct обрабатывает POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateUpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondBadRequest(c, formatValidationError(err))
		return
	}

	resp, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdateProduct обрабатывает PUT /products/{id}
// Полная замена всех изменяемых полей; публикует события о цене и остатке
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.CreateUpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondBadRequest(c, formatValidationError(err))
		return
	}

	resp, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteProduct обрабатывает DELETE /products/{id}
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.catalogService.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProduct обрабатывает GET /products/{id}
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListProducts обрабатывает GET /products
// Query параметры: sorting, skip_count, max_result_count, search_keyword
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	req := entity.ListProductsRequest{
		Sorting:        c.Query("sorting"),
		MaxResultCount: defaultMaxResultCount,
	}

	if v := c.Query("skip_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondBadRequest(c, "Invalid skip_count")
			return
		}
		req.SkipCount = n
	}

	if v := c.Query("max_result_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondBadRequest(c, "Invalid max_result_count")
			return
		}
		req.MaxResultCount = n
	}

	filter := entity.ProductFilter{
		SearchKeyword: c.Query("search_keyword"),
	}

	resp, err := h.catalogService.ListProducts(c.Request.Context(), &req, &filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// === HELPER FUNCTIONS ===

// parseIDParam извлекает и валидирует UUID из path параметра id
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, entity.NewErrorResponse(http.StatusBadRequest, message))
}

// respondServiceError преобразует ошибку сервисного слоя в конверт ответа.
// HTTP статус выбирается по виду ошибки; внутренние детали наружу не уходят
func respondServiceError(c *gin.Context, err error) {
	if se, ok := service.AsServiceError(err); ok {
		status := http.StatusInternalServerError
		switch se.Kind {
		case service.KindNotFound:
			status = http.StatusNotFound
		case service.KindValidation:
			status = http.StatusBadRequest
		}
		c.JSON(status, entity.NewErrorResponse(status, se.Message))
		return
	}

	c.JSON(http.StatusInternalServerError, entity.NewErrorResponse(http.StatusInternalServerError, "Internal server error"))
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			return validationErrors[0].Field() + " validation failed"
		}
	}
	return "Validation failed"
}
