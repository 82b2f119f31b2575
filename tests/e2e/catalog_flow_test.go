//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"productmanagement/internal/app/catalog/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// BaseURL - адрес запущенного сервиса
	// Для E2E тестов сервис должен быть запущен через docker-compose
	BaseURL = "http://localhost:8081"
)

// signManagerToken подписывает JWT с ролью manager тем же секретом, что и сервис
func signManagerToken(t *testing.T) string {
	t.Helper()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key-change-this-in-production"
	}

	claims := jwt.MapClaims{
		"user_id":   uuid.NewString(),
		"email":     "manager@example.com",
		"role_id":   2,
		"role_name": "manager",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) *http.Response {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) entity.Response {
	t.Helper()
	defer resp.Body.Close()

	var envelope entity.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

// TestFullCatalogFlow тестирует полный цикл работы с каталогом:
// 1. Создание категории
// 2. Выпадающий список категорий (проверка кеша)
// 3. Создание товара в категории
// 4. Получение товара с именем категории
// 5. Листинг с фильтром и пагинацией
// 6. Обновление товара (события о цене и остатке в Kafka)
// 7. Удаление товара
func TestFullCatalogFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}
	token := signManagerToken(t)

	// ==================== Step 1: Create Category ====================
	t.Log("Step 1: Creating category")

	categoryName := fmt.Sprintf("Test Category %d", time.Now().UnixNano())
	resp := doJSON(t, client, http.MethodPost, BaseURL+"/categories", token,
		entity.CreateCategoryRequest{Name: categoryName})

	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Category creation should succeed")
	envelope := decodeEnvelope(t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Category created successfully.", envelope.Message)

	categoryData := envelope.Data.(map[string]interface{})
	categoryID, err := uuid.Parse(categoryData["id"].(string))
	require.NoError(t, err)
	t.Logf("Created category: %s (ID: %s)", categoryName, categoryID)

	// ==================== Step 2: Category Dropdown ====================
	t.Log("Step 2: Getting category dropdown")

	resp = doJSON(t, client, http.MethodGet, BaseURL+"/categories/dropdown", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	envelope = decodeEnvelope(t, resp)
	assert.Equal(t, "Data retrieved successfully.", envelope.Message)

	found := false
	for _, raw := range envelope.Data.([]interface{}) {
		item := raw.(map[string]interface{})
		if item["value"] == categoryID.String() {
			found = true
			assert.Equal(t, categoryName, item["name"])
		}
	}
	assert.True(t, found, "Created category should appear in dropdown")

	// ==================== Step 3: Create Product ====================
	t.Log("Step 3: Creating product")

	productName := fmt.Sprintf("Test Product %d", time.Now().UnixNano())
	resp = doJSON(t, client, http.MethodPost, BaseURL+"/products", token,
		entity.CreateUpdateProductRequest{
			Name:          productName,
			Description:   "Created by e2e test",
			Price:         199.99,
			StockQuantity: 10,
			CategoryID:    &categoryID,
		})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	envelope = decodeEnvelope(t, resp)
	assert.Equal(t, "Product created successfully.", envelope.Message)

	productData := envelope.Data.(map[string]interface{})
	productID, err := uuid.Parse(productData["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, categoryName, productData["category_name"])
	t.Logf("Created product: %s (ID: %s)", productName, productID)

	// ==================== Step 4: Get Product ====================
	t.Log("Step 4: Getting product by ID")

	resp = doJSON(t, client, http.MethodGet, BaseURL+"/products/"+productID.String(), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	envelope = decodeEnvelope(t, resp)
	assert.Equal(t, "Product retrieved successfully.", envelope.Message)
	productData = envelope.Data.(map[string]interface{})
	assert.Equal(t, productName, productData["name"])
	assert.Equal(t, 199.99, productData["price"])

	// ==================== Step 5: List Products ====================
	t.Log("Step 5: Listing products with search keyword")

	resp = doJSON(t, client, http.MethodGet,
		BaseURL+"/products?search_keyword="+url.QueryEscape(productName)+"&sorting=Name&max_result_count=50", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	envelope = decodeEnvelope(t, resp)
	assert.Equal(t, "Products retrieved successfully.", envelope.Message)

	listData := envelope.Data.(map[string]interface{})
	assert.GreaterOrEqual(t, listData["total_count"].(float64), float64(1))

	// ==================== Step 6: Update Product ====================
	t.Log("Step 6: Updating product price and stock")

	resp = doJSON(t, client, http.MethodPut, BaseURL+"/products/"+productID.String(), token,
		entity.CreateUpdateProductRequest{
			Name:          productName,
			Description:   "Updated by e2e test",
			Price:         149.99,
			StockQuantity: 3,
			CategoryID:    &categoryID,
		})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	envelope = decodeEnvelope(t, resp)
	assert.Equal(t, "Product updated successfully.", envelope.Message)
	productData = envelope.Data.(map[string]interface{})
	assert.Equal(t, 149.99, productData["price"])
	assert.Equal(t, float64(3), productData["stock_quantity"])

	// ==================== Step 7: Delete Product ====================
	t.Log("Step 7: Deleting product")

	resp = doJSON(t, client, http.MethodDelete, BaseURL+"/products/"+productID.String(), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	envelope = decodeEnvelope(t, resp)
	assert.Equal(t, "Product deleted successfully.", envelope.Message)

	// Повторное чтение удаленного товара дает 404
	resp = doJSON(t, client, http.MethodGet, BaseURL+"/products/"+productID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	envelope = decodeEnvelope(t, resp)
	assert.False(t, envelope.Success)
}

// TestUnauthorizedAccess проверяет, что без токена каталог недоступен
func TestUnauthorizedAccess(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(BaseURL + "/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
