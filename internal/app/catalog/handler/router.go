package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"productmanagement/pkg/logger"
	"productmanagement/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Product Management Service с использованием Gin
// Применяет Auth middleware для защиты эндпоинтов
func SetupRoutes(catalogHandler *CatalogHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint - публичный, без аутентификации
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Products endpoints - все требуют аутентификации
	products := router.Group("/products")
	products.Use(authMiddleware.Authenticate()) // Все маршруты требуют JWT токен
	{
		// GET эндпоинты доступны всем аутентифицированным пользователям
		products.GET("", catalogHandler.ListProducts)   // Список товаров с фильтрацией и пагинацией
		products.GET("/:id", catalogHandler.GetProduct) // Товар по ID с именем категории

		// POST, PUT, DELETE только для manager и admin
		products.POST("", authMiddleware.RequireRole("manager", "admin"), catalogHandler.CreateProduct)    // Создать товар
		products.PUT("/:id", authMiddleware.RequireRole("manager", "admin"), catalogHandler.UpdateProduct) // Обновить товар (публикует события в Kafka)
		products.DELETE("/:id", authMiddleware.RequireRole("manager", "admin"), catalogHandler.DeleteProduct)
	}

	// Categories endpoints - все требуют аутентификации
	categories := router.Group("/categories")
	categories.Use(authMiddleware.Authenticate()) // Все маршруты требуют JWT токен
	{
		// GET эндпоинты доступны всем аутентифицированным пользователям
		categories.GET("/dropdown", catalogHandler.GetCategoryDropdown) // Список для выпадающего списка (кеш Redis)

		// POST только для manager и admin
		categories.POST("", authMiddleware.RequireRole("manager", "admin"), catalogHandler.CreateCategory)
	}

	return router
}
