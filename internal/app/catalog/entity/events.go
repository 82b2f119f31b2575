package entity

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий в топике product_events
const (
	EventTypePriceChanged = "PRODUCT_PRICE_CHANGED"
	EventTypeStockChanged = "PRODUCT_STOCK_CHANGED"
)

// ProductPriceChangedEvent публикуется после каждого успешного обновления товара
type ProductPriceChangedEvent struct {
	EventType string    `json:"event_type"`
	ProductID uuid.UUID `json:"product_id"`
	NewPrice  float64   `json:"new_price"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductStockChangedEvent публикуется после каждого успешного обновления товара
type ProductStockChangedEvent struct {
	EventType        string    `json:"event_type"`
	ProductID        uuid.UUID `json:"product_id"`
	NewStockQuantity int       `json:"new_stock_quantity"`
	Timestamp        time.Time `json:"timestamp"`
}

// ProductEventEnvelope используется консьюмером для определения типа события
type ProductEventEnvelope struct {
	EventType string `json:"event_type"`
}
