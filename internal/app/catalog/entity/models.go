package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию товаров
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Product представляет товар в каталоге
// CategoryID опционален - товар может существовать без категории
type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	Price         float64    `json:"price" db:"price"` // Цена в базовой валюте (USD)
	ImageURL      string     `json:"image_url" db:"image_url"`
	StockQuantity int        `json:"stock_quantity" db:"stock_quantity"`
	CategoryID    *uuid.UUID `json:"category_id" db:"category_id" gorm:"type:uuid"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// ProductView - денормализованная проекция товара с именем категории.
// Не хранится в БД, собирается на лету из Product и Category
type ProductView struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	ImageURL      string     `json:"image_url"`
	StockQuantity int        `json:"stock_quantity"`
	CategoryID    *uuid.UUID `json:"category_id"`
	CategoryName  string     `json:"category_name"`
}
