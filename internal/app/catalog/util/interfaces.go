package util

import (
	"context"
	"time"

	"productmanagement/internal/app/catalog/entity"
)

// DropdownCache интерфейс для кеша выпадающего списка категорий
// Используется для dependency injection и упрощения тестирования
type DropdownCache interface {
	GetDropdown(ctx context.Context) ([]entity.DropDownItem, error)
	SetDropdown(ctx context.Context, items []entity.DropDownItem, ttl time.Duration) error
	DeleteDropdown(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Сервис зависит от интерфейса, а не от конкретного producer,
// чтобы тесты могли подставить перехватывающий фейк
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
