package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"productmanagement/internal/app/catalog/entity"
	"productmanagement/pkg/logger"
	"productmanagement/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "catalog-service"

// EventConsumer читает события товаров из Kafka и журналирует их.
// Подтверждением доставки служит запись в лог обработчика
type EventConsumer struct {
	reader   *kafka.Reader
	topic    string
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewEventConsumer создает новый Kafka consumer для событий товаров
func NewEventConsumer(brokers []string, topic, groupID string) *EventConsumer {
	// Настраиваем Kafka reader
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset, // Начинаем читать с последнего сообщения
		// Настройки для автоматического коммита offset
		CommitInterval: time.Second,
		// Таймауты
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &EventConsumer{
		reader:   reader,
		topic:    topic,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *EventConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Msg("Starting Kafka event consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается завершения цикла чтения
func (c *EventConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka event consumer")
	close(c.stopChan)
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close Kafka reader")
	}
	logger.Info().Msg("Kafka event consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *EventConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			// Читаем сообщение с таймаутом
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				// Если контекст был отменен, выходим
				if ctx.Err() != nil {
					return
				}
				// Таймаут чтения при пустом топике - не ошибка
				if errors.Is(err, context.DeadlineExceeded) {
					continue
				}

				logger.Error().Err(err).Msg("Error fetching Kafka message")
				metrics.RecordKafkaError(serviceName, c.topic, "fetch")
				time.Sleep(time.Second)
				continue
			}

			// Обрабатываем сообщение
			if err := c.processMessage(message); err != nil {
				logger.Error().Err(err).Msg("Error processing Kafka message")
				metrics.RecordKafkaError(serviceName, c.topic, "process")
				// Не коммитим offset при ошибке - сообщение будет повторно обработано
			} else {
				metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID)
				// Коммитим offset после успешной обработки
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					logger.Error().Err(err).Msg("Error committing Kafka message")
				}
			}
		}
	}
}

// processMessage разбирает событие и диспетчеризует по типу
func (c *EventConsumer) processMessage(message kafka.Message) error {
	var envelope entity.ProductEventEnvelope
	if err := json.Unmarshal(message.Value, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal product event: %w", err)
	}

	switch envelope.EventType {
	case entity.EventTypePriceChanged:
		var event entity.ProductPriceChangedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal price changed event: %w", err)
		}
		logger.Info().
			Str("product_id", event.ProductID.String()).
			Float64("new_price", event.NewPrice).
			Int64("offset", message.Offset).
			Msg("Product price changed")

	case entity.EventTypeStockChanged:
		var event entity.ProductStockChangedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal stock changed event: %w", err)
		}
		logger.Info().
			Str("product_id", event.ProductID.String()).
			Int("new_stock_quantity", event.NewStockQuantity).
			Int64("offset", message.Offset).
			Msg("Product stock changed")

	default:
		// Неизвестные типы пропускаем с предупреждением, offset коммитится
		logger.Warn().Str("event_type", envelope.EventType).Msg("Unknown product event type")
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *EventConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
