package service

import "errors"

// ErrorKind - явная классификация ошибок сервисного слоя.
// Handler выбирает HTTP статус по виду ошибки, а не по её тексту
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindValidation
	KindInternal
)

// ServiceError - ошибка публичной операции.
// Message безопасен для показа пользователю; первопричина внутренней ошибки
// остаётся в cause и наружу не отдаётся
type ServiceError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

// NotFoundError - ссылка на несуществующую сущность, сообщение передается как есть
func NotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

// ValidationError - некорректный ввод, дошедший до сервисного слоя
func ValidationError(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: message}
}

// InternalError - любая неожиданная ошибка; наружу уходит только фиксированное сообщение
func InternalError(message string, cause error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Message: message, cause: cause}
}

// AsServiceError извлекает *ServiceError из цепочки ошибок
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
