package entity

import "net/http"

// Response - единый конверт ответа для всех публичных операций.
// Успех всегда несёт code 200, внутренние ошибки - code 500 с фиксированным
// сообщением без деталей
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func NewSuccessResponse(message string, data interface{}) *Response {
	return &Response{
		Success: true,
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}
