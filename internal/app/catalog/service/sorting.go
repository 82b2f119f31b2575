package service

import (
	"strings"

	"productmanagement/internal/app/catalog/entity"
)

// productComparators сопоставляет имя поля ProductView с типизированной функцией
// сравнения. Неизвестное имя поля - ошибка валидации на границе,
// а не молчаливый пропуск сортировки
var productComparators = map[string]func(a, b entity.ProductView) bool{
	"id": func(a, b entity.ProductView) bool {
		return a.ID.String() < b.ID.String()
	},
	"name": func(a, b entity.ProductView) bool {
		return a.Name < b.Name
	},
	"description": func(a, b entity.ProductView) bool {
		return a.Description < b.Description
	},
	"price": func(a, b entity.ProductView) bool {
		return a.Price < b.Price
	},
	"stockquantity": func(a, b entity.ProductView) bool {
		return a.StockQuantity < b.StockQuantity
	},
	"categoryname": func(a, b entity.ProductView) bool {
		return a.CategoryName < b.CategoryName
	},
}

// resolveComparator возвращает comparator по имени поля без учёта регистра
func resolveComparator(field string) (func(a, b entity.ProductView) bool, bool) {
	less, ok := productComparators[strings.ToLower(strings.TrimSpace(field))]
	return less, ok
}
