package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующего кода валюты.
	ErrCurrencyRequired = errors.New("currency is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("amount_minor must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка отсутствующего идентификатора товара в позиции запроса.
	ErrProductIDRequired = errors.New("product_id is required")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order amount does not match items sum")
	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = errors.New("customer does not exist")
	// ErrNoProductsFound возвращается, если каталог не нашёл ни одного из запрошенных товаров.
	ErrNoProductsFound = errors.New("none of the requested products exist")
	// ErrCurrencyMixed возвращается при попытке оформить заказ на товары в разных валютах.
	ErrCurrencyMixed = errors.New("requested products have mixed currencies")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists сигнализирует о конфликте идентификаторов при создании.
	ErrOrderAlreadyExists = errors.New("order already exists")
)

// Маркеры классов для errors.Is; конкретные значения ошибок несут
// идентификатор товара и количества.
var (
	ErrProductNotFound   = errors.New("product does not exist")
	ErrInsufficientStock = errors.New("insufficient product quantity")
)

// ProductNotFoundError — запрошенный товар отсутствует в каталоге.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("could not find product %s", e.ProductID)
}

// Is позволяет сопоставлять ошибку с классом ErrProductNotFound.
func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// InsufficientStockError — запрошенное количество превышает остаток каталога.
// Requested ведёт сообщение (формулировка исходной системы), Available добавлен,
// чтобы вызывающая сторона могла показать клиенту фактический остаток.
type InsufficientStockError struct {
	ProductID string
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("the quantity %d is not available for product %s (in stock: %d)",
		e.Requested, e.ProductID, e.Available)
}

// Is позволяет сопоставлять ошибку с классом ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsValidation сообщает, является ли ошибка пользовательской ошибкой валидации
// запроса, а не инфраструктурным сбоем. Покрывает и бизнес-проверки,
// и ошибки формы запроса (пустой клиент, пустой список позиций и т.п.),
// в том числе собранные через errors.Join.
func IsValidation(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrNoProductsFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrCurrencyMixed) ||
		errors.Is(err, ErrCustomerRequired) ||
		errors.Is(err, ErrItemsRequired) ||
		errors.Is(err, ErrItemQtyInvalid) ||
		errors.Is(err, ErrProductIDRequired)
}
