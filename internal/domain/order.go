package domain

import "time"

// OrderLineItem представляет одну позицию заказа.
type OrderLineItem struct {
	// ID позиции назначается хранилищем заказов при создании.
	ID string
	// ProductID — идентификатор товара в каталоге.
	ProductID string
	// Qty — количество единиц товара.
	Qty int32
	// PriceMinor — цена за единицу на момент оформления заказа.
	// Снимок: последующие изменения цены в каталоге на заказ не влияют.
	PriceMinor int64
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// Order агрегирует созданный заказ и его позиции. После создания заказ
// с точки зрения checkout неизменяем.
type Order struct {
	ID          string
	CustomerID  string
	Currency    string
	AmountMinor int64
	Items       []OrderLineItem
	CreatedAt   time.Time
}

// NewLineItem — позиция заказа до персистентности: без идентификатора.
type NewLineItem struct {
	ProductID  string
	Qty        int32
	PriceMinor int64
}

// NewOrder — заказ, передаваемый хранилищу на создание. Идентификаторы
// заказа и позиций назначает хранилище.
type NewOrder struct {
	CustomerID  string
	Currency    string
	AmountMinor int64
	Items       []NewLineItem
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *NewOrder) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.Currency == "" {
		errs = append(errs, ErrCurrencyRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.AmountMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += int64(item.Qty) * item.PriceMinor
	}
	if calc != o.AmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
