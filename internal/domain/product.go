package domain

// CatalogProduct — товар каталога: цена и доступный остаток.
// Checkout читает запись и запрашивает списание остатка; владеет
// данными каталог.
type CatalogProduct struct {
	ID string
	// Name — человекочитаемое название товара.
	Name string
	// PriceMinor — цена за единицу в минимальных денежных единицах (например, копейки).
	PriceMinor int64
	// Qty — доступный остаток на складе.
	Qty int32
	// Currency — валюта цены (ISO 4217).
	Currency string
}

// RequestedItem — позиция запроса на оформление заказа.
type RequestedItem struct {
	ProductID string
	Qty       int32
}

// QuantityChange — элемент пакетного обновления остатков каталога.
type QuantityChange struct {
	ProductID string
	// NewQty — новое абсолютное значение остатка после списания.
	NewQty int32
}

// Validate проверяет позицию запроса и возвращает список замечаний.
func (i RequestedItem) Validate() []error {
	var errs []error

	if i.ProductID == "" {
		errs = append(errs, ErrProductIDRequired)
	}
	if i.Qty <= 0 {
		errs = append(errs, ErrItemQtyInvalid)
	}

	return errs
}
