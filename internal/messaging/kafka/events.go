package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated EventType = "order.created"
)

// Topics для Kafka
const (
	TopicOrderEvents = "checkout.order.events"
)

// OrderLineItemPayload — позиция заказа в событии.
type OrderLineItemPayload struct {
	ProductID  string `json:"product_id"`
	Qty        int32  `json:"qty"`
	PriceMinor int64  `json:"price_minor"`
}

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType   EventType              `json:"event_type"`
	OrderID     string                 `json:"order_id"`
	CustomerID  string                 `json:"customer_id"`
	Currency    string                 `json:"currency"`
	AmountMinor int64                  `json:"amount_minor"`
	Items       []OrderLineItemPayload `json:"items"`
	Timestamp   time.Time              `json:"timestamp"`
}

// NewOrderCreatedEvent создает событие успешно оформленного заказа
func NewOrderCreatedEvent(orderID, customerID, currency string, amountMinor int64, items []OrderLineItemPayload) *OrderEvent {
	return &OrderEvent{
		EventType:   EventTypeOrderCreated,
		OrderID:     orderID,
		CustomerID:  customerID,
		Currency:    currency,
		AmountMinor: amountMinor,
		Items:       items,
		Timestamp:   time.Now(),
	}
}
