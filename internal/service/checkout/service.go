package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
)

// CreateOrderInput — запрос на оформление заказа.
type CreateOrderInput struct {
	CustomerID string
	Items      []domain.RequestedItem
}

// Service реализует оформление заказа: проверка клиента и товаров,
// снимок цен, сохранение заказа и списание остатков.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	logger    *log.Entry
	metrics   *metrics.CheckoutMetrics
	producer  *kafka.Producer // опциональный Kafka producer для событий заказов
}

// NewService создаёт рабочий экземпляр сервиса.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		logger:    logger,
		metrics:   metrics.NewCheckoutMetrics(),
	}
}

// NewServiceWithKafka создаёт сервис с Kafka producer для публикации
// событий order.created.
func NewServiceWithKafka(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	producer *kafka.Producer,
	logger *log.Entry,
) *Service {
	svc := NewService(customers, products, orders, logger)
	svc.producer = producer
	return svc
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
) *Service {
	svc := NewService(customers, products, orders, logger)
	svc.metrics = nil
	return svc
}

// CreateOrder выполняет единственную операцию сервиса.
//
// Последовательность строгая: вся валидация (клиент, наличие товаров,
// достаточность остатков) завершается до первой записи. Сохранение заказа
// и списание остатков — две независимые записи в разные хранилища без общей
// транзакции: если списание упало после сохранения заказа, компенсации нет,
// ошибка возвращается вызывающей стороне, а сбой фиксируется в метриках.
//
// NOTE: проверка остатка и последующее списание не сериализованы между
// конкурентными вызовами — два одновременных заказа на один товар могут
// пройти проверку по одному и тому же остатку. Условное списание на стороне
// каталога обсуждается, но пока не реализовано.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (domain.Order, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordCreateDuration(time.Since(start))
		}
	}()

	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}

	if err := s.validateInput(input); err != nil {
		s.reject(metrics.RejectReasonInvalidRequest)
		return domain.Order{}, err
	}

	if _, err := s.customers.FindByID(input.CustomerID); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			s.reject(metrics.RejectReasonCustomerNotFound)
			return domain.Order{}, domain.ErrCustomerNotFound
		}
		s.logger.WithError(err).WithField("customer_id", input.CustomerID).Error("customer lookup failed")
		s.reject(metrics.RejectReasonInternal)
		return domain.Order{}, fmt.Errorf("find customer: %w", err)
	}

	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindAllByIDs(ids)
	if err != nil {
		s.logger.WithError(err).Error("product lookup failed")
		s.reject(metrics.RejectReasonInternal)
		return domain.Order{}, fmt.Errorf("find products: %w", err)
	}
	if len(products) == 0 {
		s.reject(metrics.RejectReasonNoProductsFound)
		return domain.Order{}, domain.ErrNoProductsFound
	}

	catalog := make(map[string]domain.CatalogProduct, len(products))
	for _, product := range products {
		catalog[product.ID] = product
	}

	// Отсутствующие и недостаточные позиции проверяем в порядке запроса:
	// в ошибке сообщается первая проблемная позиция.
	for _, item := range input.Items {
		if _, ok := catalog[item.ProductID]; !ok {
			s.reject(metrics.RejectReasonProductNotFound)
			return domain.Order{}, &domain.ProductNotFoundError{ProductID: item.ProductID}
		}
	}
	for _, item := range input.Items {
		product := catalog[item.ProductID]
		if product.Qty < item.Qty {
			s.reject(metrics.RejectReasonInsufficientStock)
			return domain.Order{}, &domain.InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Qty,
				Available: product.Qty,
			}
		}
	}

	currency := products[0].Currency
	for _, product := range products {
		if product.Currency != currency {
			s.reject(metrics.RejectReasonCurrencyMixed)
			return domain.Order{}, domain.ErrCurrencyMixed
		}
	}

	// Снимок цен: позиция заказа фиксирует цену каталога на момент вызова.
	lines := make([]domain.NewLineItem, 0, len(input.Items))
	var amountMinor int64
	for _, item := range input.Items {
		product := catalog[item.ProductID]
		lines = append(lines, domain.NewLineItem{
			ProductID:  item.ProductID,
			Qty:        item.Qty,
			PriceMinor: product.PriceMinor,
		})
		amountMinor += int64(item.Qty) * product.PriceMinor
	}

	newOrder := domain.NewOrder{
		CustomerID:  input.CustomerID,
		Currency:    currency,
		AmountMinor: amountMinor,
		Items:       lines,
	}
	if errs := newOrder.ValidateInvariants(); len(errs) > 0 {
		s.reject(metrics.RejectReasonInvalidRequest)
		return domain.Order{}, errors.Join(errs...)
	}

	created, err := s.orders.Create(newOrder)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", input.CustomerID).Error("failed to persist order")
		s.reject(metrics.RejectReasonInternal)
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	changes := make([]domain.QuantityChange, 0, len(created.Items))
	for _, line := range created.Items {
		product := catalog[line.ProductID]
		changes = append(changes, domain.QuantityChange{
			ProductID: line.ProductID,
			NewQty:    product.Qty - line.Qty,
		})
	}

	if err := s.products.UpdateQuantities(changes); err != nil {
		// Заказ уже сохранён; откатить его здесь нечем. Фиксируем расхождение
		// и отдаём ошибку вызывающей стороне.
		s.logger.WithError(err).WithField("order_id", created.ID).Error("stock adjustment failed after order was persisted")
		if s.metrics != nil {
			s.metrics.RecordStockAdjustFailure()
		}
		return domain.Order{}, fmt.Errorf("update product quantities: %w", err)
	}

	s.publishOrderCreated(created)

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.logger.WithFields(log.Fields{
		"order_id":     created.ID,
		"customer_id":  created.CustomerID,
		"items_count":  len(created.Items),
		"amount_minor": created.AmountMinor,
	}).Info("order created")

	return created, nil
}

func (s *Service) validateInput(input CreateOrderInput) error {
	var errs []error

	if input.CustomerID == "" {
		errs = append(errs, domain.ErrCustomerRequired)
	}
	if len(input.Items) == 0 {
		errs = append(errs, domain.ErrItemsRequired)
	}
	for _, item := range input.Items {
		errs = append(errs, item.Validate()...)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.RecordOrderRejected(reason)
	}
}

// publishOrderCreated публикует событие заказа в Kafka (если producer настроен).
func (s *Service) publishOrderCreated(order domain.Order) {
	if s.producer == nil {
		return
	}

	items := make([]kafka.OrderLineItemPayload, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, kafka.OrderLineItemPayload{
			ProductID:  line.ProductID,
			Qty:        line.Qty,
			PriceMinor: line.PriceMinor,
		})
	}

	event := kafka.NewOrderCreatedEvent(order.ID, order.CustomerID, order.Currency, order.AmountMinor, items)
	if err := s.producer.PublishEvent(kafka.TopicOrderEvents, order.ID, event); err != nil {
		// Логируем ошибку, но не отменяем заказ — Kafka опциональный.
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event to kafka")
	}
}
