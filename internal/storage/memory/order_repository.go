package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Create назначает заказу и позициям идентификаторы и сохраняет запись.
func (r *orderRepositoryInMemory) Create(order domain.NewOrder) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	items := make([]domain.OrderLineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, domain.OrderLineItem{
			ID:         uuid.NewString(),
			ProductID:  item.ProductID,
			Qty:        item.Qty,
			PriceMinor: item.PriceMinor,
			CreatedAt:  now,
		})
	}

	created := domain.Order{
		ID:          uuid.NewString(),
		CustomerID:  order.CustomerID,
		Currency:    order.Currency,
		AmountMinor: order.AmountMinor,
		Items:       items,
		CreatedAt:   now,
	}

	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	r.items[created.ID] = created
	return created, nil
}

// Get возвращает заказ по идентификатору; доступен через type assertion в тестах.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// Len возвращает количество сохранённых заказов; доступен через type assertion в тестах.
func (r *orderRepositoryInMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
