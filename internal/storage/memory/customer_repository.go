package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// customerRepositoryInMemory — простая in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
}

// NewCustomerRepository возвращает in-memory репозиторий, заполненный
// переданными клиентами. Предназначен для локальной разработки и тестов.
func NewCustomerRepository(seed ...domain.Customer) domain.CustomerRepository {
	items := make(map[string]domain.Customer, len(seed))
	for _, customer := range seed {
		items[customer.ID] = customer
	}
	return &customerRepositoryInMemory{items: items}
}

// FindByID возвращает клиента или ErrCustomerNotFound, если его нет.
func (r *customerRepositoryInMemory) FindByID(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// Put добавляет или заменяет клиента. Доступен через type assertion в тестах
// и при локальном наполнении данными.
func (r *customerRepositoryInMemory) Put(customer domain.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[customer.ID] = customer
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
