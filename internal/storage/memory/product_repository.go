package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.CatalogProduct
}

// NewProductRepository возвращает in-memory каталог, заполненный переданными
// товарами. Предназначен для локальной разработки и тестов.
func NewProductRepository(seed ...domain.CatalogProduct) domain.ProductRepository {
	items := make(map[string]domain.CatalogProduct, len(seed))
	for _, product := range seed {
		items[product.ID] = product
	}
	return &productRepositoryInMemory{items: items}
}

// FindAllByIDs возвращает найденные товары; отсутствующие идентификаторы
// просто опускаются.
func (r *productRepositoryInMemory) FindAllByIDs(ids []string) ([]domain.CatalogProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.CatalogProduct, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if product, ok := r.items[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

// UpdateQuantities применяет пакет новых остатков. Пакет применяется целиком:
// при неизвестном товаре ни одно значение не меняется. Повторы одного товара
// в пакете применяются по порядку, итоговым остаётся последнее значение;
// postgres-реализация в этом случае выполняет по UPDATE на элемент внутри
// одной транзакции с тем же итогом.
func (r *productRepositoryInMemory) UpdateQuantities(changes []domain.QuantityChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, change := range changes {
		if _, ok := r.items[change.ProductID]; !ok {
			return &domain.ProductNotFoundError{ProductID: change.ProductID}
		}
	}
	for _, change := range changes {
		product := r.items[change.ProductID]
		product.Qty = change.NewQty
		r.items[change.ProductID] = product
	}
	return nil
}

// Get возвращает товар по идентификатору; доступен через type assertion в тестах.
func (r *productRepositoryInMemory) Get(id string) (domain.CatalogProduct, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.items[id]
	return product, ok
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
