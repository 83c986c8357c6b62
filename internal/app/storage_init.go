package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
	"github.com/vladislavdragonenkov/checkout/internal/storage/postgres"
)

// repositories — набор портов хранения, собранный для выбранного драйвера.
type repositories struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	store     *postgres.Store // nil для in-memory
}

// close освобождает ресурсы хранилища.
func (r *repositories) close(logger *log.Entry) {
	if r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		logger.WithError(err).Warn("failed to close postgres store")
	}
}

// initStorage выбирает реализацию хранилища по конфигурации.
// Для memory каталог наполняется демонстрационными данными.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*repositories, error) {
	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres storage requires a DSN")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("init postgres storage: %w", err)
		}
		logger.Info("postgres storage initialized")
		return &repositories{
			customers: postgres.NewCustomerRepository(store),
			products:  postgres.NewProductRepository(store),
			orders:    postgres.NewOrderRepository(store),
			store:     store,
		}, nil
	case StorageDriverMemory, "":
		logger.Info("in-memory storage initialized with demo data")
		return &repositories{
			customers: memory.NewCustomerRepository(demoCustomers()...),
			products:  memory.NewProductRepository(demoProducts()...),
			orders:    memory.NewOrderRepository(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
}

func demoCustomers() []domain.Customer {
	return []domain.Customer{
		{ID: "11111111-1111-1111-1111-111111111111", Name: "Demo Customer", Email: "demo@example.com"},
	}
}

func demoProducts() []domain.CatalogProduct {
	return []domain.CatalogProduct{
		{ID: "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa", Name: "Widget", PriceMinor: 1000, Qty: 5, Currency: "USD"},
		{ID: "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb", Name: "Gadget", PriceMinor: 2000, Qty: 2, Currency: "USD"},
	}
}
