package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

type stubProducts struct {
	mu          sync.Mutex
	products    []domain.CatalogProduct
	findErr     error
	updateErr   error
	findCalls   int
	updateCalls int
	lastChanges []domain.QuantityChange
}

func (s *stubProducts) FindAllByIDs(ids []string) ([]domain.CatalogProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	byID := make(map[string]domain.CatalogProduct, len(s.products))
	for _, product := range s.products {
		byID[product.ID] = product
	}
	result := make([]domain.CatalogProduct, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if product, ok := byID[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

func (s *stubProducts) UpdateQuantities(changes []domain.QuantityChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	s.lastChanges = changes
	return s.updateErr
}

type stubOrders struct {
	mu          sync.Mutex
	inner       domain.OrderRepository
	createErr   error
	createCalls int
}

func (s *stubOrders) Create(order domain.NewOrder) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return domain.Order{}, s.createErr
	}
	return s.inner.Create(order)
}

func defaultCatalog() []domain.CatalogProduct {
	return []domain.CatalogProduct{
		{ID: "P1", Name: "Widget", PriceMinor: 1000, Qty: 5, Currency: "USD"},
		{ID: "P2", Name: "Gadget", PriceMinor: 2000, Qty: 2, Currency: "USD"},
	}
}

func newFixture(catalog []domain.CatalogProduct) (*checkout.Service, *stubProducts, *stubOrders) {
	customers := memory.NewCustomerRepository(domain.Customer{ID: "C1", Name: "Customer One"})
	products := &stubProducts{products: catalog}
	orders := &stubOrders{inner: memory.NewOrderRepository()}
	svc := checkout.NewServiceWithoutMetrics(customers, products, orders, loggerForTests())
	return svc, products, orders
}

func TestCreateOrder_Success(t *testing.T) {
	svc, products, orders := newFixture(defaultCatalog())

	order, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items: []domain.RequestedItem{
			{ProductID: "P1", Qty: 3},
			{ProductID: "P2", Qty: 2},
		},
	})
	require.NoError(t, err)

	require.NotEmpty(t, order.ID)
	require.Equal(t, "C1", order.CustomerID)
	require.Equal(t, "USD", order.Currency)
	require.Len(t, order.Items, 2)

	// Позиции сохраняют порядок запроса, цены — снимок каталога.
	require.Equal(t, "P1", order.Items[0].ProductID)
	require.Equal(t, int32(3), order.Items[0].Qty)
	require.Equal(t, int64(1000), order.Items[0].PriceMinor)
	require.Equal(t, "P2", order.Items[1].ProductID)
	require.Equal(t, int32(2), order.Items[1].Qty)
	require.Equal(t, int64(2000), order.Items[1].PriceMinor)
	require.Equal(t, int64(3*1000+2*2000), order.AmountMinor)

	require.Equal(t, 1, orders.createCalls)
	require.Equal(t, 1, products.updateCalls)

	// Новые остатки: было P1=5, P2=2, заказано 3 и 2.
	require.ElementsMatch(t, []domain.QuantityChange{
		{ProductID: "P1", NewQty: 2},
		{ProductID: "P2", NewQty: 0},
	}, products.lastChanges)
}

func TestCreateOrder_CustomerNotFound(t *testing.T) {
	svc, products, orders := newFixture(defaultCatalog())

	_, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "missing",
		Items:      []domain.RequestedItem{{ProductID: "P1", Qty: 1}},
	})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)

	// Ни каталог, ни хранилище заказов не должны быть затронуты.
	require.Equal(t, 0, products.findCalls)
	require.Equal(t, 0, products.updateCalls)
	require.Equal(t, 0, orders.createCalls)
}

func TestCreateOrder_NoProductsFound(t *testing.T) {
	svc, _, orders := newFixture(nil)

	_, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items:      []domain.RequestedItem{{ProductID: "P9", Qty: 1}},
	})
	require.ErrorIs(t, err, domain.ErrNoProductsFound)
	require.Equal(t, 0, orders.createCalls)
}

func TestCreateOrder_ProductNotFound_ReportsFirstMissing(t *testing.T) {
	svc, _, orders := newFixture(defaultCatalog())

	_, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items: []domain.RequestedItem{
			{ProductID: "P1", Qty: 1},
			{ProductID: "P9", Qty: 1},
			{ProductID: "P8", Qty: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "P9", notFound.ProductID)
	require.Equal(t, 0, orders.createCalls)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	svc, products, orders := newFixture(defaultCatalog())

	_, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items:      []domain.RequestedItem{{ProductID: "P1", Qty: 10}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, "P1", insufficient.ProductID)
	require.Equal(t, int32(10), insufficient.Requested)
	require.Equal(t, int32(5), insufficient.Available)

	// Ничего не записано: ни заказа, ни списания остатков.
	require.Equal(t, 0, orders.createCalls)
	require.Equal(t, 0, products.updateCalls)
}

func TestCreateOrder_InsufficientStock_ReportsFirstByRequestOrder(t *testing.T) {
	svc, _, _ := newFixture(defaultCatalog())

	_, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items: []domain.RequestedItem{
			{ProductID: "P2", Qty: 7},
			{ProductID: "P1", Qty: 6},
		},
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, "P2", insufficient.ProductID)
	require.Equal(t, int32(7), insufficient.Requested)
}

func TestCreateOrder_MixedCurrencies(t *testing.T) {
	catalog := []domain.CatalogProduct{
		{ID: "P1", PriceMinor: 1000, Qty: 5, Currency: "USD"},
		{ID: "P2", PriceMinor: 2000, Qty: 2, Currency: "EUR"},
	}
	svc, _, orders := newFixture(catalog)

	_, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items: []domain.RequestedItem{
			{ProductID: "P1", Qty: 1},
			{ProductID: "P2", Qty: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrCurrencyMixed)
	require.Equal(t, 0, orders.createCalls)
}

func TestCreateOrder_InvalidInput(t *testing.T) {
	svc, products, _ := newFixture(defaultCatalog())

	_, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{})
	require.ErrorIs(t, err, domain.ErrCustomerRequired)
	require.ErrorIs(t, err, domain.ErrItemsRequired)

	_, err = svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items:      []domain.RequestedItem{{ProductID: "P1", Qty: 0}},
	})
	require.ErrorIs(t, err, domain.ErrItemQtyInvalid)

	require.Equal(t, 0, products.findCalls)
}

func TestCreateOrder_DuplicateRequestedProduct(t *testing.T) {
	svc, _, _ := newFixture(defaultCatalog())

	// Дубликаты позиций в запросе дают отдельные позиции заказа —
	// по одной на каждую переданную позицию.
	order, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items: []domain.RequestedItem{
			{ProductID: "P1", Qty: 2},
			{ProductID: "P1", Qty: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	require.Equal(t, int64(3*1000), order.AmountMinor)
}

func TestCreateOrder_StockUpdateFailureAfterPersist(t *testing.T) {
	svc, products, orders := newFixture(defaultCatalog())
	products.updateErr = errors.New("catalog is down")

	_, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items:      []domain.RequestedItem{{ProductID: "P1", Qty: 1}},
	})
	require.Error(t, err)

	// Известный разрыв двухфазной записи: заказ уже сохранён,
	// остатки не списаны, компенсации нет.
	require.Equal(t, 1, orders.createCalls)
	lenner, ok := orders.inner.(interface{ Len() int })
	require.True(t, ok)
	require.Equal(t, 1, lenner.Len())
}

func TestCreateOrder_PriceSnapshotIsStable(t *testing.T) {
	svc, products, _ := newFixture(defaultCatalog())

	order, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items:      []domain.RequestedItem{{ProductID: "P1", Qty: 1}},
	})
	require.NoError(t, err)

	// Последующее изменение цены каталога не влияет на созданный заказ.
	products.mu.Lock()
	products.products[0].PriceMinor = 9999
	products.mu.Unlock()

	require.Equal(t, int64(1000), order.Items[0].PriceMinor)
}

func TestCreateOrder_CanceledContext(t *testing.T) {
	svc, products, _ := newFixture(defaultCatalog())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CreateOrder(ctx, checkout.CreateOrderInput{
		CustomerID: "C1",
		Items:      []domain.RequestedItem{{ProductID: "P1", Qty: 1}},
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, products.findCalls)
}

func TestCreateOrder_EndToEndWithMemoryCatalog(t *testing.T) {
	// Сквозной сценарий на in-memory реализациях всех трёх портов.
	customers := memory.NewCustomerRepository(domain.Customer{ID: "C1"})
	products := memory.NewProductRepository(defaultCatalog()...)
	orders := memory.NewOrderRepository()
	svc := checkout.NewServiceWithoutMetrics(customers, products, orders, loggerForTests())

	order, err := svc.CreateOrder(context.Background(), checkout.CreateOrderInput{
		CustomerID: "C1",
		Items: []domain.RequestedItem{
			{ProductID: "P1", Qty: 3},
			{ProductID: "P2", Qty: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	stored, err := products.FindAllByIDs([]string{"P1", "P2"})
	require.NoError(t, err)
	for _, product := range stored {
		switch product.ID {
		case "P1":
			require.Equal(t, int32(2), product.Qty)
		case "P2":
			require.Equal(t, int32(0), product.Qty)
		}
	}
}
