package memory_test

import (
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

func newOrderInput() domain.NewOrder {
	return domain.NewOrder{
		CustomerID:  "customer-1",
		Currency:    "USD",
		AmountMinor: 5000,
		Items: []domain.NewLineItem{
			{ProductID: "p1", Qty: 3, PriceMinor: 1000},
			{ProductID: "p2", Qty: 1, PriceMinor: 2000},
		},
	}
}

func TestOrderRepository_Create(t *testing.T) {
	repo := memory.NewOrderRepository()

	created, err := repo.Create(newOrderInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if created.ID == "" {
		t.Fatal("expected order id to be assigned")
	}
	if len(created.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(created.Items))
	}
	for _, item := range created.Items {
		if item.ID == "" {
			t.Fatal("expected line item id to be assigned")
		}
	}
	if created.AmountMinor != 5000 {
		t.Fatalf("expected amount 5000, got %d", created.AmountMinor)
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()

	created, err := repo.Create(newOrderInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	getter, ok := repo.(interface{ Get(string) (domain.Order, error) })
	if !ok {
		t.Fatal("repository does not support Get")
	}

	stored, err := getter.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.CustomerID != "customer-1" {
		t.Fatalf("expected customer-1, got %s", stored.CustomerID)
	}
}

func TestOrderRepository_AssignsUniqueIDs(t *testing.T) {
	repo := memory.NewOrderRepository()

	first, err := repo.Create(newOrderInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := repo.Create(newOrderInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("expected distinct order ids, got %s twice", first.ID)
	}
}
