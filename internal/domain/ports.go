package domain

// CustomerRepository описывает доступ к хранилищу клиентов.
type CustomerRepository interface {
	// FindByID возвращает клиента или ErrCustomerNotFound, если его нет.
	FindByID(id string) (Customer, error)
}

// ProductRepository описывает доступ к каталогу товаров.
type ProductRepository interface {
	// FindAllByIDs возвращает найденные товары по списку идентификаторов.
	// Отсутствующие идентификаторы просто опускаются в результате.
	FindAllByIDs(ids []string) ([]CatalogProduct, error)
	// UpdateQuantities применяет пакет новых значений остатков.
	UpdateQuantities(changes []QuantityChange) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ, назначает идентификаторы заказу и позициям
	// и возвращает созданную запись.
	Create(order NewOrder) (Order, error)
}
