package domain

import "time"

// Customer — покупатель, от имени которого оформляется заказ.
// Checkout использует только факт существования записи; ведение
// профиля клиента принадлежит внешнему сервису.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
