package order

import "time"

// Order is one placed order. Orders are created fully populated and never
// updated or deleted afterwards.
type Order struct {
	ID          uint64
	UserID      int64
	ProductName string
	Quantity    uint
	CreatedAt   time.Time
}
