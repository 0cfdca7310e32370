package order

import (
	"context"
	"database/sql"

	"sweetshop-bot/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, userID int64, productName string, quantity uint) (uint64, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	userID int64,
	productName string,
	quantity uint,
) (uint64, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("method", "Create"),
		zap.String("product_name", productName),
		zap.Uint("quantity", quantity),
	)

	var id uint64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, product_name, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, productName, quantity).Scan(&id)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return 0, err
	}

	log.Info("order inserted", zap.Uint64("order_id", id))
	return id, nil
}

// ListByUser returns the user's orders in insertion order. Other users'
// orders are never included. An empty slice means no orders.
func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, product_name, quantity, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductName, &o.Quantity, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}
