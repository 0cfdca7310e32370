package order

import (
	"context"

	"sweetshop-bot/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for orders.
type Service interface {
	PlaceOrder(ctx context.Context, userID int64, productName string, quantity uint) (*Order, error)
	History(ctx context.Context, userID int64) ([]Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PlaceOrder appends one order for the user. Product names are free text and
// a zero quantity is allowed; the dialogue layer has already trimmed and
// parsed the input.
func (s *service) PlaceOrder(
	ctx context.Context,
	userID int64,
	productName string,
	quantity uint,
) (*Order, error) {

	id, err := s.repo.Create(ctx, userID, productName, quantity)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order placed",
		zap.Uint64("order_id", id),
		zap.String("product_name", productName),
		zap.Uint("quantity", quantity),
	)

	return &Order{
		ID:          id,
		UserID:      userID,
		ProductName: productName,
		Quantity:    quantity,
	}, nil
}

func (s *service) History(ctx context.Context, userID int64) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}
