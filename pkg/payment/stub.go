package payment

import (
	"context"
	"fmt"
	"time"
)

// StubProvider is a no-op provider for development without gateway keys.
type StubProvider struct{}

func (s *StubProvider) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	return &Order{
		ID:       fmt.Sprintf("order_stub_%d", time.Now().UnixNano()),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}
