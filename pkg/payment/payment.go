package payment

import "context"

// Order is a gateway order a client can pay against.
type Order struct {
	ID       string
	Amount   int64 // minor units (paise)
	Currency string
	Receipt  string
}

type Provider interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
}
