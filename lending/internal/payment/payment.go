// Package payment talks to the external payment gateway that charges and refunds late fees.
package payment

import (
	"context"
	"strings"
)

//go:generate go run github.com/golang/mock/mockgen -source=payment.go -destination=mocks/mock.go

// TransactionPrefix starts every transaction id issued by the gateway.
const TransactionPrefix = "txn_"

type Charge struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

type Refund struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Gateway charges and refunds patrons. A declined request is reported in the
// result; a non-nil error means the gateway itself failed.
type Gateway interface {
	ProcessPayment(ctx context.Context, patronID string, amount float64, description string) (Charge, error)
	RefundPayment(ctx context.Context, transactionID string, amount float64) (Refund, error)
}

func IsTransactionID(id string) bool {
	return strings.HasPrefix(id, TransactionPrefix) && len(id) > len(TransactionPrefix)
}
