package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// maxCharge is the largest amount the simulated gateway accepts in one payment.
const maxCharge = 1000.0

// SimulatedGateway approves payments in process, for development without a
// real gateway. It remembers charges so refunds can be checked against them.
type SimulatedGateway struct {
	mu      sync.Mutex
	charges map[string]float64
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{charges: make(map[string]float64)}
}

func (g *SimulatedGateway) ProcessPayment(_ context.Context, patronID string, amount float64, _ string) (Charge, error) {
	switch {
	case amount <= 0:
		return Charge{Message: "Invalid amount: must be greater than 0"}, nil
	case amount > maxCharge:
		return Charge{Message: "Payment declined: amount exceeds limit"}, nil
	case len(patronID) != 6:
		return Charge{Message: "Invalid patron ID"}, nil
	}

	id := TransactionPrefix + uuid.NewString()
	g.mu.Lock()
	g.charges[id] = amount
	g.mu.Unlock()

	return Charge{
		Success:       true,
		TransactionID: id,
		Message:       fmt.Sprintf("Payment of $%.2f processed successfully", amount),
	}, nil
}

func (g *SimulatedGateway) RefundPayment(_ context.Context, transactionID string, amount float64) (Refund, error) {
	if !IsTransactionID(transactionID) {
		return Refund{Message: "Invalid transaction ID"}, nil
	}
	if amount <= 0 {
		return Refund{Message: "Invalid refund amount"}, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	charged, ok := g.charges[transactionID]
	if !ok {
		return Refund{Message: "Transaction not found"}, nil
	}
	if amount > charged {
		return Refund{Message: "Refund amount exceeds original charge"}, nil
	}
	g.charges[transactionID] = charged - amount

	return Refund{
		Success: true,
		Message: fmt.Sprintf("Refund of $%.2f processed successfully", amount),
	}, nil
}
