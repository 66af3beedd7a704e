// Package fee computes tiered late fees for overdue loans.
package fee

import (
	"fmt"
	"math"
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/model"
)

const (
	day = 24 * time.Hour

	firstTierDays = 7
	firstTierRate = 0.5
	laterTierRate = 1.0
)

// DaysOverdue is the number of whole days now lies past due, never negative.
func DaysOverdue(due, now time.Time) int {
	d := int(now.Sub(due) / day)
	if d < 0 {
		return 0
	}
	return d
}

// Amount is the fee for d overdue days: 0.50 per day for the first week,
// 1.00 per day after that, capped at model.MaxLateFee.
func Amount(d int) float64 {
	if d <= 0 {
		return 0
	}
	first := min(d, firstTierDays)
	later := max(d-firstTierDays, 0)
	return min(firstTierRate*float64(first)+laterTierRate*float64(later), model.MaxLateFee)
}

func Calculate(due, now time.Time) model.FeeResult {
	d := DaysOverdue(due, now)
	if d == 0 {
		return model.FeeResult{
			Status: "No late fee, book is not overdue.",
		}
	}
	amount := Round(Amount(d))
	return model.FeeResult{
		FeeAmount:   amount,
		DaysOverdue: d,
		Status:      fmt.Sprintf("Book is overdue by %d days, late fee is $%.2f.", d, amount),
	}
}

// Round rounds a currency amount to cents.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
