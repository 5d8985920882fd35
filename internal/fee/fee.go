// Package fee computes the billable duration and cost of a completed stay.
package fee

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

var minutesPerHour = decimal.NewFromInt(60)

// Compute maps an entry/exit pair and an hourly tariff to the stay's
// duration in whole minutes and its fee.
//
// The duration is the elapsed interval rounded up to whole minutes, never
// less than 1: a session closed the instant it opened still accrues the
// minimum billable unit. The fee is durationMinutes/60 × tariff, rounded
// half-up to 2 decimal places.
func Compute(enteredAt, exitedAt time.Time, hourlyTariff decimal.Decimal) (int64, decimal.Decimal, error) {
	elapsed := exitedAt.Sub(enteredAt)
	if elapsed < 0 {
		return 0, decimal.Zero, domain.ErrInvalidInterval
	}

	minutes := int64(elapsed / time.Minute)
	if elapsed%time.Minute != 0 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}

	// decimal.Round rounds half away from zero, which is half-up for the
	// non-negative amounts a tariff can produce.
	amount := hourlyTariff.
		Mul(decimal.NewFromInt(minutes)).
		Div(minutesPerHour).
		Round(2)

	return minutes, amount, nil
}
