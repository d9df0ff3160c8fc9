package usecase

import (
	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/utils"
)

// SellRate derives our selling rate per 1000 units from the provider's cost
// rate. Rounding happens here and in Price only; every balance mutation uses
// these amounts unchanged, so a debit followed by a full refund is exactly
// balance-neutral.
func SellRate(costRate float64) float64 {
	rate := utils.Round4(costRate * (1 + constants.DefaultMargin))
	if rate < constants.MinServiceRate {
		rate = constants.MinServiceRate
	}
	return rate
}

// Price computes the total charge for quantity units at a per-1000 rate.
func Price(rate float64, quantity int) float64 {
	return utils.Round4(rate * float64(quantity) / 1000)
}

// ConvertToUSD applies the fixed exchange-rate table at the moment of the
// call, which for receipts is review time, not submission time.
func ConvertToUSD(amount float64, currency string) (float64, error) {
	rate, ok := constants.ExchangeRates[currency]
	if !ok {
		return 0, models.ErrUnsupportedCurrency
	}
	return utils.Round4(amount * rate), nil
}
