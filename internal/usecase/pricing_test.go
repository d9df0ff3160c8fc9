package usecase_test

import (
	"testing"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/usecase"
	"github.com/stretchr/testify/assert"
)

func TestSellRate(t *testing.T) {
	tests := []struct {
		name     string
		costRate float64
		expected float64
	}{
		{"обычная наценка", 1.0, 1.2},
		{"округление до 4 знаков", 0.3333, 0.4},
		{"минимальная цена", 0.001, constants.MinServiceRate},
		{"нулевая себестоимость", 0, constants.MinServiceRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, usecase.SellRate(tt.costRate), 1e-9)
		})
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		quantity int
		expected float64
	}{
		{"тысяча единиц", 4.0, 1000, 4.0},
		{"половина тысячи", 4.0, 500, 2.0},
		{"округление", 0.9, 333, 0.2997},
		{"малое количество", 1.2, 10, 0.012},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, usecase.Price(tt.rate, tt.quantity), 1e-9)
		})
	}
}

func TestConvertToUSD(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		expected float64
		err      error
	}{
		{"доллары без конверсии", 50, constants.CurrencyUSD, 50, nil},
		{"динары", 100000, constants.CurrencyIQD, 68, nil},
		{"евро", 10, constants.CurrencyEUR, 10.8, nil},
		{"неизвестная валюта", 10, "XYZ", 0, models.ErrUnsupportedCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usd, err := usecase.ConvertToUSD(tt.amount, tt.currency)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.expected, usd, 1e-9)
		})
	}
}
