package stock

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Escalas de las columnas NUMERIC(14,3) de cantidades y NUMERIC(14,2) de precios.
const (
	QuantityScale int32 = 3
	PriceScale    int32 = 2
	numericDigits int32 = 14
)

var (
	// MaxQuantity mayor cantidad o stock almacenable: 99999999999.999.
	MaxQuantity = maxFor(QuantityScale)
	// MaxPrice mayor precio almacenable: 999999999999.99.
	MaxPrice = maxFor(PriceScale)
)

func maxFor(scale int32) decimal.Decimal {
	return decimal.New(1, numericDigits-scale).Sub(decimal.New(1, -scale))
}

// CheckQuantity verifica que v se almacene sin redondeo en una columna de cantidades.
func CheckQuantity(v decimal.Decimal) error {
	return checkNumeric(v, QuantityScale, MaxQuantity)
}

// CheckPrice verifica que v se almacene sin redondeo en una columna de precios.
func CheckPrice(v decimal.Decimal) error {
	return checkNumeric(v, PriceScale, MaxPrice)
}

func checkNumeric(v decimal.Decimal, scale int32, limit decimal.Decimal) error {
	if !v.Equal(v.Truncate(scale)) {
		return fmt.Errorf("admite hasta %d decimales", scale)
	}
	if v.Abs().GreaterThan(limit) {
		return fmt.Errorf("excede el máximo %s", limit.StringFixed(scale))
	}
	return nil
}
