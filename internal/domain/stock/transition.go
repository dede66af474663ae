// Package stock contiene la función de transición del libro de stock (servicio de dominio puro).
package stock

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alumac/alumac-api/internal/domain/entity"
)

// NextStock calcula el stock resultante de aplicar un movimiento.
//
//	ENTRY, PURCHASE: antes + cantidad
//	EXIT:            max(0, antes - cantidad)
//	ADJUSTMENT:      cantidad (nivel absoluto, no delta)
func NextStock(before decimal.Decimal, kind entity.MovementType, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case entity.MovementTypeENTRY, entity.MovementTypePURCHASE:
		return before.Add(quantity), nil
	case entity.MovementTypeEXIT:
		after := before.Sub(quantity)
		if after.IsNegative() {
			return decimal.Zero, nil
		}
		return after, nil
	case entity.MovementTypeADJUSTMENT:
		return quantity, nil
	}
	return decimal.Zero, fmt.Errorf("tipo de movimiento desconocido: %q", kind)
}

// Mismatch describe la primera entrada del libro que no cumple la transición o el encadenamiento.
type Mismatch struct {
	MovementID string
	Expected   decimal.Decimal
	Got        decimal.Decimal
}

// Replay recorre los movimientos en orden cronológico (más antiguo primero) verificando que cada
// StockAfter sea NextStock(StockBefore, Type, Quantity) y que cada StockBefore coincida con el
// StockAfter anterior. Devuelve el stock final y la primera inconsistencia, si existe.
func Replay(movements []*entity.StockMovement) (decimal.Decimal, *Mismatch) {
	var current decimal.Decimal
	for i, m := range movements {
		if i > 0 && !m.StockBefore.Equal(current) {
			return current, &Mismatch{MovementID: m.ID, Expected: current, Got: m.StockBefore}
		}
		next, err := NextStock(m.StockBefore, m.Type, m.Quantity)
		if err != nil || !next.Equal(m.StockAfter) {
			return current, &Mismatch{MovementID: m.ID, Expected: next, Got: m.StockAfter}
		}
		current = next
	}
	return current, nil
}
