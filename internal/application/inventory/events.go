package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alumac/alumac-api/internal/domain/entity"
)

// Tipos de evento publicados fuera de banda.
const (
	EventMovementRecorded = "stock.movement_recorded"
	EventLowStock         = "stock.low"
)

// Event evento de dominio emitido tras un movimiento confirmado.
type Event struct {
	Type         string              `json:"type"`
	MaterialID   string              `json:"materialId"`
	MovementID   string              `json:"movementId"`
	MovementType entity.MovementType `json:"movementType"`
	Quantity     decimal.Decimal     `json:"quantity"`
	StockBefore  decimal.Decimal     `json:"stockBefore"`
	StockAfter   decimal.Decimal     `json:"stockAfter"`
	StockMinimo  decimal.Decimal     `json:"stockMinimo"`
	UnidadMedida string              `json:"unidadMedida"`
	ActorID      string              `json:"actorId"`
	OccurredAt   time.Time           `json:"occurredAt"`
}

// Key clave de partición: todos los eventos de un material van ordenados.
func (e Event) Key() string { return e.MaterialID }

// eventsFor construye los eventos de un movimiento. LowStock solo cuando el stock cruza el mínimo hacia abajo.
func eventsFor(mov *entity.StockMovement, m *entity.Material) []Event {
	base := Event{
		Type:         EventMovementRecorded,
		MaterialID:   m.ID,
		MovementID:   mov.ID,
		MovementType: mov.Type,
		Quantity:     mov.Quantity,
		StockBefore:  mov.StockBefore,
		StockAfter:   mov.StockAfter,
		StockMinimo:  m.StockMinimo,
		UnidadMedida: m.UnidadMedida,
		ActorID:      mov.CreatedBy,
		OccurredAt:   mov.CreatedAt,
	}
	events := []Event{base}
	if !mov.StockBefore.LessThan(m.StockMinimo) && mov.StockAfter.LessThan(m.StockMinimo) {
		low := base
		low.Type = EventLowStock
		events = append(events, low)
	}
	return events
}

type nopSink struct{}

func (nopSink) Enqueue(Event) {}
