package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
)

func TestLedgerAudit_Consistente(t *testing.T) {
	s := newMemStore()
	s.addMaterial("m1", "kg", "100", "0")
	uc := newTestUseCase(s)
	for _, step := range []struct {
		kind entity.MovementType
		qty  string
	}{
		{entity.MovementTypeENTRY, "50"},
		{entity.MovementTypeEXIT, "200"},
		{entity.MovementTypePURCHASE, "12.75"},
		{entity.MovementTypeADJUSTMENT, "9"},
		{entity.MovementTypeEXIT, "0.5"},
	} {
		_, err := record(t, uc, "m1", step.kind, step.qty, "paso")
		require.NoError(t, err)
	}

	out, err := NewLedgerAuditUseCase(s).Verify(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, out.Consistent)
	assert.Equal(t, 5, out.Movements)
	assert.True(t, dec("8.5").Equal(out.ExpectedStock))
	assert.True(t, out.ExpectedStock.Equal(out.ActualStock))
	assert.Nil(t, out.FirstMismatchID)
}

func TestLedgerAudit_SinMovimientos(t *testing.T) {
	s := newMemStore()
	s.addMaterial("m1", "kg", "42", "0")

	out, err := NewLedgerAuditUseCase(s).Verify(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, out.Consistent)
	assert.True(t, dec("42").Equal(out.ExpectedStock))
}

func TestLedgerAudit_StockAlteradoFueraDelLibro(t *testing.T) {
	s := newMemStore()
	s.addMaterial("m1", "kg", "10", "0")
	uc := newTestUseCase(s)
	_, err := record(t, uc, "m1", entity.MovementTypeENTRY, "5", "x")
	require.NoError(t, err)

	s.mu.Lock()
	s.materials["m1"].StockActual = dec("99")
	s.mu.Unlock()

	out, err := NewLedgerAuditUseCase(s).Verify(context.Background(), "m1")
	require.NoError(t, err)
	assert.False(t, out.Consistent)
	assert.True(t, dec("15").Equal(out.ExpectedStock))
	assert.Nil(t, out.FirstMismatchID)
}

func TestLedgerAudit_MovimientoAlterado(t *testing.T) {
	s := newMemStore()
	s.addMaterial("m1", "kg", "10", "0")
	uc := newTestUseCase(s)
	_, err := record(t, uc, "m1", entity.MovementTypeENTRY, "5", "x")
	require.NoError(t, err)
	res, err := record(t, uc, "m1", entity.MovementTypeEXIT, "2", "x")
	require.NoError(t, err)

	s.mu.Lock()
	s.movements[1].StockAfter = dec("14")
	s.mu.Unlock()

	out, err := NewLedgerAuditUseCase(s).Verify(context.Background(), "m1")
	require.NoError(t, err)
	assert.False(t, out.Consistent)
	require.NotNil(t, out.FirstMismatchID)
	assert.Equal(t, res.Movement.ID, *out.FirstMismatchID)
}

func TestLedgerAudit_MaterialInexistente(t *testing.T) {
	s := newMemStore()
	_, err := NewLedgerAuditUseCase(s).Verify(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerAudit_MovimientoConcurrenteNoRompeLaLectura(t *testing.T) {
	s := newMemStore()
	s.addMaterial("m1", "kg", "10", "0")
	uc := newTestUseCase(s)
	_, err := record(t, uc, "m1", entity.MovementTypeENTRY, "5", "x")
	require.NoError(t, err)

	// otro movimiento se confirma justo después de leer el material
	fired := false
	s.onMaterialRead = func() {
		if fired {
			return
		}
		fired = true
		_, err := record(t, uc, "m1", entity.MovementTypeEXIT, "3", "concurrente")
		require.NoError(t, err)
	}

	out, err := NewLedgerAuditUseCase(s).Verify(context.Background(), "m1")
	require.NoError(t, err)
	require.True(t, fired)
	assert.True(t, out.Consistent)
	assert.Equal(t, 1, out.Movements)
	assert.True(t, dec("15").Equal(out.ActualStock))

	s.onMaterialRead = nil
	out, err = NewLedgerAuditUseCase(s).Verify(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, out.Consistent)
	assert.Equal(t, 2, out.Movements)
	assert.True(t, dec("12").Equal(out.ActualStock))
}
