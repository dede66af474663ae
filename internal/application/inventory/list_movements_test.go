package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
)

func seedHistory(t *testing.T) (*memStore, *ListMovementsUseCase) {
	t.Helper()
	s := newMemStore()
	s.addMaterial("m1", "kg", "100", "0")
	s.addMaterial("m2", "kg", "5", "0")
	s.users[actor] = "Juan Pérez"
	s.suppliers["p1"] = &entity.Supplier{ID: "p1", Nombre: "Vidriería Norte"}
	s.purchases["c1"] = &entity.Purchase{ID: "c1", Numero: "OC-7", ProveedorID: "p1"}

	uc := newTestUseCase(s)
	_, err := record(t, uc, "m1", entity.MovementTypeENTRY, "50", "restock")
	require.NoError(t, err)
	_, err = record(t, uc, "m2", entity.MovementTypeENTRY, "1", "otro material")
	require.NoError(t, err)
	_, err = record(t, uc, "m1", entity.MovementTypeEXIT, "30", "obra Belgrano")
	require.NoError(t, err)
	_, err = uc.RecordMovement(context.Background(), MovementInput{
		MaterialID: "m1", ActorID: actor, Type: entity.MovementTypePURCHASE,
		Quantity: dec("10"), Reason: "compra", CompraID: ptr("c1"),
	})
	require.NoError(t, err)

	return s, NewListMovementsUseCase(memMaterialRepo{s}, memMovementRepo{s}, 2, 3)
}

func TestListMovements_MasRecientePrimero(t *testing.T) {
	_, uc := seedHistory(t)

	out, err := uc.ListMovements(context.Background(), "m1", 3)
	require.NoError(t, err)
	require.Len(t, out.Items, 3)

	assert.Equal(t, "PURCHASE", out.Items[0].Type)
	assert.Equal(t, "EXIT", out.Items[1].Type)
	assert.Equal(t, "ENTRY", out.Items[2].Type)
	for _, it := range out.Items {
		assert.Equal(t, "m1", it.MaterialID)
		assert.Equal(t, "Juan Pérez", it.UserName)
	}
	require.NotNil(t, out.Items[0].CompraNumero)
	assert.Equal(t, "OC-7", *out.Items[0].CompraNumero)
	require.NotNil(t, out.Items[0].ProveedorNombre)
	assert.Equal(t, "Vidriería Norte", *out.Items[0].ProveedorNombre)
	assert.Nil(t, out.Items[1].CompraNumero)
}

func TestListMovements_Limites(t *testing.T) {
	_, uc := seedHistory(t)

	out, err := uc.ListMovements(context.Background(), "m1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Limit, "limit 0 usa el valor por defecto")
	assert.Len(t, out.Items, 2)

	out, err = uc.ListMovements(context.Background(), "m1", 1000)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Limit, "limit se recorta al máximo")
}

func TestListMovements_LecturaIdempotente(t *testing.T) {
	_, uc := seedHistory(t)

	a, err := uc.ListMovements(context.Background(), "m1", 3)
	require.NoError(t, err)
	b, err := uc.ListMovements(context.Background(), "m1", 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestListMovements_LeeLoUltimoConfirmado(t *testing.T) {
	s, list := seedHistory(t)
	uc := newTestUseCase(s)

	res, err := record(t, uc, "m1", entity.MovementTypeADJUSTMENT, "7", "conteo")
	require.NoError(t, err)

	out, err := list.ListMovements(context.Background(), "m1", 1)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, res.Movement.ID, out.Items[0].ID)
	assert.True(t, dec("7").Equal(out.Items[0].StockAfter))
}

func TestListMovements_MaterialInexistente(t *testing.T) {
	_, uc := seedHistory(t)
	_, err := uc.ListMovements(context.Background(), "nope", 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ListMovements(context.Background(), " ", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_MaterialDesactivadoConservaHistorial(t *testing.T) {
	s, uc := seedHistory(t)
	require.NoError(t, memMaterialRepo{s}.Deactivate(context.Background(), "m1"))

	out, err := uc.ListMovements(context.Background(), "m1", 3)
	require.NoError(t, err)
	assert.Len(t, out.Items, 3)
}
