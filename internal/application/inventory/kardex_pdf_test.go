package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumac/alumac-api/internal/domain"
	"github.com/alumac/alumac-api/internal/domain/entity"
)

type fakeKardexGenerator struct {
	material *entity.Material
	rows     int
}

func (g *fakeKardexGenerator) GenerateKardexPDF(_ context.Context, m *entity.Material, movs []*entity.StockMovementDetail) ([]byte, error) {
	g.material = m
	g.rows = len(movs)
	return []byte("%PDF-1.3"), nil
}

func TestKardexPDF_Generate(t *testing.T) {
	s := newMemStore()
	s.addMaterial("m1", "barra", "10", "0")
	uc := newTestUseCase(s)
	for i := 0; i < 4; i++ {
		_, err := record(t, uc, "m1", entity.MovementTypeEXIT, "1", "x")
		require.NoError(t, err)
	}

	gen := &fakeKardexGenerator{}
	kardex := NewKardexPDFUseCase(memMaterialRepo{s}, memMovementRepo{s}, gen, 3)

	pdf, codigo, err := kardex.Generate(context.Background(), "m1", 0)
	require.NoError(t, err)
	assert.Equal(t, "COD-m1", codigo)
	assert.Equal(t, []byte("%PDF-1.3"), pdf)
	assert.Equal(t, 3, gen.rows, "se recorta al máximo de filas")
	assert.True(t, dec("6").Equal(gen.material.StockActual))

	_, _, err = kardex.Generate(context.Background(), "nope", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
