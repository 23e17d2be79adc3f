package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/productos-api/internal/domain"
	"github.com/jhoicas/productos-api/internal/domain/entity"
	"github.com/jhoicas/productos-api/internal/domain/repository"
	"github.com/jhoicas/productos-api/internal/infrastructure/memory"
)

func seed(t *testing.T, r *memory.ProductRepo, nombres ...string) {
	t.Helper()
	for i, n := range nombres {
		_, err := r.Create(context.Background(), entity.NuevoProducto{
			Nombre: n, Precio: decimal.NewFromInt(int64(10 + i)), Stock: i, StockMinimo: 1,
		})
		require.NoError(t, err)
	}
}

func TestProductRepo_CreateAndUnique(t *testing.T) {
	r := memory.NewProductRepository()
	seed(t, r, "Tuerca")

	_, err := r.Create(context.Background(), entity.NuevoProducto{Nombre: "Tuerca", Precio: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	p, err := r.GetByNombre(context.Background(), "Tuerca")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, entity.EstadoActivo, p.Estado)

	none, err := r.GetByNombre(context.Background(), "Nada")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestProductRepo_ListFilterSortPage(t *testing.T) {
	r := memory.NewProductRepository()
	seed(t, r, "Clavo", "Arandela", "Tornillo", "Tuerca")
	ctx := context.Background()
	_, err := r.SetEstado(ctx, 3, entity.EstadoInactivo)
	require.NoError(t, err)

	active := repository.ProductFilter{Estado: entity.EstadoActivo}
	byNombre := repository.ProductSort{Field: repository.SortByNombre, Direction: repository.Asc}

	got, err := r.List(ctx, active, byNombre, 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Arandela", got[0].Nombre)
	assert.Equal(t, "Clavo", got[1].Nombre)

	got, err = r.List(ctx, active, byNombre, 2, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tuerca", got[0].Nombre)

	got, err = r.List(ctx, active, byNombre, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err := r.Count(ctx, repository.ProductFilter{Estado: entity.EstadoActivo, Nombre: "TU"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = r.Count(ctx, repository.ProductFilter{Estado: entity.EstadoInactivo})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = r.List(ctx, active, repository.ProductSort{Field: repository.SortByPrecio, Direction: repository.Desc}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "Tuerca", got[0].Nombre)
}

func TestProductRepo_AdjustStockGuard(t *testing.T) {
	r := memory.NewProductRepository()
	seed(t, r, "Clavo", "Arandela")
	ctx := context.Background()

	p, err := r.AdjustStock(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	_, err = r.AdjustStock(ctx, 2, -6)
	assert.ErrorIs(t, err, repository.ErrStockInsuficiente)

	p, err = r.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	_, err = r.AdjustStock(ctx, 99, 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductRepo_CreateManySkipsDuplicates(t *testing.T) {
	r := memory.NewProductRepository()
	seed(t, r, "Clavo")
	ctx := context.Background()
	items := []entity.NuevoProducto{
		{Nombre: "Clavo", Precio: decimal.NewFromInt(1)},
		{Nombre: "Broca", Precio: decimal.NewFromInt(1)},
	}

	_, err := r.CreateMany(ctx, items, false)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	n, err := r.CreateMany(ctx, items, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	existing, err := r.ExistingNombres(ctx, []string{"Clavo", "Broca", "Lija"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Clavo", "Broca"}, existing)
}

func TestProductRepo_ListLowStock(t *testing.T) {
	r := memory.NewProductRepository()
	seed(t, r, "Clavo", "Arandela", "Tornillo") // stock 0, 1, 2 con mínimo 1
	ctx := context.Background()

	low, err := r.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Clavo", low[0].Nombre)
	assert.Equal(t, "Arandela", low[1].Nombre)

	_, err = r.SetEstado(ctx, 1, entity.EstadoInactivo)
	require.NoError(t, err)
	low, err = r.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 1)
}

func TestProductRepo_DescripcionIsNotShared(t *testing.T) {
	r := memory.NewProductRepository()
	ctx := context.Background()
	desc := "Acero inoxidable"

	created, err := r.Create(ctx, entity.NuevoProducto{Nombre: "Tuerca", Descripcion: &desc, Precio: decimal.NewFromInt(1)})
	require.NoError(t, err)

	desc = "modificada por el llamador"
	*created.Descripcion = "modificada en la respuesta"

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Descripcion)
	assert.Equal(t, "Acero inoxidable", *got.Descripcion)

	*got.Descripcion = "otra vez"
	list, err := r.List(ctx, repository.ProductFilter{Estado: entity.EstadoActivo},
		repository.ProductSort{Field: repository.SortByNombre}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acero inoxidable", *list[0].Descripcion)
}
