package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/productos-api/internal/application/dto"
	"github.com/jhoicas/productos-api/internal/application/usecase"
	"github.com/jhoicas/productos-api/internal/infrastructure/memory"
	"github.com/jhoicas/productos-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/productos-api/internal/infrastructure/pdf"
)

func TestParseCSV(t *testing.T) {
	in := "precio,nombre,stock,stock_minimo,descripcion\n" +
		"10.5,Widget,5,3,azul\n" +
		"2,Tuerca,,,\n"

	items, err := parseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Widget", items[0].Nombre)
	assert.Equal(t, "10.5", items[0].Precio.String())
	require.NotNil(t, items[0].Stock)
	assert.Equal(t, 5, *items[0].Stock)
	assert.Equal(t, 3, *items[0].StockMinimo)
	assert.Equal(t, "azul", *items[0].Descripcion)

	assert.Nil(t, items[1].Stock)
	assert.Nil(t, items[1].StockMinimo)
	assert.Nil(t, items[1].Descripcion)
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := parseCSV(strings.NewReader("nombre\nWidget\n"))
	assert.ErrorContains(t, err, `"precio"`)

	_, err = parseCSV(strings.NewReader("nombre,precio\nWidget,diez\n"))
	assert.ErrorContains(t, err, "línea 2")

	_, err = parseCSV(strings.NewReader("nombre,precio,stock\nWidget,1,x\n"))
	assert.ErrorContains(t, err, "stock")
}

func TestParseCSV_Latin1(t *testing.T) {
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, charmap.ISO8859_1.NewEncoder())
	_, err := w.Write([]byte("nombre,precio\nCafé molido,12\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	items, err := parseCSV(transform.NewReader(&buf, charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Café molido", items[0].Nombre)
}

func TestBatches(t *testing.T) {
	items := make([]int, 250)
	got := batches(items, 100)
	require.Len(t, got, 3)
	assert.Len(t, got[0], 100)
	assert.Len(t, got[2], 50)
	assert.Empty(t, batches([]int{}, 100))
}

func TestLoad_SkipsExistingAndRepeatedNames(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository()
	uc := usecase.NewProductUseCase(repo, notify.New(), infrapdf.NewStockReportGenerator("test"),
		usecase.ProductConfig{DefaultPageSize: 10, MaxPageSize: 50}, nil)
	_, err := uc.Create(ctx, dto.CreateProductRequest{Nombre: "Widget", Precio: decimal.NewFromInt(10)})
	require.NoError(t, err)

	items := []dto.CreateProductRequest{
		{Nombre: "Widget", Precio: decimal.NewFromInt(1)},
		{Nombre: "Tuerca", Precio: decimal.NewFromInt(1)},
		{Nombre: " Tuerca ", Precio: decimal.NewFromInt(2)},
	}
	for i := range 100 {
		items = append(items, dto.CreateProductRequest{Nombre: fmt.Sprintf("Clavo %03d", i), Precio: decimal.NewFromInt(1)})
	}
	// El segundo lote repite un nombre del primero.
	items = append(items, dto.CreateProductRequest{Nombre: "Clavo 000", Precio: decimal.NewFromInt(1)})

	creados, omitidos, err := load(ctx, repo, uc, items)
	require.NoError(t, err)
	assert.Equal(t, 101, creados)
	assert.Equal(t, 3, omitidos)

	// Volver a cargar el mismo archivo no crea nada ni falla.
	creados, omitidos, err = load(ctx, repo, uc, items)
	require.NoError(t, err)
	assert.Equal(t, 0, creados)
	assert.Equal(t, len(items), omitidos)
}

func TestLoad_InvalidItemFails(t *testing.T) {
	repo := memory.NewProductRepository()
	uc := usecase.NewProductUseCase(repo, notify.New(), infrapdf.NewStockReportGenerator("test"),
		usecase.ProductConfig{DefaultPageSize: 10, MaxPageSize: 50}, nil)

	_, _, err := load(context.Background(), repo, uc, []dto.CreateProductRequest{
		{Nombre: "", Precio: decimal.NewFromInt(1)},
	})
	assert.ErrorContains(t, err, "lote 1")
}
