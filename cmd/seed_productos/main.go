// seed_productos carga productos desde un CSV usando la misma validación que la API.
//
// Uso: go run ./cmd/seed_productos [-latin1] [ruta/productos.csv]
// Por defecto lee productos.csv del directorio actual. Columnas (con cabecera):
//
//	nombre,descripcion,precio,stock,stock_minimo
//
// Solo nombre y precio son obligatorios. Se insertan en lotes de 100 dentro de una
// sola transacción; los nombres que ya existen se omiten.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/productos-api/internal/application/dto"
	"github.com/jhoicas/productos-api/internal/application/usecase"
	"github.com/jhoicas/productos-api/internal/application/validation"
	"github.com/jhoicas/productos-api/internal/domain/repository"
	"github.com/jhoicas/productos-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/productos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/productos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/productos-api/pkg/config"
	"github.com/jhoicas/productos-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	flag.Parse()
	csvPath := "productos.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	items, err := parseCSV(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Esquema: %v\n", err)
		os.Exit(1)
	}

	// Todo el archivo en una transacción: si un lote falla no queda nada a medias.
	var total, omitidos int
	err = postgres.NewTxRunner(pool).Run(ctx, func(repo repository.ProductRepository) error {
		uc := usecase.NewProductUseCase(
			repo,
			notify.New(),
			infrapdf.NewStockReportGenerator(cfg.App.Name),
			usecase.ProductConfig{DefaultPageSize: cfg.Pagination.DefaultPageSize, MaxPageSize: cfg.Pagination.MaxPageSize},
			log,
		)
		var loadErr error
		total, omitidos, loadErr = load(ctx, repo, uc, items)
		return loadErr
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Carga cancelada: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: %d productos creados desde %s (%d nombres ya existentes omitidos)\n", total, csvPath, omitidos)
}

// load crea los productos en lotes de MaxBatchSize. Los nombres ya guardados o
// repetidos en el archivo se omiten, así volver a correr la carga no falla.
func load(ctx context.Context, repo repository.ProductRepository, uc *usecase.ProductUseCase, items []dto.CreateProductRequest) (creados, omitidos int, err error) {
	vistos := make(map[string]bool, len(items))
	for i, lote := range batches(items, usecase.MaxBatchSize) {
		nombres := make([]string, len(lote))
		for j, it := range lote {
			nombres[j] = validation.NormalizeText(it.Nombre)
		}
		existentes, err := repo.ExistingNombres(ctx, nombres)
		if err != nil {
			return creados, omitidos, fmt.Errorf("lote %d: %w", i+1, err)
		}
		for _, n := range existentes {
			vistos[n] = true
		}

		pendientes := make([]dto.CreateProductRequest, 0, len(lote))
		for j, it := range lote {
			// Nombre vacío llega a la validación y hace fallar el lote.
			if n := nombres[j]; n != "" {
				if vistos[n] {
					omitidos++
					continue
				}
				vistos[n] = true
			}
			pendientes = append(pendientes, it)
		}
		if len(pendientes) == 0 {
			continue
		}
		out, err := uc.CreateMany(ctx, pendientes)
		if err != nil {
			return creados, omitidos, fmt.Errorf("lote %d: %w", i+1, err)
		}
		creados += out.Creados
	}
	return creados, omitidos, nil
}

// parseCSV lee la cabecera y mapea columnas por nombre; el orden no importa.
func parseCSV(r io.Reader) ([]dto.CreateProductRequest, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, req := range []string{"nombre", "precio"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("falta la columna %q", req)
		}
	}
	get := func(rec []string, name string) string {
		if i, ok := col[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		precio, err := decimal.NewFromString(get(rec, "precio"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio no válido: %w", line, err)
		}
		item := dto.CreateProductRequest{Nombre: get(rec, "nombre"), Precio: precio}
		if d := get(rec, "descripcion"); d != "" {
			item.Descripcion = &d
		}
		if item.Stock, err = optionalInt(get(rec, "stock")); err != nil {
			return nil, fmt.Errorf("línea %d: stock: %w", line, err)
		}
		if item.StockMinimo, err = optionalInt(get(rec, "stock_minimo")); err != nil {
			return nil, fmt.Errorf("línea %d: stock_minimo: %w", line, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func batches[T any](items []T, size int) [][]T {
	var out [][]T
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
