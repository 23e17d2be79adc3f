package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/productos-api/internal/domain/entity"
	"github.com/jhoicas/productos-api/internal/domain/repository"
)

// MockProductRepository mock de repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*entity.Producto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Producto), args.Error(1)
}

func (m *MockProductRepository) GetByNombre(ctx context.Context, nombre string) (*entity.Producto, error) {
	args := m.Called(ctx, nombre)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Producto), args.Error(1)
}

func (m *MockProductRepository) ExistingNombres(ctx context.Context, nombres []string) ([]string, error) {
	args := m.Called(ctx, nombres)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter, sort repository.ProductSort, limit, offset int) ([]*entity.Producto, error) {
	args := m.Called(ctx, filter, sort, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Producto), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter repository.ProductFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p entity.NuevoProducto) (*entity.Producto, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Producto), args.Error(1)
}

func (m *MockProductRepository) CreateMany(ctx context.Context, items []entity.NuevoProducto, skipDuplicates bool) (int, error) {
	args := m.Called(ctx, items, skipDuplicates)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id int64, cambios entity.CambiosProducto) (*entity.Producto, error) {
	args := m.Called(ctx, id, cambios)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Producto), args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, id int64, delta int) (*entity.Producto, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Producto), args.Error(1)
}

func (m *MockProductRepository) SetEstado(ctx context.Context, id int64, estado entity.Estado) (*entity.Producto, error) {
	args := m.Called(ctx, id, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Producto), args.Error(1)
}

func (m *MockProductRepository) ListLowStock(ctx context.Context) ([]*entity.Producto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Producto), args.Error(1)
}

// recordingNotifier guarda los mensajes enviados; err simula un fallo de envío.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, text)
	return nil
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

// fakeReport devuelve bytes fijos y recuerda la entrada.
type fakeReport struct {
	got      []*entity.Producto
	generado time.Time
}

func (f *fakeReport) GenerateLowStockReport(_ context.Context, productos []*entity.Producto, generado time.Time) ([]byte, error) {
	f.got = productos
	f.generado = generado
	return []byte("%PDF-fake"), nil
}
