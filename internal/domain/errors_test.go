package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/productos-api/internal/domain"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := domain.NotFound("Producto con ID %d no encontrado", 7)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, "Producto con ID 7 no encontrado", err.Error())
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("caso de uso: %w", domain.Conflict("El producto '%s' ya existe.", "Widget"))

	assert.True(t, errors.Is(err, domain.ErrConflict))

	var de *domain.Error
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "El producto 'Widget' ya existe.", de.Message)
}

func TestUpstream_KeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := domain.Upstream(cause, "no se pudo enviar la alerta")

	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "no se pudo enviar la alerta", err.Error())
}

func TestError_EmptyMessageFallsBackToKind(t *testing.T) {
	err := &domain.Error{Kind: domain.ErrInvalidInput}
	assert.Equal(t, domain.ErrInvalidInput.Error(), err.Error())
}
