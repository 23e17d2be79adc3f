package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/productos-api/internal/infrastructure/notify"
)

type stub struct {
	calls int
	err   error
}

func (s *stub) Send(context.Context, string) error {
	s.calls++
	return s.err
}

func TestFanout_AllChannelsReceive(t *testing.T) {
	a, b := &stub{}, &stub{}
	n := notify.New(a, nil, b)

	assert.NoError(t, n.Send(context.Background(), "hola"))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestFanout_FailureDoesNotSkipOthers(t *testing.T) {
	boom := errors.New("telegram caído")
	a, b := &stub{err: boom}, &stub{}
	n := notify.New(a, b)

	err := n.Send(context.Background(), "hola")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, b.calls)
}

func TestNew_SingleChannelUnwrapped(t *testing.T) {
	a := &stub{}
	assert.Same(t, a, notify.New(nil, a))
	assert.NoError(t, notify.New().Send(context.Background(), "x"))
}
