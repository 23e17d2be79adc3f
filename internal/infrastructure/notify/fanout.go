// Package notify combina varios Notifier en uno.
package notify

import (
	"context"
	"errors"

	"github.com/jhoicas/productos-api/internal/application/ports"
)

var _ ports.Notifier = Fanout(nil)

// Fanout envía el mismo texto a todos los canales. Intenta todos aunque alguno
// falle y devuelve los errores unidos.
type Fanout []ports.Notifier

// New descarta los nil. Con un solo canal lo devuelve tal cual.
func New(notifiers ...ports.Notifier) ports.Notifier {
	out := make(Fanout, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (f Fanout) Send(ctx context.Context, text string) error {
	var errs []error
	for _, n := range f {
		if err := n.Send(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
