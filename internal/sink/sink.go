// Package sink delivers monitoring events to their outputs.
package sink

import (
	"context"

	"github.com/HerbHall/hostwatch/pkg/models"
)

// Sink accepts emitted events. Implementations must not retain the event's
// snapshot beyond the call.
type Sink interface {
	Emit(ctx context.Context, e models.Event)
}

// Func adapts a function to the Sink interface.
type Func func(ctx context.Context, e models.Event)

// Emit calls f.
func (f Func) Emit(ctx context.Context, e models.Event) { f(ctx, e) }

// Multi fans every event out to each sink in order.
type Multi []Sink

// Compile-time guards.
var (
	_ Sink = Multi(nil)
	_ Sink = Func(nil)
)

// Emit delivers e to every non-nil sink.
func (m Multi) Emit(ctx context.Context, e models.Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, e)
		}
	}
}
