package notify

import (
	"context"

	"github.com/jesmun04/logbait/internal/table"
)

// Multi delivers every event to each notifier in order.
type Multi []table.Notifier

func (m Multi) Publish(ctx context.Context, ev table.Event) {
	for _, n := range m {
		if n != nil {
			n.Publish(ctx, ev)
		}
	}
}
