// Package notify fans committed table changes out to listeners beyond the
// websocket hub.
package notify

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"

	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/table"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Update is the payload published for every table event.
type Update struct {
	Event     game.EventType `json:"event"`
	AccountID string         `json:"account_id,omitempty"`
	View      game.View      `json:"view"`
}

// NATS publishes a spectator view of each change on <prefix>.table.<id>
// and each member's private view on <prefix>.table.<id>.player.<account>.
type NATS struct {
	conn   Conn
	prefix string
	logger *log.Logger
}

// NewNATS wraps an existing connection.
func NewNATS(conn Conn, prefix string, logger *log.Logger) *NATS {
	return &NATS{conn: conn, prefix: prefix, logger: logger.WithPrefix("nats")}
}

// Dial connects to url and returns the publisher and the underlying
// connection so the caller can drain it on shutdown.
func Dial(url, prefix string, logger *log.Logger) (*NATS, *nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("pokerd"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return NewNATS(nc, prefix, logger), nc, nil
}

// TableSubject is the spectator subject for tableID.
func (n *NATS) TableSubject(tableID string) string {
	return fmt.Sprintf("%s.table.%s", n.prefix, tableID)
}

// PlayerSubject is the private subject for accountID at tableID.
func (n *NATS) PlayerSubject(tableID, accountID string) string {
	return fmt.Sprintf("%s.table.%s.player.%s", n.prefix, tableID, accountID)
}

func (n *NATS) Publish(ctx context.Context, ev table.Event) {
	n.send(n.TableSubject(ev.TableID), Update{
		Event:     ev.Type,
		AccountID: ev.AccountID,
		View:      game.NewView(ev.Table, "", ev.SeatOrder),
	})

	for _, id := range ev.SeatOrder {
		if !ev.Table.IsMember(id) {
			continue
		}
		n.send(n.PlayerSubject(ev.TableID, id), Update{
			Event:     ev.Type,
			AccountID: ev.AccountID,
			View:      game.NewView(ev.Table, id, ev.SeatOrder),
		})
	}
}

func (n *NATS) send(subject string, u Update) {
	data, err := json.Marshal(u)
	if err != nil {
		n.logger.Error("Failed to encode update", "subject", subject, "error", err)
		return
	}
	if err := n.conn.Publish(subject, data); err != nil {
		n.logger.Warn("Failed to publish update", "subject", subject, "error", err)
		return
	}
	n.logger.Debug("Published", "subject", subject, "event", u.Event)
}
