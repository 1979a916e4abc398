// Package table orchestrates commands against table records: it serialises
// writers per table, runs the game engine, moves chips to and from the
// account ledger and notifies listeners after every committed change.
package table

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/registry"
	"github.com/jesmun04/logbait/internal/store"
)

// maxAttempts bounds retries after a version conflict with another writer.
const maxAttempts = 3

// Registry resolves tables and their members.
type Registry interface {
	Lookup(ctx context.Context, tableID string) (registry.TableInfo, error)
	IsMember(ctx context.Context, accountID, tableID string) bool
	Join(ctx context.Context, tableID, accountID string) error
	Leave(ctx context.Context, tableID, accountID string) error
}

// Ledger moves money between account balances and table stacks.
type Ledger interface {
	EnsureAccount(ctx context.Context, accountID, name string) error
	Debit(ctx context.Context, accountID string, amount float64) error
	Credit(ctx context.Context, accountID string, amount float64) error
}

// StatsRecorder receives per-seat results of finished hands.
type StatsRecorder interface {
	RecordHandResult(ctx context.Context, accountID string, wagered, won float64) error
}

// Event is a committed change to a table. Table is the full record;
// notifiers must sanitize it per recipient.
type Event struct {
	Type      game.EventType
	TableID   string
	AccountID string
	Table     *game.Table
	SeatOrder []string
}

// Notifier is told about every committed change.
type Notifier interface {
	Publish(ctx context.Context, ev Event)
}

// Service runs table commands.
type Service struct {
	store    store.Store
	registry Registry
	ledger   Ledger
	stats    StatsRecorder
	notifier Notifier
	engine   *game.Engine
	clock    quartz.Clock
	logger   *log.Logger
	seed     int64

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

func WithClock(clock quartz.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithEngine(engine *game.Engine) Option {
	return func(s *Service) { s.engine = engine }
}

func WithStats(stats StatsRecorder) Option {
	return func(s *Service) { s.stats = stats }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithSeed makes shuffles reproducible. Zero keeps them random.
func WithSeed(seed int64) Option {
	return func(s *Service) { s.seed = seed }
}

// NewService wires a service over its collaborators.
func NewService(st store.Store, reg Registry, ledger Ledger, opts ...Option) *Service {
	s := &Service{
		store:    st,
		registry: reg,
		ledger:   ledger,
		engine:   game.NewEngine(),
		clock:    quartz.NewReal(),
		logger:   log.Default(),
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("tables")
	return s
}

func (s *Service) lock(tableID string) func() {
	s.mu.Lock()
	l, ok := s.locks[tableID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[tableID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// load returns the stored record or a fresh one for a registered table.
func (s *Service) load(ctx context.Context, tableID string) (*game.Table, error) {
	t, err := s.store.Load(ctx, tableID)
	if errors.Is(err, store.ErrNotFound) {
		return game.NewTable(tableID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", tableID, err)
	}
	return t, nil
}

// transition is the outcome of validating a command against the current record.
type transition struct {
	next  *game.Table
	event game.EventType
	// ledgerDelta is a buy-in when positive and a cash-out when negative.
	ledgerDelta float64
}

type transitionFunc func(cur *game.Table, info registry.TableInfo) (transition, error)

// commit runs fn under the table lock and persists its result with one
// compare-and-swap write. Ledger movements happen before the write and are
// reversed if the write fails.
func (s *Service) commit(ctx context.Context, tableID, accountID string, fn transitionFunc) (*game.Table, error) {
	unlock := s.lock(tableID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		next, err := s.tryCommit(ctx, tableID, accountID, fn)
		if errors.Is(err, store.ErrConflict) && attempt < maxAttempts {
			s.logger.Warn("version conflict, retrying", "table", tableID, "attempt", attempt)
			continue
		}
		return next, err
	}
}

func (s *Service) tryCommit(ctx context.Context, tableID, accountID string, fn transitionFunc) (*game.Table, error) {
	info, err := s.registry.Lookup(ctx, tableID)
	if err != nil {
		return nil, err
	}
	cur, err := s.load(ctx, tableID)
	if err != nil {
		return nil, err
	}
	tr, err := fn(cur, info)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	undo, err := s.moveFunds(ctx, accountID, tr.ledgerDelta)
	if err != nil {
		return nil, err
	}

	next := tr.next
	next.Version = cur.Version + 1
	next.UpdatedAt = s.clock.Now()
	if err := s.store.Save(ctx, next); err != nil {
		if undo != nil {
			if uerr := undo(context.WithoutCancel(ctx)); uerr != nil {
				s.logger.Error("failed to reverse ledger movement", "table", tableID, "account", accountID, "error", uerr)
			}
		}
		return nil, fmt.Errorf("save table %s: %w", tableID, err)
	}

	s.afterCommit(ctx, cur, tr, info, accountID)
	return next, nil
}

func (s *Service) moveFunds(ctx context.Context, accountID string, delta float64) (func(context.Context) error, error) {
	switch {
	case delta > 0:
		if err := s.ledger.Debit(ctx, accountID, delta); err != nil {
			return nil, err
		}
		return func(ctx context.Context) error { return s.ledger.Credit(ctx, accountID, delta) }, nil
	case delta < 0:
		if err := s.ledger.Credit(ctx, accountID, -delta); err != nil {
			return nil, err
		}
		return func(ctx context.Context) error { return s.ledger.Debit(ctx, accountID, -delta) }, nil
	}
	return nil, nil
}

func (s *Service) afterCommit(ctx context.Context, prev *game.Table, tr transition, info registry.TableInfo, accountID string) {
	next := tr.next
	logger := s.logger.With("table", next.ID, "version", next.Version)
	logger.Debug("committed", "event", tr.event, "account", accountID)

	if tr.event == game.EventHandStarted {
		h := next.Hand
		logger.Info("hand started", "hand", h.Number, "seats", len(h.Seats), "dealer", h.Seats[h.DealerIndex].AccountID)
	}

	if h := next.Hand; h != nil && h.Phase == game.Terminated && (prev.Hand == nil || prev.Hand.ID != h.ID || prev.Hand.Live()) {
		winners := make([]string, len(h.Winners))
		for i, w := range h.Winners {
			winners[i] = w.AccountID
		}
		logger.Info("hand finished", "hand", h.Number, "winners", winners, "showdown", h.Showdown)
		s.recordResults(context.WithoutCancel(ctx), h)
	}

	if s.notifier != nil {
		s.notifier.Publish(ctx, Event{
			Type:      tr.event,
			TableID:   next.ID,
			AccountID: accountID,
			Table:     next,
			SeatOrder: info.SeatOrder,
		})
	}
}

func (s *Service) recordResults(ctx context.Context, h *game.HandState) {
	if s.stats == nil {
		return
	}
	for _, r := range h.Results {
		if err := s.stats.RecordHandResult(ctx, r.AccountID, r.Wagered, r.Won); err != nil {
			s.logger.Error("failed to record hand result", "account", r.AccountID, "hand", h.ID, "error", err)
		}
	}
}

func (s *Service) requireMember(ctx context.Context, tableID, accountID string) error {
	if !s.registry.IsMember(ctx, accountID, tableID) {
		if _, err := s.registry.Lookup(ctx, tableID); err != nil {
			return err
		}
		return &game.NotInTableError{AccountID: accountID, TableID: tableID}
	}
	return nil
}
