package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/jesmun04/logbait/internal/auth"
	"github.com/jesmun04/logbait/internal/config"
	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/ledger"
	"github.com/jesmun04/logbait/internal/notify"
	"github.com/jesmun04/logbait/internal/registry"
	"github.com/jesmun04/logbait/internal/server"
	"github.com/jesmun04/logbait/internal/store"
	"github.com/jesmun04/logbait/internal/table"
)

// ServeCmd runs the websocket server.
type ServeCmd struct {
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     *int64 `help:"Deterministic shuffle seed (overrides config)"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Seed != nil {
		cfg.Server.Seed = *c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	addr := cfg.ListenAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger := setupLogger(cfg.Server.LogLevel)
	ctx := signalContext(logger)

	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	led, err := ledger.Open(cfg.Ledger.Path, cfg.Ledger.StartingBalance)
	if err != nil {
		return err
	}
	defer led.Close()

	reg := registry.New()
	for _, tc := range cfg.Tables {
		if err := createTable(ctx, reg, st, led, tc); err != nil {
			return err
		}
		logger.Info("Created table",
			"id", tc.ID,
			"creator", tc.Creator,
			"stakes", fmt.Sprintf("%.2f/%.2f", tc.SmallBlind, tc.BigBlind),
			"capacity", tc.Capacity)
	}

	var validator auth.Validator = auth.NewNoopValidator()
	if cfg.Auth.URL != "" {
		validator = auth.NewHTTPValidator(cfg.Auth.URL, cfg.Auth.AdminSecret)
		logger.Info("Token authentication enabled", "url", cfg.Auth.URL)
	}

	srv := server.NewServer(reg, logger, server.WithValidator(validator))
	notifiers := notify.Multi{srv}
	if cfg.Notify.NatsURL != "" {
		pub, nc, err := notify.Dial(cfg.Notify.NatsURL, cfg.Notify.SubjectPrefix, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				logger.Warn("Failed to drain NATS connection", "error", err)
			}
		}()
		notifiers = append(notifiers, pub)
		logger.Info("Publishing table updates to NATS", "url", cfg.Notify.NatsURL, "prefix", cfg.Notify.SubjectPrefix)
	}

	svc := table.NewService(st, reg, led,
		table.WithLogger(logger),
		table.WithStats(led),
		table.WithNotifier(notifiers),
		table.WithSeed(cfg.Server.Seed),
	)
	srv.SetService(svc)

	if cfg.Server.Seed != 0 {
		logger.Info("Using deterministic seed", "seed", cfg.Server.Seed)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, addr)
	})
	if r, ok := st.(*store.Redis); ok {
		g.Go(func() error {
			return watchRedis(ctx, quartz.NewReal(), r, logger)
		})
	}

	err = g.Wait()
	logger.Info("Server stopped")
	return err
}

func openStore(ctx context.Context, cfg *config.StoreSettings, logger *log.Logger) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		r := store.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.KeyPrefix)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := r.Ping(pingCtx); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("connect to redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Using Redis table store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return r, nil
	default:
		logger.Info("Using in-memory table store")
		return store.NewMemory(), nil
	}
}

// createTable registers tc and reseats members of a persisted record, so a
// restart against Redis keeps the seating.
func createTable(ctx context.Context, reg *registry.Registry, st store.Store, led *ledger.Ledger, tc config.TableConfig) error {
	err := reg.Create(registry.TableInfo{
		ID:         tc.ID,
		Name:       tc.Name,
		CreatorID:  tc.Creator,
		Capacity:   tc.Capacity,
		SmallBlind: tc.SmallBlind,
		BigBlind:   tc.BigBlind,
		MinimumBet: tc.MinimumBet,
	})
	if err != nil {
		return err
	}
	if err := led.EnsureAccount(ctx, tc.Creator, tc.Creator); err != nil {
		return err
	}

	rec, err := st.Load(ctx, tc.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load table %s: %w", tc.ID, err)
	}
	for _, id := range memberOrder(rec) {
		if err := reg.Join(ctx, tc.ID, id); err != nil {
			return fmt.Errorf("reseat %s at %s: %w", id, tc.ID, err)
		}
	}
	return nil
}

// memberOrder lists members in the last hand's seat order, then the rest by id.
func memberOrder(t *game.Table) []string {
	var order []string
	seen := make(map[string]bool)
	if t.Hand != nil {
		for _, id := range t.Hand.SeatOrder {
			if t.IsMember(id) && !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		}
	}
	var rest []string
	for id := range t.Stacks {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

const redisCheckInterval = 30 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// watchRedis logs when the store stops answering and when it recovers.
func watchRedis(ctx context.Context, clock quartz.Clock, r pinger, logger *log.Logger) error {
	ticker := clock.NewTicker(redisCheckInterval, "redis")
	defer ticker.Stop()
	return pollRedis(ctx, ticker.C, r, logger)
}

func pollRedis(ctx context.Context, ticks <-chan time.Time, r pinger, logger *log.Logger) error {
	healthy := true
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err := r.Ping(pingCtx)
			cancel()
			switch {
			case err != nil && healthy:
				logger.Error("Redis store unreachable", "error", err)
			case err == nil && !healthy:
				logger.Info("Redis store reachable again")
			}
			healthy = err == nil
		}
	}
}
