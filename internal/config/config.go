// Package config loads the pokerd HCL configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration.
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Store  *StoreSettings  `hcl:"store,block"`
	Ledger *LedgerSettings `hcl:"ledger,block"`
	Notify *NotifySettings `hcl:"notify,block"`
	Auth   *AuthSettings   `hcl:"auth,block"`
	Tables []TableConfig   `hcl:"table,block"`
}

// ServerSettings contains listener and process settings.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	// Seed makes shuffles reproducible; zero means random.
	Seed int64 `hcl:"seed,optional"`
}

// StoreSettings selects where table records live.
type StoreSettings struct {
	Backend   string `hcl:"backend,optional"`
	RedisAddr string `hcl:"redis_addr,optional"`
	RedisPass string `hcl:"redis_password,optional"`
	RedisDB   int    `hcl:"redis_db,optional"`
	KeyPrefix string `hcl:"key_prefix,optional"`
}

// LedgerSettings configures the account database.
type LedgerSettings struct {
	Path            string  `hcl:"path,optional"`
	StartingBalance float64 `hcl:"starting_balance,optional"`
}

// NotifySettings configures the NATS spectator feed. An empty URL disables it.
type NotifySettings struct {
	NatsURL       string `hcl:"nats_url,optional"`
	SubjectPrefix string `hcl:"subject_prefix,optional"`
}

// AuthSettings configures token validation for websocket clients. An empty
// URL accepts any account name.
type AuthSettings struct {
	URL         string `hcl:"url,optional"`
	AdminSecret string `hcl:"admin_secret,optional"`
}

// TableConfig defines a table created at startup.
type TableConfig struct {
	ID         string  `hcl:"id,label"`
	Name       string  `hcl:"name,optional"`
	Creator    string  `hcl:"creator"`
	Capacity   int     `hcl:"capacity,optional"`
	SmallBlind float64 `hcl:"small_blind,optional"`
	BigBlind   float64 `hcl:"big_blind,optional"`
	MinimumBet float64 `hcl:"minimum_bet,optional"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{
		Tables: []TableConfig{{ID: "main", Creator: "admin"}},
	}
	c.applyDefaults()
	return c
}

// Load reads filename, falling back to Default when it does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	diags = gohcl.DecodeBody(file.Body, nil, &c)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Store == nil {
		c.Store = &StoreSettings{}
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendMemory
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = "localhost:6379"
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "poker:"
	}

	if c.Ledger == nil {
		c.Ledger = &LedgerSettings{}
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = "poker.db"
	}
	if c.Ledger.StartingBalance == 0 {
		c.Ledger.StartingBalance = 1000
	}

	if c.Notify == nil {
		c.Notify = &NotifySettings{}
	}
	if c.Notify.SubjectPrefix == "" {
		c.Notify.SubjectPrefix = "poker"
	}

	if c.Auth == nil {
		c.Auth = &AuthSettings{}
	}

	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Name == "" {
			t.Name = t.ID
		}
		if t.Capacity == 0 {
			t.Capacity = 6
		}
		if t.MinimumBet == 0 {
			t.MinimumBet = 10
		}
		if t.BigBlind == 0 {
			t.BigBlind = t.MinimumBet
		}
		if t.SmallBlind == 0 {
			t.SmallBlind = t.BigBlind / 2
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Ledger.StartingBalance < 0 {
		return fmt.Errorf("starting balance must not be negative")
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if seen[t.ID] {
			return fmt.Errorf("table %s: defined twice", t.ID)
		}
		seen[t.ID] = true
		if t.Creator == "" {
			return fmt.Errorf("table %s: creator is required", t.ID)
		}
		if t.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.ID)
		}
		if t.BigBlind < t.SmallBlind {
			return fmt.Errorf("table %s: big blind must not be below small blind", t.ID)
		}
		if t.MinimumBet <= 0 {
			return fmt.Errorf("table %s: minimum bet must be positive", t.ID)
		}
		if t.Capacity < 2 || t.Capacity > 10 {
			return fmt.Errorf("table %s: capacity must be between 2 and 10", t.ID)
		}
	}
	return nil
}

// ListenAddress returns the host:port the server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
