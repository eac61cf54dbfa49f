// Package config loads the HCL session file used by the blackjack command.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/gameerr"
	"github.com/lox/blackjack/internal/snapshot"
)

// Agent kinds accepted in a player block
const (
	AgentNone      = ""
	AgentDealer    = "dealer"
	AgentThreshold = "threshold"
)

// Storage backends
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

const (
	defaultLogLevel     = "info"
	defaultLogFile      = "blackjack.log"
	defaultTickInterval = "50ms"
	defaultThinkTime    = "1s"
	defaultStandOn      = 17
	defaultSavePath     = "blackjack-save.json"
	defaultRedisURL     = "redis://localhost:6379/0"
)

// Config is a fully defaulted session file
type Config struct {
	LogLevel string
	LogFile  string
	Session  SessionSettings
	Delays   DelaySettings
	Players  []PlayerConfig
	Storage  StorageSettings
}

// SessionSettings control the deck and the round loop
type SessionSettings struct {
	MinPlayers       int    `hcl:"min_players,optional"`
	StartingCards    int    `hcl:"starting_cards,optional"`
	DealSequentially *bool  `hcl:"deal_sequentially,optional"`
	Suits            int    `hcl:"suits,optional"`
	Ranks            int    `hcl:"ranks,optional"`
	Seed             int64  `hcl:"seed,optional"`
	TickInterval     string `hcl:"tick_interval,optional"`
}

// DelaySettings are the phase delays as Go duration strings
type DelaySettings struct {
	AfterReset    string `hcl:"after_reset,optional"`
	AfterDeal     string `hcl:"after_deal,optional"`
	AfterRoundEnd string `hcl:"after_round_end,optional"`
	ClearToReset  string `hcl:"clear_to_reset,optional"`
	ClearToDeal   string `hcl:"clear_to_deal,optional"`
}

// PlayerConfig is one seat, in seating order. ID ties saved games to the
// player; seats without one are numbered after the highest explicit id.
type PlayerConfig struct {
	Name      string `hcl:"name,label"`
	ID        int    `hcl:"id,optional"`
	Dealer    bool   `hcl:"dealer,optional"`
	Agent     string `hcl:"agent,optional"`
	ThinkTime string `hcl:"think_time,optional"`
	StandOn   int    `hcl:"stand_on,optional"`
}

// StorageSettings choose where snapshots are kept
type StorageSettings struct {
	Backend  string `hcl:"backend,optional"`
	Path     string `hcl:"path,optional"`
	RedisURL string `hcl:"redis_url,optional"`
	Key      string `hcl:"key,optional"`
	Autosave *bool  `hcl:"autosave,optional"`
}

type fileConfig struct {
	LogLevel string           `hcl:"log_level,optional"`
	LogFile  string           `hcl:"log_file,optional"`
	Session  *SessionSettings `hcl:"session,block"`
	Delays   *DelaySettings   `hcl:"delays,block"`
	Players  []PlayerConfig   `hcl:"player,block"`
	Storage  *StorageSettings `hcl:"storage,block"`
}

// Default returns the configuration used when no file exists: an agent
// dealer and one human seat.
func Default() *Config {
	c := &Config{
		Players: []PlayerConfig{
			{Name: "Dealer", ID: 1, Dealer: true, Agent: AgentDealer},
			{Name: "You", ID: 2},
		},
	}
	c.applyDefaults()
	return c
}

// Load reads filename. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c := &Config{
		LogLevel: fc.LogLevel,
		LogFile:  fc.LogFile,
		Players:  fc.Players,
	}
	if fc.Session != nil {
		c.Session = *fc.Session
	}
	if fc.Delays != nil {
		c.Delays = *fc.Delays
	}
	if fc.Storage != nil {
		c.Storage = *fc.Storage
	}
	if len(c.Players) == 0 {
		c.Players = Default().Players
	}
	c.applyDefaults()
	return c, nil
}

func boolPtr(b bool) *bool { return &b }

func (c *Config) applyDefaults() {
	def := blackjack.DefaultConfig()
	delays := blackjack.DefaultDelays()

	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.LogFile == "" {
		c.LogFile = defaultLogFile
	}

	s := &c.Session
	if s.MinPlayers == 0 {
		s.MinPlayers = def.MinPlayers
	}
	if s.StartingCards == 0 {
		s.StartingCards = def.StartingCards
	}
	if s.DealSequentially == nil {
		s.DealSequentially = boolPtr(true)
	}
	if s.Suits == 0 {
		s.Suits = def.Suits
	}
	if s.Ranks == 0 {
		s.Ranks = def.Ranks
	}
	if s.TickInterval == "" {
		s.TickInterval = defaultTickInterval
	}

	d := &c.Delays
	for _, f := range []struct {
		field *string
		value time.Duration
	}{
		{&d.AfterReset, delays.AfterReset},
		{&d.AfterDeal, delays.AfterDeal},
		{&d.AfterRoundEnd, delays.AfterRoundEnd},
		{&d.ClearToReset, delays.ClearToReset},
		{&d.ClearToDeal, delays.ClearToDeal},
	} {
		if *f.field == "" {
			*f.field = f.value.String()
		}
	}

	for i := range c.Players {
		p := &c.Players[i]
		if p.Agent != AgentNone && p.ThinkTime == "" {
			p.ThinkTime = defaultThinkTime
		}
		if p.Agent == AgentThreshold && p.StandOn == 0 {
			p.StandOn = defaultStandOn
		}
	}

	st := &c.Storage
	if st.Backend == "" {
		st.Backend = BackendFile
	}
	if st.Path == "" {
		st.Path = defaultSavePath
	}
	if st.RedisURL == "" {
		st.RedisURL = defaultRedisURL
	}
	if st.Key == "" {
		st.Key = snapshot.DefaultRedisKey
	}
	if st.Autosave == nil {
		st.Autosave = boolPtr(true)
	}
}

// Validate checks every value and returns the first problem as a
// gameerr.ConfigError
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return gameerr.NewConfigError("log_level", c.LogLevel, err.Error())
	}
	if _, err := c.TickInterval(); err != nil {
		return err
	}

	bj, err := c.Blackjack()
	if err != nil {
		return err
	}
	if err := bj.Validate(); err != nil {
		return err
	}

	if len(c.Players) < c.Session.MinPlayers {
		return gameerr.NewConfigError("player", len(c.Players), fmt.Sprintf("need at least %d", c.Session.MinPlayers))
	}
	if _, err := c.Roster(); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return gameerr.NewConfigError("storage.backend", c.Storage.Backend, "must be none, file or redis")
	}
	return nil
}

// TickInterval returns the engine loop interval
func (c *Config) TickInterval() (time.Duration, error) {
	d, err := parseDuration("session.tick_interval", c.Session.TickInterval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, gameerr.NewConfigError("session.tick_interval", c.Session.TickInterval, "must be positive")
	}
	return d, nil
}

// Autosave reports whether snapshots are written after each round
func (c *Config) Autosave() bool {
	return c.Storage.Autosave != nil && *c.Storage.Autosave
}

// Blackjack converts the session and delay settings into an engine config
func (c *Config) Blackjack() (blackjack.Config, error) {
	cfg := blackjack.Config{
		MinPlayers:       c.Session.MinPlayers,
		StartingCards:    c.Session.StartingCards,
		DealSequentially: c.Session.DealSequentially != nil && *c.Session.DealSequentially,
		Suits:            c.Session.Suits,
		Ranks:            c.Session.Ranks,
	}

	for _, f := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"delays.after_reset", c.Delays.AfterReset, &cfg.Delays.AfterReset},
		{"delays.after_deal", c.Delays.AfterDeal, &cfg.Delays.AfterDeal},
		{"delays.after_round_end", c.Delays.AfterRoundEnd, &cfg.Delays.AfterRoundEnd},
		{"delays.clear_to_reset", c.Delays.ClearToReset, &cfg.Delays.ClearToReset},
		{"delays.clear_to_deal", c.Delays.ClearToDeal, &cfg.Delays.ClearToDeal},
	} {
		d, err := parseDuration(f.name, f.value)
		if err != nil {
			return blackjack.Config{}, err
		}
		*f.dst = d
	}
	return cfg, nil
}

// Seat is a player ready to register with an engine
type Seat struct {
	ID     int
	Name   string
	Dealer bool
	Agent  blackjack.Agent
}

// Options returns the registration options for the seat
func (s Seat) Options() []blackjack.RegisterOption {
	var opts []blackjack.RegisterOption
	if s.ID > 0 {
		opts = append(opts, blackjack.WithPlayerID(s.ID))
	}
	if s.Dealer {
		opts = append(opts, blackjack.AsDealer())
	}
	if s.Agent != nil {
		opts = append(opts, blackjack.WithAgent(s.Agent))
	}
	return opts
}

// Roster builds the configured seats in order. Every seat gets an id.
func (c *Config) Roster() ([]Seat, error) {
	ids := make(map[int]string, len(c.Players))
	nextID := 1
	for _, p := range c.Players {
		switch {
		case p.ID < 0:
			return nil, gameerr.NewConfigError(fmt.Sprintf("player.%s.id", p.Name), p.ID, "must be positive")
		case p.ID == 0:
			continue
		}
		if other, ok := ids[p.ID]; ok {
			return nil, gameerr.NewConfigError(fmt.Sprintf("player.%s.id", p.Name), p.ID,
				fmt.Sprintf("already used by %s", other))
		}
		ids[p.ID] = p.Name
		nextID = max(nextID, p.ID+1)
	}

	seen := make(map[string]bool, len(c.Players))
	dealers := 0
	seats := make([]Seat, 0, len(c.Players))

	for _, p := range c.Players {
		field := fmt.Sprintf("player.%s", p.Name)
		if p.Name == "" {
			return nil, gameerr.NewConfigError("player", p.Name, "name must not be empty")
		}
		if seen[p.Name] {
			return nil, gameerr.NewConfigError(field, p.Name, "duplicate player name")
		}
		seen[p.Name] = true
		if p.Dealer {
			dealers++
		}

		seat := Seat{ID: p.ID, Name: p.Name, Dealer: p.Dealer}
		if seat.ID == 0 {
			seat.ID = nextID
			nextID++
		}
		switch p.Agent {
		case AgentNone:
		case AgentDealer, AgentThreshold:
			think, err := parseDuration(field+".think_time", p.ThinkTime)
			if err != nil {
				return nil, err
			}
			if think < 0 {
				return nil, gameerr.NewConfigError(field+".think_time", p.ThinkTime, "must not be negative")
			}
			if p.Agent == AgentDealer {
				seat.Agent = blackjack.NewDealerAgent(think)
			} else {
				if p.StandOn < 1 || p.StandOn > blackjack.Blackjack {
					return nil, gameerr.NewConfigError(field+".stand_on", p.StandOn, "must be between 1 and 21")
				}
				seat.Agent = blackjack.NewThresholdAgent(p.StandOn, think)
			}
		default:
			return nil, gameerr.NewConfigError(field+".agent", p.Agent, "must be dealer, threshold or empty")
		}
		seats = append(seats, seat)
	}

	if dealers > 1 {
		return nil, gameerr.NewConfigError("player.dealer", dealers, "at most one player may be the dealer")
	}
	return seats, nil
}

// OpenStore connects the configured snapshot store. The caller closes
// redis stores through the returned close function.
func (c *Config) OpenStore(ctx context.Context) (snapshot.Store, func() error, error) {
	nop := func() error { return nil }
	switch c.Storage.Backend {
	case BackendNone:
		return snapshot.NopStore{}, nop, nil
	case BackendFile:
		return snapshot.NewFileStore(c.Storage.Path), nop, nil
	case BackendRedis:
		s, err := snapshot.DialRedis(ctx, c.Storage.RedisURL, c.Storage.Key)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, gameerr.NewConfigError("storage.backend", c.Storage.Backend, "must be none, file or redis")
	}
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, gameerr.NewConfigError(field, value, "not a duration")
	}
	return d, nil
}
