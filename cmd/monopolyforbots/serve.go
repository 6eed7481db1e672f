package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lox/monopolyforbots/cmd/monopolyforbots/shared"
	"github.com/lox/monopolyforbots/internal/server"
	"github.com/lox/monopolyforbots/internal/store"
)

// ServeCmd runs the HTTP and WebSocket server.
type ServeCmd struct {
	Addr     string  `kong:"help='Listen host, overriding the config'"`
	Port     int     `kong:"help='Listen port, overriding the config'"`
	Store    string  `kong:"help='Snapshot store driver (memory, file or redis), overriding the config'"`
	DataDir  string  `kong:"name='data-dir',help='Directory for the file store'"`
	RedisURL string  `kong:"name='redis-url',env='MONOPOLY_REDIS_URL',help='Redis URL for the redis store'"`
	Speed    float64 `kong:"default='-1',help='Bot delay multiplier, negative uses the config'"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	logger := shared.SetupLogger(globals.Debug, globals.LogJSON)
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.Speed >= 0 {
		cfg.Server.DelayScale = c.Speed
	}
	if c.Store != "" {
		cfg.Persistence.Driver = c.Store
	}
	if c.DataDir != "" {
		cfg.Persistence.Path = c.DataDir
	}
	if c.RedisURL != "" {
		cfg.Persistence.RedisURL = c.RedisURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !globals.Debug {
		level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
		if err != nil {
			return fmt.Errorf("server log_level: %w", err)
		}
		logger = logger.Level(level)
	}

	st, err := store.Open(cfg.Persistence, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	s := server.NewServer(cfg, st, logger)

	logger.Info().
		Str("address", cfg.Address()).
		Str("board", cfg.Game.Board).
		Str("store", cfg.Persistence.Driver).
		Float64("bot_delay_scale", cfg.Server.DelayScale).
		Int("max_rounds", cfg.Game.MaxRounds).
		Msg("Starting MonopolyForBots server")

	ctx, cancel := shared.SignalContext(logger)
	defer cancel()

	return s.Start(ctx)
}
