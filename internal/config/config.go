// Package config loads game, board, bot, server and persistence settings
// from HCL.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/monopolyforbots/internal/game"
)

// ErrUnknownBoard is returned when a board key is not configured.
var ErrUnknownBoard = errors.New("unknown board")

// Config is the complete configuration file.
type Config struct {
	Server      *ServerSettings      `hcl:"server,block"`
	Game        *GameSettings        `hcl:"game,block"`
	Persistence *PersistenceSettings `hcl:"persistence,block"`
	Boards      []BoardConfig        `hcl:"board,block"`
	Bots        []BotConfig          `hcl:"bot,block"`
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Address    string  `hcl:"address,optional"`
	Port       int     `hcl:"port,optional"`
	LogLevel   string  `hcl:"log_level,optional"`
	DelayScale float64 `hcl:"bot_delay_scale,optional"` // 0 plays bots instantly
}

// GameSettings are the rules applied to new games. Boards may override the
// tax policy.
type GameSettings struct {
	Board             string `hcl:"board,optional"`
	StartingCash      int    `hcl:"starting_cash,optional"`
	GoSalary          int    `hcl:"go_salary,optional"`
	JailTurns         *int   `hcl:"jail_turns,optional"`
	JailRelocation    *bool  `hcl:"jail_relocation,optional"`
	OneBuildPerRound  *bool  `hcl:"one_build_per_round,optional"`
	SellRefundPercent int    `hcl:"sell_refund_percent,optional"`
	MaxRounds         int    `hcl:"max_rounds,optional"`

	TaxPolicy       string `hcl:"tax_policy,optional"`
	TaxDefault      int    `hcl:"tax_default,optional"`
	TaxPercents     []int  `hcl:"tax_percents,optional"`
	ChancePolicy    string `hcl:"chance_policy,optional"`
	ChanceAmounts   []int  `hcl:"chance_amounts,optional"`
	ReverseFines    []int  `hcl:"reverse_fines,optional"`
	ReverseMinSteps int    `hcl:"reverse_min_steps,optional"`
	ReverseMaxSteps int    `hcl:"reverse_max_steps,optional"`
}

// PersistenceSettings selects a snapshot store.
type PersistenceSettings struct {
	Driver      string `hcl:"driver,optional"` // memory, file or redis
	Path        string `hcl:"path,optional"`
	RedisURL    string `hcl:"redis_url,optional"`
	KeyPrefix   string `hcl:"key_prefix,optional"`
	MaxIdle     int    `hcl:"max_idle,optional"`
	IdleTimeout string `hcl:"idle_timeout,optional"`
}

// BoardConfig is a named board template.
type BoardConfig struct {
	Key            string        `hcl:"key,label"`
	Name           string        `hcl:"name,optional"`
	TaxPolicy      string        `hcl:"tax_policy,optional"`
	JailRelocation *bool         `hcl:"jail_relocation,optional"`
	Blocks         []BlockConfig `hcl:"block,block"`
}

// BlockConfig is one block of a board template.
type BlockConfig struct {
	Name          string `hcl:"name,label"`
	Position      int    `hcl:"position"`
	Category      string `hcl:"category"`
	Price         int    `hcl:"price,optional"`
	Rent          int    `hcl:"rent,optional"`
	Color         string `hcl:"color,optional"`
	Building      string `hcl:"building,optional"`
	BuildingCosts []int  `hcl:"building_costs,optional"`
}

// BotConfig is a bot seat added to games that do not list their players.
type BotConfig struct {
	Name string `hcl:"name,label"`
}

// Provider supplies board templates.
type Provider interface {
	Board(key string) ([]game.BlockDef, error)
	Keys() []string
}

// Load reads path. A missing file yields DefaultConfig.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()

	if c.Server == nil {
		c.Server = d.Server
	}
	if c.Server.Address == "" {
		c.Server.Address = d.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = d.Server.LogLevel
	}

	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	rules := game.DefaultRules()
	if c.Game.StartingCash == 0 {
		c.Game.StartingCash = rules.StartingCash
	}
	if c.Game.GoSalary == 0 {
		c.Game.GoSalary = rules.GoSalary
	}
	if c.Game.SellRefundPercent == 0 {
		c.Game.SellRefundPercent = rules.SellRefundPercent
	}
	if c.Game.TaxPolicy == "" {
		c.Game.TaxPolicy = "fixed"
	}
	if c.Game.TaxDefault == 0 {
		c.Game.TaxDefault = 150
	}
	if c.Game.ChancePolicy == "" {
		c.Game.ChancePolicy = "random"
	}

	if c.Persistence == nil {
		c.Persistence = d.Persistence
	}
	if c.Persistence.Driver == "" {
		c.Persistence.Driver = "memory"
	}
	if c.Persistence.KeyPrefix == "" {
		c.Persistence.KeyPrefix = "monopoly"
	}
	if c.Persistence.MaxIdle == 0 {
		c.Persistence.MaxIdle = 3
	}
	if c.Persistence.IdleTimeout == "" {
		c.Persistence.IdleTimeout = "240s"
	}

	if len(c.Boards) == 0 {
		c.Boards = d.Boards
	}
	if c.Game.Board == "" {
		c.Game.Board = c.Boards[0].Key
	}

	if len(c.Bots) == 0 {
		c.Bots = d.Bots
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.DelayScale < 0 {
		return fmt.Errorf("bot delay scale must not be negative")
	}

	if err := c.Game.validate(); err != nil {
		return err
	}

	switch c.Persistence.Driver {
	case "memory":
	case "file":
		if c.Persistence.Path == "" {
			return fmt.Errorf("persistence: file driver needs a path")
		}
	case "redis":
		if c.Persistence.RedisURL == "" {
			return fmt.Errorf("persistence: redis driver needs redis_url")
		}
	default:
		return fmt.Errorf("persistence: invalid driver %s", c.Persistence.Driver)
	}
	if _, err := time.ParseDuration(c.Persistence.IdleTimeout); err != nil {
		return fmt.Errorf("persistence: invalid idle_timeout: %w", err)
	}

	if len(c.Boards) == 0 {
		return fmt.Errorf("at least one board must be configured")
	}
	seen := map[string]bool{}
	for _, b := range c.Boards {
		if seen[b.Key] {
			return fmt.Errorf("board %s: defined twice", b.Key)
		}
		seen[b.Key] = true
		if err := b.validate(); err != nil {
			return err
		}
	}
	if !seen[c.Game.Board] {
		return fmt.Errorf("game: %w %s", ErrUnknownBoard, c.Game.Board)
	}
	return nil
}

func (g *GameSettings) validate() error {
	if g.StartingCash <= 0 {
		return fmt.Errorf("game: starting cash must be positive")
	}
	if g.GoSalary < 0 {
		return fmt.Errorf("game: go salary must not be negative")
	}
	if g.JailTurns != nil && *g.JailTurns < 0 {
		return fmt.Errorf("game: jail turns must not be negative")
	}
	if g.SellRefundPercent < 0 || g.SellRefundPercent > 100 {
		return fmt.Errorf("game: sell refund percent must be between 0 and 100")
	}
	if g.MaxRounds < 0 {
		return fmt.Errorf("game: max rounds must not be negative")
	}
	if err := validTaxPolicy(g.TaxPolicy); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	for _, p := range g.TaxPercents {
		if p <= 0 || p > 100 {
			return fmt.Errorf("game: tax percent %d out of range", p)
		}
	}
	switch g.ChancePolicy {
	case "random", "fixed":
	default:
		return fmt.Errorf("game: invalid chance policy %s", g.ChancePolicy)
	}
	if g.ReverseMinSteps < 0 || g.ReverseMaxSteps < 0 {
		return fmt.Errorf("game: reverse steps must not be negative")
	}
	if g.ReverseMaxSteps > 0 && g.ReverseMaxSteps < g.ReverseMinSteps {
		return fmt.Errorf("game: reverse max steps below min steps")
	}
	return nil
}

func (b BoardConfig) validate() error {
	if len(b.Blocks) == 0 {
		return fmt.Errorf("board %s: no blocks", b.Key)
	}
	if b.TaxPolicy != "" {
		if err := validTaxPolicy(b.TaxPolicy); err != nil {
			return fmt.Errorf("board %s: %w", b.Key, err)
		}
	}
	positions := map[int]bool{}
	for _, blk := range b.Blocks {
		if positions[blk.Position] {
			return fmt.Errorf("board %s: position %d used twice", b.Key, blk.Position)
		}
		positions[blk.Position] = true
		if _, err := blk.def(); err != nil {
			return fmt.Errorf("board %s: block %s: %w", b.Key, blk.Name, err)
		}
	}
	return nil
}

func validTaxPolicy(s string) error {
	switch s {
	case "fixed", "percent":
		return nil
	default:
		return fmt.Errorf("invalid tax policy %s", s)
	}
}

func (b BlockConfig) def() (game.BlockDef, error) {
	category, err := game.ParseCategory(b.Category)
	if err != nil {
		return game.BlockDef{}, err
	}
	building, err := game.ParseBuildingCategory(b.Building)
	if err != nil {
		return game.BlockDef{}, err
	}
	if len(b.BuildingCosts) > game.MaxBuildingLevel {
		return game.BlockDef{}, fmt.Errorf("at most %d building costs", game.MaxBuildingLevel)
	}
	if b.Price < 0 {
		return game.BlockDef{}, fmt.Errorf("negative price")
	}
	if b.Rent < 0 && category.Purchasable() {
		return game.BlockDef{}, fmt.Errorf("negative rent")
	}
	if building != game.NoBuilding && !category.Purchasable() {
		return game.BlockDef{}, fmt.Errorf("%s blocks cannot carry buildings", category)
	}

	def := game.BlockDef{
		Position: b.Position,
		Name:     b.Name,
		Category: category,
		Price:    b.Price,
		BaseRent: b.Rent,
		Color:    b.Color,
		Building: building,
	}
	copy(def.BuildingCosts[:], b.BuildingCosts)
	return def, nil
}

// Board returns the template for key, or the default board when key is
// empty.
func (c *Config) Board(key string) ([]game.BlockDef, error) {
	bc, err := c.board(key)
	if err != nil {
		return nil, err
	}
	defs := make([]game.BlockDef, 0, len(bc.Blocks))
	for _, blk := range bc.Blocks {
		def, err := blk.def()
		if err != nil {
			return nil, fmt.Errorf("board %s: block %s: %w", bc.Key, blk.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Keys lists configured board keys in file order.
func (c *Config) Keys() []string {
	keys := make([]string, len(c.Boards))
	for i, b := range c.Boards {
		keys[i] = b.Key
	}
	return keys
}

// BoardName returns the display name of a board, falling back to its key.
func (c *Config) BoardName(key string) string {
	bc, err := c.board(key)
	if err != nil || bc.Name == "" {
		return key
	}
	return bc.Name
}

func (c *Config) board(key string) (*BoardConfig, error) {
	if key == "" {
		key = c.Game.Board
	}
	i := slices.IndexFunc(c.Boards, func(b BoardConfig) bool { return strings.EqualFold(b.Key, key) })
	if i < 0 {
		return nil, fmt.Errorf("%w %s", ErrUnknownBoard, key)
	}
	return &c.Boards[i], nil
}

// Rules converts the game settings into engine rules for a board.
func (c *Config) Rules(boardKey string) (game.Rules, error) {
	bc, err := c.board(boardKey)
	if err != nil {
		return game.Rules{}, err
	}
	g := c.Game
	r := game.DefaultRules()

	r.StartingCash = g.StartingCash
	r.GoSalary = g.GoSalary
	r.SellRefundPercent = g.SellRefundPercent
	if g.JailTurns != nil {
		r.JailTurns = *g.JailTurns
	}
	if g.JailRelocation != nil {
		r.JailRelocation = *g.JailRelocation
	}
	if bc.JailRelocation != nil {
		r.JailRelocation = *bc.JailRelocation
	}
	if g.OneBuildPerRound != nil {
		r.OneBuildPerRound = *g.OneBuildPerRound
	}

	policy := g.TaxPolicy
	if bc.TaxPolicy != "" {
		policy = bc.TaxPolicy
	}
	if policy == "percent" {
		r.Tax = game.PercentTax{Percents: g.TaxPercents}
	} else {
		r.Tax = game.FixedTax{Default: g.TaxDefault}
	}

	if g.ChancePolicy == "fixed" {
		r.Chance = game.FixedBonus{Default: game.DefaultChanceAmounts[0]}
	} else if len(g.ChanceAmounts) > 0 {
		r.Chance = game.RandomBonus{Amounts: g.ChanceAmounts}
	}

	setback := game.DefaultSetback()
	if len(g.ReverseFines) > 0 {
		setback.Fines = g.ReverseFines
	}
	if g.ReverseMinSteps > 0 {
		setback.MinSteps = g.ReverseMinSteps
	}
	if g.ReverseMaxSteps > 0 {
		setback.MaxSteps = g.ReverseMaxSteps
	}
	r.Reverse = setback

	return r, nil
}

// BotNames returns the configured bot seat names.
func (c *Config) BotNames() []string {
	names := make([]string, len(c.Bots))
	for i, b := range c.Bots {
		names[i] = b.Name
	}
	return names
}

// Address returns host:port for the server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
