package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/lox/monopolyforbots/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config  string `short:"c" env:"MONOPOLY_CONFIG" default:"monopolyforbots.hcl" help:"Path to the HCL config file"`
	Debug   bool   `help:"Enable debug logging"`
	LogJSON bool   `name:"log-json" help:"Log structured JSON instead of console output"`
}

// LoadConfig reads and validates the config file. A missing file yields the
// built-in boards.
func (g *Globals) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Watch an all-bot game in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play many bot games and report statistics"`
	Serve    ServeCmd         `cmd:"" help:"Run the game server"`
	Fuzzy    FuzzyCmd         `cmd:"" help:"Ask the fuzzy policy about a balance"`
	Boards   BoardsCmd        `cmd:"" help:"List configured boards"`
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("monopolyforbots"),
		kong.Description("Property trading board game played by fuzzy-logic bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
