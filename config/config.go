package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/drwfalls/gameplay"
)

var ErrInvalid = errors.New("invalid configuration")

// ParseEnv loads environment variables into target
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Server holds game server settings
// Environment provides defaults, command-line flags override them
type Server struct {
	Listen        string        `env:"DRWFALLS_LISTEN" envDefault:"0.0.0.0:2020"`
	MaxPlayers    int           `env:"DRWFALLS_MAX_PLAYERS" envDefault:"255"`
	Viruses       int           `env:"DRWFALLS_VIRUSES" envDefault:"10"`
	Tick          time.Duration `env:"DRWFALLS_TICK" envDefault:"200ms"`
	Countdown     time.Duration `env:"DRWFALLS_COUNTDOWN" envDefault:"10s"`
	Seed          uint64        `env:"DRWFALLS_SEED"`
	ConsoleSocket string        `env:"DRWFALLS_CONSOLE_SOCKET"`
	ScoresDB      string        `env:"DRWFALLS_SCORES_DB"`
	InputRate     float64       `env:"DRWFALLS_INPUT_RATE" envDefault:"30"`
	InputBurst    int           `env:"DRWFALLS_INPUT_BURST" envDefault:"10"`
	LogLevel      string        `env:"DRWFALLS_LOG_LEVEL" envDefault:"info"`
	LogFile       string        `env:"DRWFALLS_LOG_FILE"`
	OTelEndpoint  string        `env:"DRWFALLS_OTEL_ENDPOINT"`
}

// bind registers flags that write into c, using current values as defaults
func (c *Server) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Listen, "listen", c.Listen, "address to accept players on")
	fs.IntVar(&c.MaxPlayers, "max-players", c.MaxPlayers, "maximum registered players")
	fs.IntVar(&c.Viruses, "viruses", c.Viruses, "viruses per board")
	fs.DurationVar(&c.Tick, "tick", c.Tick, "gravity tick duration")
	fs.DurationVar(&c.Countdown, "countdown", c.Countdown, "waiting room countdown")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "fixed round seed, 0 for random")
	fs.StringVar(&c.ConsoleSocket, "console", c.ConsoleSocket, "game master console socket path")
	fs.StringVar(&c.ScoresDB, "scores", c.ScoresDB, "sqlite score history path")
	fs.Float64Var(&c.InputRate, "input-rate", c.InputRate, "moves per second accepted from one player")
	fs.IntVar(&c.InputBurst, "input-burst", c.InputBurst, "burst of moves accepted from one player")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "log file path, stderr when empty")
	fs.StringVar(&c.OTelEndpoint, "otel-endpoint", c.OTelEndpoint, "OTLP/HTTP trace endpoint")
}

// Validate checks value ranges
func (c *Server) Validate() error {
	switch {
	case c.MaxPlayers < 1 || c.MaxPlayers > 255:
		return fmt.Errorf("max players %d outside 1-255: %w", c.MaxPlayers, ErrInvalid)
	case c.Viruses < 0 || c.Viruses > gameplay.MaxViruses:
		return fmt.Errorf("viruses %d outside 0-%d: %w", c.Viruses, gameplay.MaxViruses, ErrInvalid)
	case c.Tick <= 0:
		return fmt.Errorf("tick %s must be positive: %w", c.Tick, ErrInvalid)
	case c.Countdown < 0:
		return fmt.Errorf("countdown %s must not be negative: %w", c.Countdown, ErrInvalid)
	case c.InputRate <= 0 || c.InputBurst < 1:
		return fmt.Errorf("input rate %.1f burst %d: %w", c.InputRate, c.InputBurst, ErrInvalid)
	}
	return nil
}

// LoadServer reads the environment, then parses args over it
func LoadServer(fs *flag.FlagSet, args []string) (*Server, error) {
	c := &Server{}
	if err := ParseEnv(c); err != nil {
		return nil, err
	}
	c.bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Client holds player client settings
type Client struct {
	Server   string `env:"DRWFALLS_SERVER" envDefault:"127.0.0.1:2020"`
	Name     string `env:"DRWFALLS_NAME"`
	Mute     bool   `env:"DRWFALLS_MUTE"`
	LogLevel string `env:"DRWFALLS_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"DRWFALLS_CLIENT_LOG" envDefault:"drwfalls-client.log"`
}

func (c *Client) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Server, "server", c.Server, "server address")
	fs.StringVar(&c.Name, "name", c.Name, "player name")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "disable sound")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "log file path")
}

// LoadClient reads the environment, then parses args over it
// A single positional argument overrides the server address
func LoadClient(fs *flag.FlagSet, args []string) (*Client, error) {
	c := &Client{}
	if err := ParseEnv(c); err != nil {
		return nil, err
	}
	c.bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		c.Server = fs.Arg(0)
	}
	if c.LogFile == "" {
		return nil, fmt.Errorf("client needs a log file, the terminal is taken: %w", ErrInvalid)
	}
	return c, nil
}
