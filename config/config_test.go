package config

import (
	"errors"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/drwfalls/gameplay"
)

func TestLoadServerDefaults(t *testing.T) {
	c, err := LoadServer(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadServer failed: %v", err)
	}
	if c.Listen != "0.0.0.0:2020" || c.MaxPlayers != 255 || c.Viruses != 10 || c.Tick != 200*time.Millisecond {
		t.Errorf("Unexpected defaults %+v", c)
	}
}

func TestLoadServerEnvThenFlags(t *testing.T) {
	t.Setenv("DRWFALLS_VIRUSES", "20")
	t.Setenv("DRWFALLS_TICK", "150ms")

	c, err := LoadServer(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-tick", "100ms"})
	if err != nil {
		t.Fatalf("LoadServer failed: %v", err)
	}
	if c.Viruses != 20 {
		t.Errorf("Expected env to set viruses 20, got %d", c.Viruses)
	}
	if c.Tick != 100*time.Millisecond {
		t.Errorf("Expected flag to override tick, got %s", c.Tick)
	}
}

func TestLoadServerBadEnv(t *testing.T) {
	t.Setenv("DRWFALLS_MAX_PLAYERS", "many")
	_, err := LoadServer(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("Expected env parse error, got %v", err)
	}
}

func TestServerValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Server)
	}{
		{"players", func(c *Server) { c.MaxPlayers = 256 }},
		{"viruses", func(c *Server) { c.Viruses = gameplay.MaxViruses + 1 }},
		{"tick", func(c *Server) { c.Tick = 0 }},
		{"rate", func(c *Server) { c.InputRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Server{MaxPlayers: 4, Viruses: 10, Tick: time.Second, InputRate: 1, InputBurst: 1}
			tt.mod(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadClientPositionalServer(t *testing.T) {
	c, err := LoadClient(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-name", "alice", "example.org:2020"})
	if err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if c.Server != "example.org:2020" || c.Name != "alice" {
		t.Errorf("Unexpected client config %+v", c)
	}
}
