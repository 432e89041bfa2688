package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/drwfalls/game"
	"github.com/lixenwraith/drwfalls/status"
)

// Reply terminating a successful command
const ReplyOK = "OK"

var (
	ErrUnknownCommand = errors.New("no such command")
	ErrUnknownValue   = errors.New("no such value")
	ErrExpectedNumber = errors.New("expected number")
	ErrExpectedBool   = errors.New("expected 'true' or 'false'")
)

// Controller is the game surface a game master drives
type Controller interface {
	Players() []game.PlayerInfo
	SetAccepting(on bool) error
	Restrict(limit int) (int, error)
	Kick(index int) error
	Status() string
	RequestStart() error
	RequestEnd() error
	Settings() game.Settings
	SetViruses(n int) error
	SetTick(d time.Duration) error
}

// Execute parses and runs one command line
// Returns the output lines; the last line is ReplyOK or the error text
func Execute(ctl Controller, reg *status.Registry, line string) []string {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	out, err := dispatch(ctl, reg, parts[0], parts[1:])
	if err != nil {
		return append(out, err.Error())
	}
	return append(out, ReplyOK)
}

func dispatch(ctl Controller, reg *status.Registry, cmd string, args []string) ([]string, error) {
	switch cmd {
	case "players":
		return handlePlayers(ctl), nil
	case "accept":
		on, err := parseBool(args)
		if err != nil {
			return nil, err
		}
		return nil, ctl.SetAccepting(on)
	case "restrict":
		n, err := parseNumber(args)
		if err != nil {
			return nil, err
		}
		limit, err := ctl.Restrict(n)
		if err != nil {
			return nil, err
		}
		if limit != n {
			return []string{fmt.Sprintf("limit %d", limit)}, nil
		}
		return nil, nil
	case "kick":
		n, err := parseNumber(args)
		if err != nil {
			return nil, err
		}
		return nil, ctl.Kick(n)
	case "status":
		return []string{ctl.Status()}, nil
	case "start":
		return nil, ctl.RequestStart()
	case "end":
		return nil, ctl.RequestEnd()
	case "set":
		return handleSet(ctl, args)
	case "get":
		return handleGet(ctl, args)
	case "stats":
		return reg.Lines(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
}

// handlePlayers lists "index name connected addr score" per player
func handlePlayers(ctl Controller) []string {
	players := ctl.Players()
	lines := make([]string, len(players))
	for i, p := range players {
		lines[i] = fmt.Sprintf("%d %s %t %s %d", p.Index, p.Name, p.Connected, p.Addr, p.Score)
	}
	return lines
}

func handleSet(ctl Controller, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, ErrUnknownValue
	}
	if args[0] != "virs" && args[0] != "ticks" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownValue, args[0])
	}
	n, err := parseNumber(args[1:])
	if err != nil {
		return nil, err
	}
	if args[0] == "virs" {
		err = ctl.SetViruses(n)
	} else {
		err = ctl.SetTick(time.Duration(n) * time.Millisecond)
	}
	if err != nil {
		return nil, err
	}
	return []string{"applies from the next round"}, nil
}

func handleGet(ctl Controller, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, ErrUnknownValue
	}
	s := ctl.Settings()
	switch args[0] {
	case "virs":
		return []string{strconv.Itoa(s.Viruses)}, nil
	case "ticks":
		return []string{strconv.FormatInt(s.Tick.Milliseconds(), 10)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownValue, args[0])
}

func parseNumber(args []string) (int, error) {
	if len(args) != 1 {
		return 0, ErrExpectedNumber
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, ErrExpectedNumber
	}
	return n, nil
}

func parseBool(args []string) (bool, error) {
	if len(args) != 1 {
		return false, ErrExpectedBool
	}
	switch args[0] {
	case "true", "t":
		return true, nil
	case "false", "f":
		return false, nil
	}
	return false, ErrExpectedBool
}
