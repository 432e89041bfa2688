package console

import (
	"bufio"
	"fmt"
	"net"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/drwfalls/game"
	"github.com/lixenwraith/drwfalls/status"
)

type fakeController struct {
	players   []game.PlayerInfo
	accepting bool
	limit     int
	kicked    []int
	started   int
	ended     int
	settings  game.Settings
	inLobby   bool
}

func newFake() *fakeController {
	return &fakeController{
		players: []game.PlayerInfo{
			{Index: 0, Name: "alice", Connected: true, Addr: "10.0.0.1:4000", Score: 3},
			{Index: 1, Name: "bob", Connected: false, Addr: "10.0.0.2:4000", Score: 9},
		},
		accepting: true,
		limit:     255,
		settings:  game.Settings{Viruses: 10, Tick: 200 * time.Millisecond},
		inLobby:   true,
	}
}

func (f *fakeController) Players() []game.PlayerInfo { return f.players }

func (f *fakeController) SetAccepting(on bool) error {
	if !f.inLobby {
		return game.ErrNotInLobby
	}
	f.accepting = on
	return nil
}

func (f *fakeController) Restrict(limit int) (int, error) {
	f.limit = max(limit, len(f.players))
	return f.limit, nil
}

func (f *fakeController) Kick(index int) error {
	if index >= len(f.players) {
		return game.ErrNoSuchPlayer
	}
	f.kicked = append(f.kicked, index)
	return nil
}

func (f *fakeController) Status() string      { return "round 2" }
func (f *fakeController) RequestStart() error { f.started++; return nil }
func (f *fakeController) RequestEnd() error   { f.ended++; return nil }

func (f *fakeController) Settings() game.Settings { return f.settings }

func (f *fakeController) SetViruses(n int) error {
	if n > 96 {
		return game.ErrInvalidSetting
	}
	f.settings.Viruses = n
	return nil
}

func (f *fakeController) SetTick(d time.Duration) error {
	f.settings.Tick = d
	return nil
}

func TestExecuteCommands(t *testing.T) {
	reg := status.NewRegistry()
	reg.Ints.Get("round.number").Store(2)

	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"players", []string{"0 alice true 10.0.0.1:4000 3", "1 bob false 10.0.0.2:4000 9", ReplyOK}},
		{"accept f", []string{ReplyOK}},
		{"accept maybe", []string{ErrExpectedBool.Error()}},
		{"restrict 1", []string{"limit 2", ReplyOK}},
		{"restrict 4", []string{ReplyOK}},
		{"restrict", []string{ErrExpectedNumber.Error()}},
		{"kick 1", []string{ReplyOK}},
		{"kick 7", []string{game.ErrNoSuchPlayer.Error()}},
		{"status", []string{"round 2", ReplyOK}},
		{"start", []string{ReplyOK}},
		{"end", []string{ReplyOK}},
		{"set virs 20", []string{"applies from the next round", ReplyOK}},
		{"set virs 200", []string{game.ErrInvalidSetting.Error()}},
		{"set ticks 150", []string{"applies from the next round", ReplyOK}},
		{"set speed 1", []string{ErrUnknownValue.Error() + ": speed"}},
		{"get virs", []string{"20", ReplyOK}},
		{"get ticks", []string{"150", ReplyOK}},
		{"get", []string{ErrUnknownValue.Error()}},
		{"stats", []string{"round.number 2", ReplyOK}},
		{"dance", []string{ErrUnknownCommand.Error() + ": dance"}},
	}

	ctl := newFake()
	for _, tt := range tests {
		got := Execute(ctl, reg, tt.line)
		if !slices.Equal(got, tt.want) {
			t.Errorf("%q: expected %q, got %q", tt.line, tt.want, got)
		}
	}

	if ctl.accepting {
		t.Error("Expected registration closed")
	}
	if !slices.Equal(ctl.kicked, []int{1}) {
		t.Errorf("Expected kick of player 1, got %v", ctl.kicked)
	}
	if ctl.started != 1 || ctl.ended != 1 {
		t.Errorf("Expected one start and one end, got %d and %d", ctl.started, ctl.ended)
	}
}

func TestAcceptOutsideLobby(t *testing.T) {
	ctl := newFake()
	ctl.inLobby = false
	got := Execute(ctl, status.NewRegistry(), "accept t")
	if len(got) != 1 || got[0] != game.ErrNotInLobby.Error() {
		t.Errorf("Expected not in lobby error, got %q", got)
	}
}

func TestServiceOverSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gm.sock")
	svc := NewService(path, newFake(), status.NewRegistry(), zap.NewNop())
	if err := svc.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer svc.Stop()

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	fmt.Fprintln(conn, "status")
	fmt.Fprintln(conn, "get virs")

	r := bufio.NewScanner(conn)
	var lines []string
	for len(lines) < 4 && r.Scan() {
		lines = append(lines, r.Text())
	}
	want := []string{"round 2", ReplyOK, "10", ReplyOK}
	if !slices.Equal(lines, want) {
		t.Errorf("Expected %q, got %q", want, lines)
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService("", newFake(), status.NewRegistry(), zap.NewNop())
	if err := svc.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if svc.Addr() != nil {
		t.Error("Expected no socket when disabled")
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
