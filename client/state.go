package client

import (
	"fmt"
	"slices"
	"sync"

	"github.com/lixenwraith/drwfalls/field"
	"github.com/lixenwraith/drwfalls/network"
)

// Cue is a sound cue triggered by a server message
type Cue uint8

const (
	CueNone Cue = iota
	CueClear
	CueDebris
	CueReject
	CueCountdown
	CueVictory
	CueDefeat
)

// Cell is one displayed tile of the own board
type Cell struct {
	Filled bool
	Colour field.Colour
	Virus  bool
}

// Seat is one participant of the running round
type Seat struct {
	Name    string
	Viruses int
	Outcome uint8 // 0 while playing
}

// View is a consistent copy of the client state for drawing
type View struct {
	Name      string
	Phase     string
	Round     int
	Countdown int
	Seat      int // Own seat, -1 when not playing
	Viruses   int // Viruses each board started with
	Seats     []Seat
	Board     [field.MovingHeight][field.Width]Cell
	Scores    []network.ScoreEntry
	Message   string
	Paused    bool
}

// OwnViruses returns the live virus count of the own board
func (v View) OwnViruses() int {
	if v.Seat < 0 || v.Seat >= len(v.Seats) {
		return 0
	}
	return v.Seats[v.Seat].Viruses
}

// State accumulates server messages; safe for concurrent use
type State struct {
	mu   sync.Mutex
	view View
}

// NewState creates an empty state in the lobby
func NewState() *State {
	return &State{view: View{Phase: network.PhaseLobby, Seat: -1}}
}

// View returns a copy of the current state
func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	v.Seats = slices.Clone(s.view.Seats)
	v.Scores = slices.Clone(s.view.Scores)
	return v
}

// SetPaused records the local pause toggle
func (s *State) SetPaused(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Paused = on
}

// Paused reports the local pause toggle
func (s *State) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Paused
}

// SetMessage replaces the status line
func (s *State) SetMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Message = text
}

// Apply folds one server message into the state
func (s *State) Apply(msg *network.Message) (Cue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case network.MsgWelcome:
		var w network.Welcome
		if err := network.Unpack(msg, &w); err != nil {
			return CueNone, err
		}
		s.view.Name = w.Name
		s.view.Message = "registered as " + w.Name
	case network.MsgPhase:
		var p network.Phase
		if err := network.Unpack(msg, &p); err != nil {
			return CueNone, err
		}
		return s.phase(p), nil
	case network.MsgBoard:
		var b network.Board
		if err := network.Unpack(msg, &b); err != nil {
			return CueNone, err
		}
		return s.board(b), nil
	case network.MsgStats:
		var st network.Stats
		if err := network.Unpack(msg, &st); err != nil {
			return CueNone, err
		}
		if st.Seat >= 0 && st.Seat < len(s.view.Seats) {
			s.view.Seats[st.Seat].Viruses = st.Viruses
		}
	case network.MsgOutcome:
		var o network.Outcome
		if err := network.Unpack(msg, &o); err != nil {
			return CueNone, err
		}
		return s.outcome(o), nil
	case network.MsgDebris:
		var d network.Debris
		if err := network.Unpack(msg, &d); err != nil {
			return CueNone, err
		}
		if d.Seat == s.view.Seat {
			s.view.Message = fmt.Sprintf("%d debris from %s", d.Count, s.seatName(d.From))
			return CueDebris, nil
		}
	case network.MsgScores:
		var sc network.Scores
		if err := network.Unpack(msg, &sc); err != nil {
			return CueNone, err
		}
		s.view.Scores = sc.Entries
	case network.MsgError:
		var e network.Error
		if err := network.Unpack(msg, &e); err != nil {
			return CueNone, err
		}
		s.view.Message = e.Text
		return CueReject, nil
	}
	return CueNone, nil
}

func (s *State) phase(p network.Phase) Cue {
	prev := s.view
	s.view.Phase = p.Phase
	s.view.Round = p.Round
	s.view.Countdown = p.Countdown

	switch p.Phase {
	case network.PhaseRound:
		s.view.Seat = p.Seat
		s.view.Viruses = p.Viruses
		s.view.Board = [field.MovingHeight][field.Width]Cell{}
		s.view.Paused = false
		s.view.Seats = make([]Seat, len(p.Seats))
		for _, info := range p.Seats {
			if info.Seat >= 0 && info.Seat < len(s.view.Seats) {
				s.view.Seats[info.Seat] = Seat{Name: info.Name, Viruses: p.Viruses}
			}
		}
		s.view.Message = fmt.Sprintf("round %d", p.Round)
	case network.PhaseWaiting:
		s.view.Seat = -1
		if prev.Phase == network.PhaseWaiting && p.Countdown < prev.Countdown {
			return CueCountdown
		}
	default:
		s.view.Seat = -1
	}
	return CueNone
}

func (s *State) board(b network.Board) Cue {
	cleared := 0
	for _, c := range b.Cells {
		row, err := field.NewMovingRow(int(c.Row))
		if err != nil {
			continue
		}
		col, err := field.NewColumn(int(c.Col))
		if err != nil {
			continue
		}
		if c.Cleared {
			s.view.Board[row][col] = Cell{}
			cleared++
			continue
		}
		s.view.Board[row][col] = Cell{Filled: true, Colour: field.Colour(c.Colour), Virus: c.Virus}
	}
	// Every elimination clears at least four tiles; capsule moves clear at most two
	if cleared >= 4 {
		return CueClear
	}
	return CueNone
}

func (s *State) outcome(o network.Outcome) Cue {
	if o.Seat >= 0 && o.Seat < len(s.view.Seats) {
		s.view.Seats[o.Seat].Outcome = o.Outcome
	}
	if o.Seat != s.view.Seat {
		return CueNone
	}
	if o.Outcome == network.OutcomeVictory {
		s.view.Message = "all viruses cleared"
		return CueVictory
	}
	s.view.Message = "defeated"
	return CueDefeat
}

func (s *State) seatName(seat int) string {
	if seat >= 0 && seat < len(s.view.Seats) {
		return s.view.Seats[seat].Name
	}
	return "somebody"
}
