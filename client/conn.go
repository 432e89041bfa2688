package client

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lixenwraith/drwfalls/gameplay"
	"github.com/lixenwraith/drwfalls/network"
)

// Conn is a player's connection to the game server
// Incoming messages update State and surface as cues
type Conn struct {
	transport *network.Transport
	state     *State
	logger    *zap.Logger

	cues     chan Cue
	lost     chan struct{}
	lostOnce sync.Once
}

// Dial connects to addr and registers under name
func Dial(addr, name string, state *State, logger *zap.Logger) (*Conn, error) {
	c := &Conn{
		state:  state,
		logger: logger.Named("conn"),
		cues:   make(chan Cue, 32),
		lost:   make(chan struct{}),
	}
	c.transport = network.NewTransport(network.ClientConfig(addr), c.logger)
	c.transport.SetHandlers(c.connected, c.disconnected, c.received)
	if err := c.transport.Start(); err != nil {
		return nil, err
	}
	if err := c.send(network.MsgHello, network.Hello{Name: name}); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Cues delivers sound cues; excess cues are dropped when nobody listens
func (c *Conn) Cues() <-chan Cue {
	return c.cues
}

// Lost is closed when the server connection ends
func (c *Conn) Lost() <-chan struct{} {
	return c.lost
}

// Move sends a capsule move
func (c *Conn) Move(m gameplay.Move) error {
	return c.send(network.MsgInput, network.Input{Move: uint8(m)})
}

// Ready asks the server to start
func (c *Conn) Ready() error {
	return c.send(network.MsgReady, network.Ready{})
}

// TogglePause flips the own board's pause state
func (c *Conn) TogglePause() error {
	on := !c.state.Paused()
	if err := c.send(network.MsgPause, network.Pause{On: on}); err != nil {
		return err
	}
	c.state.SetPaused(on)
	return nil
}

// Close disconnects from the server
func (c *Conn) Close() error {
	return c.transport.Stop()
}

func (c *Conn) send(t network.MessageType, v any) error {
	msg, err := network.Pack(t, v)
	if err != nil {
		return err
	}
	c.transport.Broadcast(msg)
	return nil
}

func (c *Conn) connected(id network.PeerID, addr string) {
	c.logger.Info("connected", zap.String("addr", addr))
}

func (c *Conn) disconnected(id network.PeerID) {
	c.logger.Info("disconnected")
	c.state.SetMessage("connection lost")
	c.lostOnce.Do(func() { close(c.lost) })
}

func (c *Conn) received(id network.PeerID, msg *network.Message) {
	cue, err := c.state.Apply(msg)
	if err != nil {
		c.logger.Warn("bad message", zap.Stringer("type", msg.Type), zap.Error(err))
		return
	}
	if cue == CueNone {
		return
	}
	select {
	case c.cues <- cue:
	default:
	}
}
