package console

import (
	"bufio"
	"errors"
	"io/fs"
	"net"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/lixenwraith/drwfalls/core"
	"github.com/lixenwraith/drwfalls/status"
)

// maxLine bounds one command line
const maxLine = 4096

// Service serves game master consoles on a UNIX socket
// With an empty path the console is disabled
type Service struct {
	path     string
	ctl      Controller
	registry *status.Registry
	logger   *zap.Logger

	listener net.Listener
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewService creates the console service
func NewService(path string, ctl Controller, reg *status.Registry, logger *zap.Logger) *Service {
	return &Service{
		path:     path,
		ctl:      ctl,
		registry: reg,
		logger:   logger.Named("console"),
		conns:    make(map[net.Conn]struct{}),
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "console"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return []string{"game"}
}

// Init binds the socket, replacing a stale one from an earlier run
func (s *Service) Init() error {
	if s.path == "" {
		return nil
	}
	if fi, err := os.Lstat(s.path); err == nil && fi.Mode()&fs.ModeSocket != 0 {
		os.Remove(s.path)
	}
	l, err := net.Listen("unix", s.path)
	if err != nil {
		return err
	}
	s.listener = l
	return nil
}

// Start accepts consoles in the background
func (s *Service) Start() error {
	if s.listener == nil {
		return nil
	}
	s.logger.Info("console listening", zap.String("path", s.path))
	s.wg.Add(1)
	core.Go(s.acceptLoop)
	return nil
}

// Stop closes the socket and every open console
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		if s.listener == nil {
			return
		}
		s.listener.Close()
		s.mu.Lock()
		for c := range s.conns {
			c.Close()
		}
		s.mu.Unlock()
		s.wg.Wait()
		os.Remove(s.path)
	})
	return nil
}

// Addr returns the socket address, nil when disabled
func (s *Service) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Service) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.logger.Warn("accept failed", zap.Error(err))
			}
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		core.Go(func() { s.serve(conn) })
	}
}

// serve answers commands line by line until the console hangs up
func (s *Service) serve(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	s.logger.Info("console attached")
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256), maxLine)
	w := bufio.NewWriter(conn)

	for scanner.Scan() {
		line := scanner.Text()
		replies := Execute(s.ctl, s.registry, line)
		if len(replies) > 0 {
			s.logger.Debug("console command", zap.String("line", line), zap.String("reply", replies[len(replies)-1]))
		}
		for _, r := range replies {
			w.WriteString(r)
			w.WriteByte('\n')
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
	s.logger.Info("console detached")
}
