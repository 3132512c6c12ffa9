package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"menu-admin/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPort            = 3001
	DefaultShutdownTimeout = 5 * time.Second
)

// Server serves the mock API until its context is canceled.
type Server struct {
	addr            string
	shutdownTimeout time.Duration
	log             *zap.Logger
	mem             *Memory
	handler         http.Handler

	mu       sync.RWMutex
	listener net.Listener
}

type Option func(*Server)

func WithAddr(addr string) Option { return func(s *Server) { s.addr = addr } }

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMemory(m *Memory) Option {
	return func(s *Server) {
		if m != nil {
			s.mem = m
		}
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		addr:            fmt.Sprintf("127.0.0.1:%d", DefaultPort),
		shutdownTimeout: DefaultShutdownTimeout,
		log:             zap.NewNop(),
		mem:             NewMemory(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = NewRouter(s.mem, s.log, prometheus.NewRegistry())
	return s
}

func (s *Server) Memory() *Memory { return s.mem }

func (s *Server) Handler() http.Handler { return s.handler }

// Addr returns the bound address once Serve is listening, or "".
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve binds, serves and shuts down gracefully when ctx is canceled.
// ready, when non-nil, is closed once the socket is bound.
func (s *Server) Serve(ctx context.Context, ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("mock api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("mock api listening", zap.String("addr", ln.Addr().String()))
	if ready != nil {
		close(ready)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mock api serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("mock api shutdown", zap.Error(err))
		}
		s.log.Info("mock api stopped")
		return nil
	})
	return g.Wait()
}

// Seed loads a small demo menu so the TUI has something to show.
func Seed(m *Memory) {
	menu := m.CreateMenu(model.NewMenu{Name: "system management"})
	sys, _ := m.AddItem(model.NewMenuItem{Name: "System Management", MenuID: menu.ID, Depth: 0})
	sysID := sys.ID
	code, _ := m.AddItem(model.NewMenuItem{Name: "Systems", MenuID: menu.ID, ParentID: &sysID, Depth: 1})
	codeID := code.ID
	_, _ = m.AddItem(model.NewMenuItem{Name: "System Code", MenuID: menu.ID, ParentID: &codeID, Depth: 2})
	_, _ = m.AddItem(model.NewMenuItem{Name: "Code Registration", MenuID: menu.ID, ParentID: &codeID, Depth: 2, Order: 1})
	_, _ = m.AddItem(model.NewMenuItem{Name: "Properties", MenuID: menu.ID, ParentID: &sysID, Depth: 1, Order: 1})
	users, _ := m.AddItem(model.NewMenuItem{Name: "Users & Groups", MenuID: menu.ID, Depth: 0, Order: 1})
	usersID := users.ID
	_, _ = m.AddItem(model.NewMenuItem{Name: "Users", MenuID: menu.ID, ParentID: &usersID, Depth: 1})
	_, _ = m.AddItem(model.NewMenuItem{Name: "Groups", MenuID: menu.ID, ParentID: &usersID, Depth: 1, Order: 1})
	m.CreateMenu(model.NewMenu{Name: "competition"})
}
