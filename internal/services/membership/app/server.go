// Package server wires the node runtime: role resolution, the listening
// socket, the member registry, and per-connection protocol handling.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/webmentordev/swarm/internal/services/membership/protocol"
	"github.com/webmentordev/swarm/internal/services/membership/role"
	membershipsqlite "github.com/webmentordev/swarm/internal/services/membership/storage/sqlite"
)

// Config carries the node server's startup inputs, loaded once; the server
// never re-reads role or environment state mid-run.
type Config struct {
	// MasterKey is the shared secret every JOIN must present.
	MasterKey string
	// ConfigPath locates the local role file.
	ConfigPath string
	// DBPath locates the member registry database.
	DBPath string
	// Port is the preferred listen port for the master role; members prefer
	// their configured slave_port instead.
	Port int
}

// Server owns the listening socket, the registry, and the shared secret.
type Server struct {
	role     role.Role
	listener net.Listener
	store    *membershipsqlite.Store
	handler  *protocol.Handler
}

// New resolves the startup role, binds a listening socket, and opens the
// member registry. The preferred port comes from the role (master: cfg.Port,
// member: slave_port); when it is taken the server falls back to an
// ephemeral port rather than failing startup.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.MasterKey) == "" {
		return nil, errors.New("master key is required")
	}

	resolved, err := role.Resolve(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	port := cfg.Port
	if resolved.Kind == role.Member {
		port = resolved.SlavePort
	}

	listener, err := listenWithFallback(port)
	if err != nil {
		return nil, err
	}

	store, err := membershipsqlite.Open(cfg.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("open member registry: %w", err)
	}

	switch resolved.Kind {
	case role.Master:
		log.Printf("👑 master listening at http://%s", listener.Addr())
	default:
		log.Printf("🧑‍🌾 listening as member at http://%s", listener.Addr())
	}

	return &Server{
		role:     resolved,
		listener: listener,
		store:    store,
		handler:  protocol.NewHandler(cfg.MasterKey, store),
	}, nil
}

// listenWithFallback binds the preferred local port, falling back to an
// ephemeral one so a taken port never fails startup on its own.
func listenWithFallback(port int) (net.Listener, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err == nil {
		return listener, nil
	}
	listener, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen on fallback port: %w", err)
	}
	return listener, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Role returns the resolved startup role.
func (s *Server) Role() role.Role {
	if s == nil {
		return role.Role{}
	}
	return s.role
}

// Run creates and serves a node server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve accepts connections until context cancellation, dispatching each to
// the protocol handler on its own goroutine so one slow peer cannot block
// others. Accept errors are logged and the loop continues; per-connection
// failures never reach the accept loop.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	go func() {
		<-ctx.Done()
		_ = s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("accept connection: %v", err)
			continue
		}

		go func(conn net.Conn) {
			defer conn.Close()
			remoteAddr := conn.RemoteAddr().String()
			if err := s.handler.Handle(ctx, conn, remoteAddr); err != nil {
				log.Printf("handle connection from %s: %v", remoteAddr, err)
			}
		}(conn)
	}
}

// Close releases the listener and the member registry.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close member registry: %v", err)
		}
	}
}
