package ws

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"chat-hub/runtime"
	"chat-hub/services"
	"chat-hub/storage"

	"github.com/gorilla/websocket"
)

const shutdownGrace = 5 * time.Second

// Server accepts client connections on /ws and hands each one to a
// session. It implements contract.Worker so the supervisor owns its
// lifecycle.
type Server struct {
	log        *slog.Logger
	addr       string
	bufferSize int
	registry   *runtime.Registry
	auth       services.IAuthService
	chat       services.IChatService
	groups     services.IGroupService
	store      *storage.FileStore
	upgrader   websocket.Upgrader

	// set by Listen for tests to discover the bound port
	listener net.Listener
}

func NewServer(
	log *slog.Logger,
	addr string,
	bufferSize int,
	registry *runtime.Registry,
	auth services.IAuthService,
	chat services.IChatService,
	groups services.IGroupService,
	store *storage.FileStore,
) *Server {
	return &Server{
		log:        log,
		addr:       addr,
		bufferSize: bufferSize,
		registry:   registry,
		auth:       auth,
		chat:       chat,
		groups:     groups,
		store:      store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Clients are desktop applications, not browsers; there is
			// no origin to enforce.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Listen binds the TCP listener. Run calls it implicitly; tests call it
// first to learn the chosen port.
func (s *Server) Listen() (net.Addr, error) {
	if s.listener == nil {
		l, err := net.Listen("tcp", s.addr)
		if err != nil {
			return nil, err
		}
		s.listener = l
	}
	return s.listener.Addr(), nil
}

func (s *Server) Run(ctx context.Context) error {
	if _, err := s.Listen(); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	httpServer := &http.Server{Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("websocket server listening", "addr", s.listener.Addr().String())
		if err := httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	s.log.Info("client connected", "remote", r.RemoteAddr)
	newSession(s.log, conn, s).run()
	s.log.Info("client disconnected", "remote", r.RemoteAddr)
}
