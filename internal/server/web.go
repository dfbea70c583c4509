package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"

	"github.com/omaryagoub77/Habit-Tracker-sub000/internal/engine"
)

// WebServer exposes the daemon over HTTP: the JSON-RPC 2.0 bridge at /rpc
// for request/response calls, and a WebSocket endpoint at /ws that serves
// the same methods plus server push for timer and alarm events. Companion
// surfaces (a widget process, a notification helper) connect here.
type WebServer struct {
	port      int
	l         *log.Logger
	rpc       *RPCServer
	notifier  *RPCNotifier
	listenAll bool
	secret    string
	server    *http.Server
	mu        sync.Mutex
}

func NewWebServer(l *log.Logger, e *engine.Engine, pool *Pool, cfg *RPCConfig, port int) *WebServer {
	if cfg == nil {
		cfg = &RPCConfig{}
	}
	return &WebServer{
		port:      port,
		l:         l,
		rpc:       NewRPCServer(cfg, e, pool),
		notifier:  NewRPCNotifier(l),
		listenAll: cfg.ListenAll,
		secret:    cfg.Secret,
	}
}

// handleWS upgrades the connection and runs a dedicated jrpc2 server over
// it. The server is registered with the notifier for push until the peer
// disconnects.
func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		s.l.Println("Error accepting websocket:", err)
		return
	}
	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(s.rpc.methods, nil)
	srv.Start(ch)
	s.notifier.Register(srv)
	defer s.notifier.Unregister(srv)
	if err := srv.Wait(); err != nil {
		s.l.Println("Websocket session ended:", err)
	}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/rpc", requireToken(s.secret, &s.rpc.bridge))
	mux.Handle("/ws", requireToken(s.secret, http.HandlerFunc(s.handleWS)))
	return mux
}

func (s *WebServer) addr() string {
	if s.listenAll {
		return fmt.Sprintf(":%d", s.port)
	}
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

func (s *WebServer) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr(),
		Handler: s.handler(),
	}
	s.mu.Unlock()

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the web server and the RPC bridge.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rpc.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
