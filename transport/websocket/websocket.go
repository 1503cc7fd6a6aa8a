// Package websocket broadcasts published frames to WebSocket clients as JSON.
package websocket

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/noriah/recidia/internal/log"
	"github.com/noriah/recidia/processor"
)

const (
	// Path is where clients connect.
	Path = "/ws"

	writeWait  = time.Second
	clientSend = 4
)

// Source gives the newest frame to send.
type Source interface {
	Latest() *processor.Frame
}

// Message is one frame on the wire.
type Message struct {
	Buckets []float64 `json:"buckets"`
	Time    int64     `json:"time"` // unix milliseconds of the sample read
}

type client struct {
	conn *websocket.Conn
	send chan Message
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// writeLoop sends queued messages until the queue is closed or a write fails.
func (c *client) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Debugf("websocket: write to %s: %v", c.conn.RemoteAddr(), err)
			c.conn.Close()
			return
		}
	}
}

// Server sends the newest frame to every client at a fixed interval. A
// client that cannot keep up misses frames.
type Server struct {
	source   Source
	interval time.Duration
	upgrader websocket.Upgrader

	clientsMu sync.Mutex
	clients   map[*client]struct{}

	last *processor.Frame
}

// New builds a server sending from src every interval.
func New(src Source, interval time.Duration) *Server {
	if interval <= 0 {
		interval = time.Second / 60
	}

	return &Server{
		source:   src,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// Handler serves the WebSocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.handleWebSocket)
	return mux
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("websocket: upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Message, clientSend)}

	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	count := len(s.clients)
	s.clientsMu.Unlock()

	log.Infof("websocket: client %s connected, total: %d", conn.RemoteAddr(), count)

	go c.writeLoop()

	// clients only ever send close frames; a read error means they are gone
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.remove(c)
				return
			}
		}
	}()
}

func (s *Server) remove(c *client) {
	s.clientsMu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	count := len(s.clients)
	s.clientsMu.Unlock()

	if ok {
		c.close()
		log.Infof("websocket: client %s disconnected, total: %d", c.conn.RemoteAddr(), count)
	}
}

// broadcast queues msg for every client, dropping it for clients whose
// queue is full.
func (s *Server) broadcast(msg Message) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// publish sends the newest frame if it has not been sent yet.
func (s *Server) publish() {
	frame := s.source.Latest()
	if frame == nil || frame == s.last {
		return
	}
	s.last = frame

	s.broadcast(Message{
		Buckets: frame.Values,
		Time:    frame.Time.UnixMilli(),
	})
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	clients := s.clients
	s.clients = make(map[*client]struct{})
	s.clientsMu.Unlock()

	for c := range clients {
		c.close()
	}
}

// Serve accepts clients on l and broadcasts until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(l)
	}()

	log.Infof("websocket: serving on ws://%s%s", l.Addr(), Path)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeClients()
			srv.Close()
			<-errc
			return nil

		case err := <-errc:
			s.closeClients()
			return errors.Wrap(err, "websocket server failed")

		case <-ticker.C:
			s.publish()
		}
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	return s.Serve(ctx, l)
}
