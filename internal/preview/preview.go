// Package preview mirrors the panel to browsers over a websocket. It is a
// types.Matrix, so it can sit next to the real panel behind a display.Tee.
//
// Frames are sent as binary messages: width and height as little endian
// uint16 followed by width*height RGB triples, row major.
package preview

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cnf/structhash"
	"github.com/gorilla/websocket"
)

const (
	headerSize = 4

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	sendBuffer = 4
)

// frameKey is what identical frames are recognised by.
type frameKey struct {
	Width  int
	Height int
	Pix    []byte
}

// Server is a websocket preview of the panel.
type Server struct {
	width  int
	height int
	logger *slog.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	back    []byte
	frame   []byte
	hash    []byte
	clients map[*client]struct{}
	sent    int
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer creates a preview for a width x height panel.
func NewServer(width, height int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		width:   width,
		height:  height,
		logger:  logger,
		back:    make([]byte, width*height*3),
		clients: make(map[*client]struct{}),
	}
	s.frame = s.encode()
	return s
}

// Clear blanks the preview and pushes the blank frame.
func (s *Server) Clear() error {
	s.mu.Lock()
	for i := range s.back {
		s.back[i] = 0
	}
	s.mu.Unlock()
	return s.Show()
}

// SetPixel sets a pixel's color
func (s *Server) SetPixel(x, y int, c color.Color) error {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := (y*s.width + x) * 3
	s.back[i], s.back[i+1], s.back[i+2] = rgba.R, rgba.G, rgba.B
	return nil
}

// Show sends the current frame to every client unless it is identical to
// the last frame sent.
func (s *Server) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := structhash.Md5(frameKey{Width: s.width, Height: s.height, Pix: s.back}, 1)
	if bytes.Equal(hash, s.hash) {
		return nil
	}
	s.hash = hash
	s.frame = s.encode()
	s.sent++

	for c := range s.clients {
		select {
		case c.send <- s.frame:
		default:
			// slow client, it gets the next frame
		}
	}
	return nil
}

// GetDimensions returns the dimensions of the matrix
func (s *Server) GetDimensions() (width, height int) {
	return s.width, s.height
}

// Close disconnects every client.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
	return nil
}

// Sent returns how many distinct frames were broadcast.
func (s *Server) Sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// encode must be called with mu held.
func (s *Server) encode() []byte {
	buf := make([]byte, headerSize+len(s.back))
	binary.LittleEndian.PutUint16(buf[0:], uint16(s.width))
	binary.LittleEndian.PutUint16(buf[2:], uint16(s.height))
	copy(buf[headerSize:], s.back)
	return buf
}

// Handler serves /health and the /ws preview stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// ListenAndServe runs the preview HTTP server until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()
	s.logger.Info("preview listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("preview server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown preview server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	c.send <- s.frame
	n := len(s.clients)
	s.mu.Unlock()

	s.logger.Debug("preview client connected", "remote", r.RemoteAddr, "clients", n)

	go s.writePump(c)
	go s.readPump(c)
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// readPump only services control frames; viewers have nothing to say.
func (s *Server) readPump(c *client) {
	defer func() {
		s.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Debug("preview client error", "error", err)
			}
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
