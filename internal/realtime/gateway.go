package realtime

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/bookspace/handler"
	"github.com/dmitrymomot/bookspace/pkg/logger"
)

const (
	defaultSendBuffer   = 16
	defaultWriteWait    = 10 * time.Second
	defaultPongWait     = 60 * time.Second
	defaultReadLimit    = 4096
	defaultPingInterval = defaultPongWait * 9 / 10
)

// Gateway upgrades authenticated requests to WebSocket connections and
// keeps them in the registry while they are open.
type Gateway struct {
	auth         *Authenticator
	registry     Registry
	upgrader     websocket.Upgrader
	onError      handler.ErrorHandler
	logger       *slog.Logger
	sendBuffer   int
	writeWait    time.Duration
	pongWait     time.Duration
	pingInterval time.Duration
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

func WithGatewayLogger(l *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithErrorHandler renders handshake rejections. The default writes a
// plain-text 401.
func WithErrorHandler(h handler.ErrorHandler) GatewayOption {
	return func(g *Gateway) {
		if h != nil {
			g.onError = h
		}
	}
}

// WithCheckOrigin replaces the upgrader's same-origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) GatewayOption {
	return func(g *Gateway) { g.upgrader.CheckOrigin = fn }
}

// WithSendBuffer sets how many envelopes may queue per connection before
// Send reports ErrSendBufferFull.
func WithSendBuffer(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.sendBuffer = n
		}
	}
}

// WithKeepalive sets the pong deadline; pings go out at 90% of it.
func WithKeepalive(pongWait time.Duration) GatewayOption {
	return func(g *Gateway) {
		if pongWait > 0 {
			g.pongWait = pongWait
			g.pingInterval = pongWait * 9 / 10
		}
	}
}

func NewGateway(auth *Authenticator, registry Registry, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		auth:     auth,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		onError: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		},
		logger:       slog.Default(),
		sendBuffer:   defaultSendBuffer,
		writeWait:    defaultWriteWait,
		pongWait:     defaultPongWait,
		pingInterval: defaultPingInterval,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(logger.Component("realtime.gateway"))
	return g
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u, err := g.auth.Authenticate(r)
	if err != nil {
		g.onError(w, r, errors.Join(handler.ErrUnauthorized, err))
		return
	}

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		g.logger.LogAttrs(r.Context(), slog.LevelWarn, "websocket upgrade failed",
			logger.UserID(u.ID.Hex()),
			logger.Error(err),
		)
		return
	}

	userID := u.ID.Hex()
	c := newWSConn(ws, g.sendBuffer)
	g.registry.Register(userID, c)
	g.logger.LogAttrs(r.Context(), slog.LevelInfo, "client connected",
		logger.UserID(userID),
		logger.ConnectionID(c.ID()),
	)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := c.writer(g.writeWait, g.pingInterval); err != nil {
			g.logger.LogAttrs(r.Context(), slog.LevelDebug, "websocket write failed",
				logger.ConnectionID(c.ID()),
				logger.Error(err),
			)
		}
	}()

	err = c.reader(g.pongWait, defaultReadLimit)

	g.registry.Unregister(userID, c)
	_ = c.Close()
	<-writerDone

	attrs := []slog.Attr{logger.UserID(userID), logger.ConnectionID(c.ID())}
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		attrs = append(attrs, logger.Error(err))
	}
	g.logger.LogAttrs(r.Context(), slog.LevelInfo, "client disconnected", attrs...)
}
