package ingestion

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/idhash"
)

// WSConfig configures WebSocket source behavior.
type WSConfig struct {
	// ReconnectDelay is initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// HandshakeTimeout bounds the dial.
	HandshakeTimeout time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		ReadTimeout:       60 * time.Second,
	}
}

// spinMessage is the wire format of a live spin feed.
type spinMessage struct {
	Table       string `json:"table"`
	Sequence    int64  `json:"sequence"`
	Number      int    `json:"number"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// WSSource provides real-time spin outcomes via WebSocket subscription.
// It reconnects with exponential backoff until the context is cancelled.
type WSSource struct {
	endpoint string
	table    string
	config   WSConfig
	logger   zerolog.Logger
}

// Compile-time interface check.
var _ OutcomeSource = (*WSSource)(nil)

// NewWSSource creates a new WebSocket-based outcome source. An empty table
// accepts spins from every table on the feed.
func NewWSSource(endpoint, table string, config *WSConfig) *WSSource {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	return &WSSource{
		endpoint: endpoint,
		table:    table,
		config:   cfg,
		logger:   log.With().Str("component", "ws_source").Logger(),
	}
}

// Subscribe returns a channel of outcomes from the live feed.
// The channel is closed when the context is cancelled.
func (s *WSSource) Subscribe(ctx context.Context) (<-chan *domain.Outcome, error) {
	out := make(chan *domain.Outcome, 100)

	go func() {
		defer close(out)

		delay := s.config.ReconnectDelay
		for {
			if ctx.Err() != nil {
				return
			}

			conn, err := s.dial(ctx)
			if err != nil {
				s.logger.Warn().Err(err).Dur("retry_in", delay).Msg("dial failed")
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return
				}
				delay = min(delay*2, s.config.MaxReconnectDelay)
				continue
			}

			s.logger.Info().Str("endpoint", s.endpoint).Msg("connected")
			delay = s.config.ReconnectDelay

			s.readLoop(ctx, conn, out)
			conn.Close()
		}
	}()

	return out, nil
}

func (s *WSSource) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: s.config.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	return conn, err
}

// readLoop reads spin messages until the connection breaks or ctx ends.
func (s *WSSource) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- *domain.Outcome) {
	// Unblock ReadJSON when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		if s.config.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}

		var msg spinMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				s.logger.Warn().Err(err).Msg("read failed, reconnecting")
			}
			return
		}

		o, ok := s.toOutcome(msg)
		if !ok {
			continue
		}

		select {
		case out <- o:
		case <-ctx.Done():
			return
		}
	}
}

// toOutcome validates a wire message and derives its spin id.
func (s *WSSource) toOutcome(msg spinMessage) (*domain.Outcome, bool) {
	if s.table != "" && msg.Table != s.table {
		return nil, false
	}
	if msg.Table == "" || !domain.ValidNumber(msg.Number) {
		s.logger.Debug().
			Str("table", msg.Table).
			Int("number", msg.Number).
			Msg("dropping malformed spin")
		return nil, false
	}
	return &domain.Outcome{
		SpinID:      idhash.ComputeSpinID(msg.Table, msg.Sequence, msg.Number, msg.TimestampMs),
		Table:       msg.Table,
		Number:      msg.Number,
		TimestampMs: msg.TimestampMs,
	}, true
}
