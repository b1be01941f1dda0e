package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// Performance entries older than this are treated as absent: a dead
// stream must not keep steering the universe builder.
const perfMaxAge = 5 * time.Minute

type perfEntry struct {
	pct float64
	at  time.Time
}

// Stream maintains the live per-symbol daily performance table from the
// quote feed's WebSocket channel. It is the PerformanceSource behind the
// universe builder's best-live-performer preference.
type Stream struct {
	url            string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	mu      sync.RWMutex
	changes map[string]perfEntry
	conn    *websocket.Conn
}

func NewStream(url string, symbols []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) *Stream {
	return &Stream{
		url:            url,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
		changes:        make(map[string]perfEntry),
	}
}

// ChangePct returns the live daily change for the symbol if the entry is
// fresh enough to trust.
func (s *Stream) ChangePct(symbol string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.changes[symbol]
	if !ok || time.Since(e.at) > perfMaxAge {
		return 0, false
	}
	return e.pct, true
}

// Run owns the connect/subscribe/read loop until the context ends.
// Every failure path sleeps the reconnect delay and starts over; the
// stream is an enrichment, so it never takes the pipeline down.
func (s *Stream) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := s.connectAndRead(ctx); err != nil && s.log != nil {
			s.log.Warn("performance stream disconnected", logger.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *Stream) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	s.conn = conn
	defer func() {
		s.conn = nil
		_ = conn.Close()
	}()

	for _, sym := range s.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": sym}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}

	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pingCtx.Done():
				return
			case <-ticker.C:
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		s.handleFrame(raw)
	}
}

type perfFrame struct {
	Type string `json:"type"`
	Data []struct {
		Symbol    string  `json:"symbol"`
		ChangePct float64 `json:"changePct"`
	} `json:"data"`
}

func (s *Stream) handleFrame(raw []byte) {
	var frame perfFrame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Type != "perf" {
		// ignore non-performance frames
		return
	}
	now := time.Now()
	s.mu.Lock()
	for _, d := range frame.Data {
		if d.Symbol == "" {
			continue
		}
		s.changes[d.Symbol] = perfEntry{pct: d.ChangePct, at: now}
	}
	s.mu.Unlock()
}
