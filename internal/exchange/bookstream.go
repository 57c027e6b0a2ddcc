package exchange

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// BookStream maintains a reconnecting websocket subscription to a venue's
// best-bid/ask stream for one symbol, so FetchTopOfBook/FetchSpreadPct can be
// push-driven instead of polled. It degrades silently to "no data" on
// disconnect; callers fall back to the REST client in that case.
type BookStream struct {
	url    string
	symbol string

	mu      sync.RWMutex
	bid     float64
	ask     float64
	updated time.Time

	stop chan struct{}
}

const bookStreamStaleAfter = 5 * time.Second

// NewBookStream builds (but does not start) a stream for symbol against a
// single raw-stream websocket URL, e.g. Binance's
// wss://fstream.binance.com/ws/<symbol>@bookTicker.
func NewBookStream(url, symbol string) *BookStream {
	return &BookStream{url: url, symbol: symbol, stop: make(chan struct{})}
}

// Start dials and begins reading in the background. Safe to call once.
func (s *BookStream) Start() {
	go s.run()
}

// Stop ends the background reader.
func (s *BookStream) Stop() {
	close(s.stop)
}

// TopOfBook returns the last observed bid/ask if received within
// bookStreamStaleAfter, else (0, 0, false).
func (s *BookStream) TopOfBook() (bid, ask float64, fresh bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if time.Since(s.updated) > bookStreamStaleAfter {
		return 0, 0, false
	}
	return s.bid, s.ask, true
}

type bookTickerMsg struct {
	BestBidPrice string `json:"b"`
	BestAskPrice string `json:"a"`
}

func (s *BookStream) run() {
	backoff := time.Second
	for {
		select {
		case <-s.stop:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(s.url, nil)
		if err != nil {
			log.Printf("⚠️  [BookStream %s] dial failed: %v", s.symbol, err)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
		s.readLoop(conn)
	}
}

func (s *BookStream) readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		select {
		case <-s.stop:
			return
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("⚠️  [BookStream %s] read failed, reconnecting: %v", s.symbol, err)
			return
		}
		var msg bookTickerMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		bid, errB := strconv.ParseFloat(msg.BestBidPrice, 64)
		ask, errA := strconv.ParseFloat(msg.BestAskPrice, 64)
		if errB != nil || errA != nil {
			continue
		}
		s.mu.Lock()
		s.bid, s.ask, s.updated = bid, ask, time.Now()
		s.mu.Unlock()
	}
}

func (s *BookStream) String() string {
	return fmt.Sprintf("BookStream(%s)", s.symbol)
}
