// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/fleetrelay/internal/config"
	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/metrics"
	"github.com/tomtom215/fleetrelay/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// Reject reasons decided at the connection before a report reaches the relay.
const (
	ReasonMalformed   = "malformed"
	ReasonRateLimited = "rate_limited"
	ReasonOverloaded  = "overloaded"
)

// ReportProcessor runs the validation pipeline for one driver_location payload.
//
// NextTicket is called on the read loop in arrival order, before the report
// is handed to its own goroutine, so a report that finishes Process late
// still orders behind the reports that arrived after it.
type ReportProcessor interface {
	NextTicket() uint64
	Process(ctx context.Context, payload []byte, ticket uint64) models.ReportAck
	Reject(ctx context.Context, payload []byte, reason string) models.ReportAck
}

// ClientOptions bounds the work a single connection may cause.
type ClientOptions struct {
	ReportRate     float64
	ReportBurst    int
	MaxInFlight    int
	SendBuffer     int
	ProcessTimeout time.Duration
}

// ClientOptionsFrom derives per-connection limits from the relay configuration.
func ClientOptionsFrom(cfg *config.RelayConfig) ClientOptions {
	return ClientOptions{
		ReportRate:     cfg.ReportRate,
		ReportBurst:    cfg.ReportBurst,
		MaxInFlight:    cfg.MaxInFlight,
		SendBuffer:     cfg.SendBuffer,
		ProcessTimeout: cfg.ProcessTimeout,
	}
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.ReportRate <= 0 {
		o.ReportRate = 5
	}
	if o.ReportBurst <= 0 {
		o.ReportBurst = 10
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 8
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 256
	}
	if o.ProcessTimeout <= 0 {
		o.ProcessTimeout = 5 * time.Second
	}
	return o
}

// clientIDCounter gives every connection a unique, ordered id.
var clientIDCounter atomic.Uint64

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	id        uint64
	hub       *Hub
	conn      *websocket.Conn
	processor ReportProcessor
	opts      ClientOptions

	limiter  *rate.Limiter
	inFlight chan struct{}

	send       chan Message
	sendMu     sync.Mutex
	sendClosed bool

	// ctx ends with the connection. reportCtx carries only the conn_id and
	// outlives it.
	ctx       context.Context
	cancel    context.CancelFunc
	reportCtx context.Context
	wg        sync.WaitGroup
}

// NewClient wraps conn. processor may be nil for observe-only connections.
func NewClient(hub *Hub, conn *websocket.Conn, processor ReportProcessor, opts ClientOptions) *Client {
	opts = opts.withDefaults()
	id := clientIDCounter.Add(1)

	reportCtx := logging.ContextWithConnID(context.Background(), id)
	ctx, cancel := context.WithCancel(reportCtx)

	return &Client{
		id:        id,
		hub:       hub,
		conn:      conn,
		processor: processor,
		opts:      opts,
		limiter:   rate.NewLimiter(rate.Limit(opts.ReportRate), opts.ReportBurst),
		inFlight:  make(chan struct{}, opts.MaxInFlight),
		send:      make(chan Message, opts.SendBuffer),
		ctx:       ctx,
		cancel:    cancel,
		reportCtx: reportCtx,
	}
}

// ID returns the connection id.
func (c *Client) ID() uint64 {
	return c.id
}

// enqueue queues msg without blocking. It reports false when the buffer is
// full or the client has been closed.
func (c *Client) enqueue(msg Message) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel once; the write pump then closes the
// connection.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

func (c *Client) reply(msg Message) {
	if !c.enqueue(msg) {
		metrics.WSErrors.WithLabelValues("reply_dropped").Inc()
		logging.Ctx(c.ctx).Debug().Str("message_type", msg.Type).Msg("reply dropped, client closed or full")
	}
}

// readPump reads frames until the connection fails, then deregisters the
// client. Reports already read keep running; their acks are dropped.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Ctx(c.ctx).Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				metrics.WSErrors.WithLabelValues("unexpected_close").Inc()
				logging.Ctx(c.ctx).Warn().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()
		c.handleFrame(data)
	}
}

func (c *Client) handleFrame(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		metrics.WSErrors.WithLabelValues("invalid_frame").Inc()
		c.rejectFrame(data)
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.reply(Message{Type: MessageTypePong})
	case MessageTypeDriverLocation:
		c.handleReport(msg.Data)
	default:
		// Includes a bare report sent without the envelope.
		metrics.WSErrors.WithLabelValues("unknown_type").Inc()
		logging.Ctx(c.ctx).Debug().Str("message_type", msg.Type).Msg("unknown message type")
		c.rejectFrame(data)
	}
}

// rejectFrame acknowledges a frame that is not a usable message as malformed.
func (c *Client) rejectFrame(data []byte) {
	if c.processor == nil {
		return
	}
	c.reply(Message{Type: MessageTypeReportAck, Data: c.processor.Reject(c.ctx, data, ReasonMalformed)})
}

// handleReport admits a report past the connection limits, takes its
// ordering ticket and processes it on its own goroutine.
func (c *Client) handleReport(payload []byte) {
	if c.processor == nil {
		return
	}

	if !c.limiter.Allow() {
		c.reply(Message{Type: MessageTypeReportAck, Data: c.processor.Reject(c.ctx, payload, ReasonRateLimited)})
		return
	}

	select {
	case c.inFlight <- struct{}{}:
	default:
		c.reply(Message{Type: MessageTypeReportAck, Data: c.processor.Reject(c.ctx, payload, ReasonOverloaded)})
		return
	}

	ticket := c.processor.NextTicket()

	c.wg.Add(1)
	go func() {
		defer func() {
			<-c.inFlight
			c.wg.Done()
		}()

		ctx, cancel := context.WithTimeout(c.reportCtx, c.opts.ProcessTimeout)
		defer cancel()

		ack := c.processor.Process(ctx, payload, ticket)
		c.reply(Message{Type: MessageTypeReportAck, Data: ack})
	}()
}

// writePump writes queued messages and keepalive pings until the send
// channel is closed or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Ctx(c.ctx).Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := MarshalMessage(message)
			if err != nil {
				metrics.WSErrors.WithLabelValues("marshal").Inc()
				logging.Ctx(c.ctx).Error().Err(err).Str("message_type", message.Type).Msg("failed to marshal message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				logging.Ctx(c.ctx).Warn().Err(err).Msg("failed to write message")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start registers the client and starts its pumps. It returns false if the
// hub is no longer running.
func (c *Client) Start() bool {
	if !c.hub.Register(c) {
		_ = c.conn.Close()
		c.cancel()
		return false
	}
	go c.writePump()
	go c.readPump()
	return true
}

// Wait blocks until every report started by this client has finished.
func (c *Client) Wait() {
	c.wg.Wait()
}
