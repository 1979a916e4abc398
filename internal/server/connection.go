package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/jesmun04/logbait/internal/auth"
	"github.com/jesmun04/logbait/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Upper bound on a single command, store round trips included.
	requestTimeout = 5 * time.Second
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn        *websocket.Conn
	server      *Server
	send        chan *Message
	accountID   string
	displayName string
	tableID     string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
}

func newConnection(conn *websocket.Conn, s *Server) *Connection {
	ctx, cancel := context.WithCancel(s.ctx)

	return &Connection{
		conn:   conn,
		server: s,
		send:   make(chan *Message, 256),
		logger: s.logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.mu.Lock()
		close(c.send)
		c.send = nil
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues msg for the client without blocking. A client whose
// buffer is full is disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	c.mu.RLock()
	if c.send == nil {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}
	select {
	case c.send <- msg:
		c.mu.RUnlock()
		return nil
	default:
		c.mu.RUnlock()
		c.logger.Warn("Connection send buffer full, closing connection", "account", c.Account())
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) setAccount(accountID, displayName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accountID = accountID
	c.displayName = displayName
}

// Account returns the authenticated account, or "" before auth.
func (c *Connection) Account() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accountID
}

func (c *Connection) name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.displayName
}

func (c *Connection) setTable(tableID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tableID = tableID
}

// Table returns the table this connection receives updates for.
func (c *Connection) Table() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableID
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("", CodeInvalidMessage, "malformed message")
			continue
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	c.mu.RLock()
	send := c.send
	c.mu.RUnlock()
	if send == nil {
		return
	}

	for {
		select {
		case message, ok := <-send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(message)
			if err != nil {
				c.logger.Error("Failed to encode message", "error", err, "type", message.Type)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "account", c.Account())

	if msg.Type == MessageTypeAuth {
		var data AuthData
		if err := msg.Decode(&data); err != nil {
			c.sendError(msg.RequestID, CodeInvalidMessage, "failed to parse auth data")
			return
		}
		c.handleAuth(msg.RequestID, data)
		return
	}
	if msg.Type == MessageTypeListTables {
		c.handleListTables(msg.RequestID)
		return
	}

	accountID := c.Account()
	if accountID == "" {
		c.sendError(msg.RequestID, CodeNotAuthenticated, "must authenticate first")
		return
	}

	ctx, cancel := context.WithTimeout(c.ctx, requestTimeout)
	defer cancel()
	svc := c.server.service

	switch msg.Type {
	case MessageTypeJoinTable:
		var data TableData
		if !c.decode(msg, &data) {
			return
		}
		t, err := svc.Join(ctx, data.TableID, accountID, c.name())
		if err != nil {
			c.commandFailed(msg, err)
			return
		}
		c.setTable(data.TableID)
		c.sendView(msg.RequestID, game.EventTableJoined, t, accountID)

	case MessageTypeLeaveTable:
		var data TableData
		if !c.decode(msg, &data) {
			return
		}
		if _, err := svc.Leave(ctx, data.TableID, accountID); err != nil {
			c.commandFailed(msg, err)
			return
		}
		if c.Table() == data.TableID {
			c.setTable("")
		}
		c.reply(msg.RequestID, MessageTypeTableLeft, data)

	case MessageTypeWatchTable:
		var data TableData
		if !c.decode(msg, &data) {
			return
		}
		v, err := svc.Spectate(ctx, data.TableID)
		if err != nil {
			c.commandFailed(msg, err)
			return
		}
		c.setTable(data.TableID)
		c.reply(msg.RequestID, MessageTypeState, StateData{View: v})

	case MessageTypeGetState:
		var data TableData
		if !c.decode(msg, &data) {
			return
		}
		v, err := svc.GetState(ctx, data.TableID, accountID)
		if err != nil {
			c.commandFailed(msg, err)
			return
		}
		c.setTable(data.TableID)
		c.reply(msg.RequestID, MessageTypeState, StateData{View: v})

	case MessageTypeAdjustStack:
		var data AdjustStackData
		if !c.decode(msg, &data) {
			return
		}
		t, err := svc.AdjustTableStack(ctx, data.TableID, accountID, data.Stack)
		if err != nil {
			c.commandFailed(msg, err)
			return
		}
		c.sendView(msg.RequestID, game.EventStackAdjusted, t, accountID)

	case MessageTypeStartHand:
		var data TableData
		if !c.decode(msg, &data) {
			return
		}
		t, err := svc.StartHand(ctx, data.TableID, accountID)
		if err != nil {
			c.commandFailed(msg, err)
			return
		}
		c.sendView(msg.RequestID, handEvent(t, game.EventHandStarted), t, accountID)

	case MessageTypeAct:
		var data ActData
		if !c.decode(msg, &data) {
			return
		}
		kind, err := game.ParseActionKind(data.Action)
		if err != nil {
			c.commandFailed(msg, err)
			return
		}
		t, err := svc.Act(ctx, data.TableID, accountID, game.Action{Kind: kind, Amount: data.Amount})
		if err != nil {
			c.commandFailed(msg, err)
			return
		}
		c.sendView(msg.RequestID, handEvent(t, game.EventPlayerActed), t, accountID)

	default:
		c.sendError(msg.RequestID, CodeUnknownMessage, "unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) decode(msg *Message, v any) bool {
	if err := msg.Decode(v); err != nil {
		c.sendError(msg.RequestID, CodeInvalidMessage, "failed to parse "+msg.Type.String()+" data")
		return false
	}
	return true
}

// commandFailed reports err to this connection only.
func (c *Connection) commandFailed(msg *Message, err error) {
	code := errorCode(err)
	if code == CodeInternal {
		c.logger.Error("Command failed", "type", msg.Type, "account", c.Account(), "error", err)
	}
	c.sendError(msg.RequestID, code, errorMessage(code, err))
}

func (c *Connection) handleAuth(requestID string, data AuthData) {
	ctx, cancel := context.WithTimeout(c.ctx, requestTimeout)
	defer cancel()

	identity, err := c.server.validator.Validate(ctx, data.Token)
	switch {
	case errors.Is(err, auth.ErrUnavailable):
		c.logger.Warn("Auth service unavailable", "error", err)
		c.sendError(requestID, CodeAuthUnavailable, "authentication service unavailable")
		return
	case err != nil:
		c.sendError(requestID, CodeInvalidAuth, "invalid token")
		return
	case identity == nil:
		if data.AccountID == "" {
			c.sendError(requestID, CodeInvalidAuth, "account id required")
			return
		}
		name := data.DisplayName
		if name == "" {
			name = data.AccountID
		}
		identity = &auth.Identity{AccountID: data.AccountID, DisplayName: name}
	}

	c.setAccount(identity.AccountID, identity.DisplayName)
	c.logger.Info("Client authenticated", "account", identity.AccountID)
	c.reply(requestID, MessageTypeAuthResponse, AuthResponseData{
		Success:     true,
		AccountID:   identity.AccountID,
		DisplayName: identity.DisplayName,
	})
}

func (c *Connection) handleListTables(requestID string) {
	ctx, cancel := context.WithTimeout(c.ctx, requestTimeout)
	defer cancel()
	c.reply(requestID, MessageTypeTableList, TableListData{Tables: c.server.directory.List(ctx)})
}

// sendView replies with the requester's view of the committed table.
func (c *Connection) sendView(requestID string, event game.EventType, t *game.Table, accountID string) {
	ctx, cancel := context.WithTimeout(c.ctx, requestTimeout)
	defer cancel()

	var order []string
	if info, err := c.server.directory.Lookup(ctx, t.ID); err == nil {
		order = info.SeatOrder
	}
	viewer := accountID
	if !t.IsMember(viewer) {
		viewer = ""
	}
	c.reply(requestID, MessageTypeState, StateData{Event: event, View: game.NewView(t, viewer, order)})
}

func handEvent(t *game.Table, live game.EventType) game.EventType {
	if t.Hand != nil && !t.Hand.Live() {
		return game.EventHandEnded
	}
	return live
}

func (c *Connection) reply(requestID string, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "error", err, "type", messageType)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}

func (c *Connection) sendError(requestID, code, message string) {
	c.reply(requestID, MessageTypeError, ErrorData{Code: code, Message: message})
}
