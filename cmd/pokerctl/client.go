package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/jesmun04/logbait/internal/render"
	"github.com/jesmun04/logbait/internal/server"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ServerError is an error message returned by pokerd.
type ServerError struct {
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type client struct {
	conn     *websocket.Conn
	renderer *render.Renderer

	mu  sync.Mutex
	seq int
}

// connect dials the server and authenticates.
func connect(ctx context.Context, cli *CLI) (*client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cli.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cli.URL, err)
	}
	c := &client{conn: conn, renderer: render.New(os.Stdout, !cli.NoColor)}

	msg, err := c.request(server.MessageTypeAuth, server.AuthData{
		Token:       cli.Token,
		AccountID:   cli.Account,
		DisplayName: cli.Name,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	var resp server.AuthResponseData
	if err := msg.Decode(&resp); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

func (c *client) send(messageType server.MessageType, data any) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	msg, err := server.NewMessage(messageType, data, time.Now())
	if err != nil {
		return "", err
	}
	msg.RequestID = strconv.Itoa(c.seq)
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return msg.RequestID, c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *client) read() (*server.Message, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var msg server.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &msg, nil
}

// request sends a message and waits for its reply, skipping broadcasts.
func (c *client) request(messageType server.MessageType, data any) (*server.Message, error) {
	id, err := c.send(messageType, data)
	if err != nil {
		return nil, err
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer func() { _ = c.conn.SetReadDeadline(time.Time{}) }()

	for {
		msg, err := c.read()
		if err != nil {
			return nil, err
		}
		if msg.RequestID != id {
			continue
		}
		if msg.Type == server.MessageTypeError {
			var e server.ErrorData
			if err := msg.Decode(&e); err != nil {
				return nil, err
			}
			return nil, &ServerError{Code: e.Code, Message: e.Message}
		}
		return msg, nil
	}
}

func (c *client) printState(msg *server.Message) error {
	var state server.StateData
	if err := msg.Decode(&state); err != nil {
		return err
	}
	if state.Event != "" {
		fmt.Printf("[%s]\n", state.Event)
	}
	fmt.Print(c.renderer.View(state.View))
	return nil
}
