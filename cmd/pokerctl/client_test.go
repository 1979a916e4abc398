package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesmun04/logbait/internal/server"
)

// scriptedServer answers every request with a broadcast followed by the
// reply produced by respond.
func scriptedServer(t *testing.T, respond func(req *server.Message) *server.Message) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req server.Message
			if err := json.Unmarshal(data, &req); err != nil {
				return
			}
			broadcast, _ := server.NewMessage(server.MessageTypeState, server.StateData{}, time.Now())
			out, _ := json.Marshal(broadcast)
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
			reply := respond(&req)
			reply.RequestID = req.RequestID
			out, _ = json.Marshal(reply)
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestConnectAuthenticates(t *testing.T) {
	seen := make(chan server.AuthData, 1)
	url := scriptedServer(t, func(req *server.Message) *server.Message {
		var got server.AuthData
		_ = req.Decode(&got)
		seen <- got
		msg, _ := server.NewMessage(server.MessageTypeAuthResponse, server.AuthResponseData{
			AccountID: got.AccountID,
		}, time.Now())
		return msg
	})

	c, err := connect(context.Background(), &CLI{URL: url, Account: "alice", Name: "Alice", NoColor: true})
	require.NoError(t, err)
	defer c.Close()

	got := <-seen
	assert.Equal(t, "alice", got.AccountID)
	assert.Equal(t, "Alice", got.DisplayName)
}

func TestRequestReturnsServerError(t *testing.T) {
	url := scriptedServer(t, func(req *server.Message) *server.Message {
		if req.Type == server.MessageTypeAuth {
			msg, _ := server.NewMessage(server.MessageTypeAuthResponse, server.AuthResponseData{AccountID: "bob"}, time.Now())
			return msg
		}
		msg, _ := server.NewMessage(server.MessageTypeError, server.ErrorData{
			Code:    "not_your_turn",
			Message: "it is alice's turn",
		}, time.Now())
		return msg
	})

	c, err := connect(context.Background(), &CLI{URL: url, Account: "bob", NoColor: true})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.request(server.MessageTypeAct, server.ActData{TableID: "main", Action: "check"})
	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "not_your_turn", serr.Code)
	assert.Equal(t, 2, c.seq)
}

func TestConnectFailsWhenServerIsDown(t *testing.T) {
	_, err := connect(context.Background(), &CLI{URL: "ws://127.0.0.1:1/ws", NoColor: true})
	assert.Error(t, err)
}
