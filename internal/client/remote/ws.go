package remote

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
	"github.com/coder/websocket"
)

// wsMessage is the wire shape of a push notification frame.
type wsMessage struct {
	Type    string      `json:"type"`
	Payload models.Bike `json:"payload"`
}

// wsAuth is the authorization frame sent right after the channel opens.
type wsAuth struct {
	Type    string `json:"type"`
	Payload struct {
		Token string `json:"token"`
	} `json:"payload"`
}

// OpenChannel dials the websocket endpoint derived from the base URL, sends
// the authorization frame and starts a read loop that forwards notifications
// to onMessage in arrival order. The returned close function is idempotent;
// once it returns, onMessage is never invoked again.
func (c *RESTClient) OpenChannel(ctx context.Context, onMessage func(Change)) (func(), error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1)

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	readCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	token, err := c.token(ctx)
	if err != nil {
		cancel()
		_ = conn.Close(websocket.StatusInternalError, "no credential")
		return nil, err
	}

	auth := wsAuth{Type: "authorization"}
	auth.Payload.Token = token
	data, err := json.Marshal(auth)
	if err != nil {
		cancel()
		_ = conn.Close(websocket.StatusInternalError, "bad auth frame")
		return nil, err
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		cancel()
		_ = conn.Close(websocket.StatusInternalError, "auth write failed")
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.Read(readCtx)
			if err != nil {
				return
			}
			var msg wsMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				c.log.Warn(readCtx, "dropping malformed push notification", "error", err)
				continue
			}
			onMessage(Change{Kind: msg.Type, Bike: msg.Payload})
		}
	}()

	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			cancel()
			_ = conn.Close(websocket.StatusNormalClosure, "")
			<-done
		})
	}
	return closeFn, nil
}
