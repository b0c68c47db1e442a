package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushServer accepts one websocket client, verifies the authorization frame
// and then replays the given messages.
func pushServer(t *testing.T, messages []wsMessage, gotToken chan<- string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var auth wsAuth
		if err := json.Unmarshal(data, &auth); err != nil || auth.Type != "authorization" {
			return
		}
		gotToken <- auth.Payload.Token

		for _, msg := range messages {
			data, _ := json.Marshal(msg)
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
		// Hold the connection open until the client closes it.
		_, _, _ = conn.Read(ctx)
	}))
}

func TestOpenChannel_DeliversNotificationsInOrder(t *testing.T) {
	messages := []wsMessage{
		{Type: "created", Payload: models.Bike{Id: "1", Name: "Trek"}},
		{Type: "updated", Payload: models.Bike{Id: "1", Name: "Trek v2"}},
		{Type: "deleted", Payload: models.Bike{Id: "1"}},
	}
	gotToken := make(chan string, 1)
	srv := pushServer(t, messages, gotToken)
	t.Cleanup(srv.Close)

	client := NewRESTClient(srv.URL, 2*time.Second, staticToken("jwt-token"), testLogger())

	received := make(chan Change, len(messages))
	closeFn, err := client.OpenChannel(context.Background(), func(ch Change) {
		received <- ch
	})
	require.NoError(t, err)
	t.Cleanup(closeFn)

	assert.Equal(t, "jwt-token", <-gotToken)

	var changes []Change
	for i := 0; i < len(messages); i++ {
		select {
		case ch := <-received:
			changes = append(changes, ch)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for notification %d", i)
		}
	}

	assert.Equal(t, ChangeCreated, changes[0].Kind)
	assert.Equal(t, "Trek", changes[0].Bike.Name)
	assert.Equal(t, ChangeUpdated, changes[1].Kind)
	assert.Equal(t, ChangeDeleted, changes[2].Kind)
}

func TestOpenChannel_CloseStopsDelivery(t *testing.T) {
	gotToken := make(chan string, 1)
	srv := pushServer(t, nil, gotToken)
	t.Cleanup(srv.Close)

	client := NewRESTClient(srv.URL, 2*time.Second, staticToken("t"), testLogger())

	delivered := make(chan Change, 16)
	closeFn, err := client.OpenChannel(context.Background(), func(ch Change) {
		delivered <- ch
	})
	require.NoError(t, err)
	<-gotToken

	closeFn()
	// Idempotent.
	closeFn()

	select {
	case ch := <-delivered:
		t.Fatalf("unexpected delivery after close: %+v", ch)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOpenChannel_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewRESTClient(url, time.Second, staticToken("t"), testLogger())

	_, err := client.OpenChannel(context.Background(), func(Change) {})
	require.Error(t, err)
}
