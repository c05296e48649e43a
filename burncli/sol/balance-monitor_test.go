package sol

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchBalance(t *testing.T) {
	owner := testKey(5, 0x01)
	subscribed := make(chan map[string]interface{}, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		_, msg, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var req map[string]interface{}
		_ = json.Unmarshal(msg, &req)
		subscribed <- req

		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"jsonrpc":"2.0","result":22,"id":1}`))
		for _, lamports := range []string{"1000", "3039280"} {
			_ = conn.Write(ctx, websocket.MessageText, []byte(`{"jsonrpc":"2.0","method":"accountNotification","params":{"result":{"context":{"slot":5},"value":{"lamports":`+lamports+`,"owner":"11111111111111111111111111111111"}},"subscription":22}}`))
		}
		<-ctx.Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updates := make(chan uint64)
	done := make(chan error, 1)
	go func() {
		done <- WatchBalance(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), owner, updates)
	}()

	assert.Equal(t, uint64(1000), <-updates)
	assert.Equal(t, uint64(3039280), <-updates)

	req := <-subscribed
	assert.Equal(t, "accountSubscribe", req["method"])
	params := req["params"].([]interface{})
	assert.Equal(t, owner.String(), params[0])

	cancel()
	require.NoError(t, <-done)
}
